package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

func setupTestClickHouse(t *testing.T) *ClickHouseDB {
	t.Helper()

	host := os.Getenv("CLICKHOUSE_HOST")
	if host == "" {
		host = "localhost"
	}
	database := os.Getenv("CLICKHOUSE_DB")
	if database == "" {
		database = "gdl90"
	}

	ctx := context.Background()
	ch, err := OpenClickHouse(ctx, ClickHouseConfig{
		Host:     host,
		Port:     9000,
		Database: database,
		User:     "default",
	})
	if err != nil {
		return nil
	}

	if err := ch.CreateSchema(ctx); err != nil {
		_ = ch.Close()
		return nil
	}
	return ch
}

func TestInsertAndTrackHistory(t *testing.T) {
	ch := setupTestClickHouse(t)
	if ch == nil {
		t.Skip("No ClickHouse connection available")
	}
	defer ch.Close()

	ctx := context.Background()
	const icao = uint32(0x123456)
	now := time.Now().UTC()

	records := []PositionRecord{
		{ICAOAddress: icao, Callsign: "TST001", Latitude: 40.0, Longitude: -105.0, TrackDeg: 270, GroundSpeedKt: 200, Source: "OGN", ObservedAt: now.Add(-time.Minute)},
		{ICAOAddress: icao, Callsign: "TST001", Latitude: 40.1, Longitude: -105.1, TrackDeg: 271, GroundSpeedKt: 205, Source: "OGN", ObservedAt: now},
	}
	if err := ch.InsertBatch(ctx, records); err != nil {
		t.Fatalf("insert batch failed: %v", err)
	}

	history, err := ch.TrackHistory(ctx, icao, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("track history failed: %v", err)
	}
	if len(history) < 2 {
		t.Fatalf("got %d records, want at least 2", len(history))
	}
	if history[0].ObservedAt.After(history[1].ObservedAt) {
		t.Error("track history is not ordered oldest first")
	}
}

func TestInsertBatchEmptyIsNoop(t *testing.T) {
	ch := setupTestClickHouse(t)
	if ch == nil {
		t.Skip("No ClickHouse connection available")
	}
	defer ch.Close()

	if err := ch.InsertBatch(context.Background(), nil); err != nil {
		t.Errorf("expected nil error for empty batch, got %v", err)
	}
}

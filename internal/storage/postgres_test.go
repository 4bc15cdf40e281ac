package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

// setupTestPostgres creates a test database connection.
// Returns nil if no PostgreSQL connection is available.
func setupTestPostgres(t *testing.T) *PostgresDB {
	t.Helper()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	user := os.Getenv("POSTGRES_USER")
	if user == "" {
		user = "gdl90"
	}
	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		password = "gdl90"
	}
	database := os.Getenv("POSTGRES_DB")
	if database == "" {
		database = "gdl90_broadcaster"
	}

	ctx := context.Background()
	pg, err := OpenPostgres(ctx, PostgresConfig{
		Host:     host,
		Port:     5432,
		User:     user,
		Password: password,
		Database: database,
	})
	if err != nil {
		return nil
	}

	if err := pg.CreateSchema(ctx); err != nil {
		pg.Close()
		return nil
	}

	return pg
}

func int32Ptr(i int32) *int32 { return &i }

func TestUpsertPositionIncrementsUpdateCount(t *testing.T) {
	pg := setupTestPostgres(t)
	if pg == nil {
		t.Skip("No PostgreSQL connection available")
	}
	defer pg.Close()

	ctx := context.Background()
	const icao = uint32(0xABCDEF)

	cleanup := func() {
		_, _ = pg.pool.Exec(ctx, "DELETE FROM aircraft_position WHERE icao_address = $1", icao)
	}
	cleanup()
	defer cleanup()

	err := pg.UpsertPosition(ctx, AircraftPosition{
		ICAOAddress:        icao,
		Callsign:           "UAL123",
		Latitude:           37.5,
		Longitude:          -122.1,
		PressureAltitudeFt: int32Ptr(3500),
		TrackDeg:           90,
		GroundSpeedKt:      250,
		Source:             "OPENSKY",
		ObservedAt:         time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	err = pg.UpsertPosition(ctx, AircraftPosition{
		ICAOAddress:   icao,
		Callsign:      "UAL123",
		Latitude:      37.6,
		Longitude:     -122.2,
		TrackDeg:      91,
		GroundSpeedKt: 255,
		Source:        "OPENSKY",
		ObservedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err := pg.GetPosition(ctx, icao)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected position, got nil")
	}
	if got.UpdateCount != 2 {
		t.Errorf("update_count = %d, want 2", got.UpdateCount)
	}
	if got.Latitude != 37.6 {
		t.Errorf("latitude = %v, want 37.6 (should reflect latest upsert)", got.Latitude)
	}
}

func TestGetPositionNotFound(t *testing.T) {
	pg := setupTestPostgres(t)
	if pg == nil {
		t.Skip("No PostgreSQL connection available")
	}
	defer pg.Close()

	ctx := context.Background()
	got, err := pg.GetPosition(ctx, 0xFFFFFF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for non-existent aircraft, got %+v", got)
	}
}

func TestSessionLifecycle(t *testing.T) {
	pg := setupTestPostgres(t)
	if pg == nil {
		t.Skip("No PostgreSQL connection available")
	}
	defer pg.Close()

	ctx := context.Background()

	id, err := pg.StartSession(ctx, "127.0.0.1:54321")
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	defer func() { _, _ = pg.pool.Exec(ctx, "DELETE FROM session WHERE id = $1", id) }()

	if err := pg.EndSession(ctx, id, 42, "client disconnected"); err != nil {
		t.Fatalf("end session failed: %v", err)
	}
}

package storage

import (
	"context"
	"fmt"

	"gdl90/internal/traffic"
)

// Config holds database connection settings for both ClickHouse and PostgreSQL.
type Config struct {
	ClickHouse ClickHouseConfig
	Postgres   PostgresConfig
}

// DefaultConfig returns a configuration with default local development settings.
func DefaultConfig() Config {
	return Config{
		ClickHouse: ClickHouseConfig{
			Host:     "localhost",
			Port:     9000,
			Database: "gdl90",
			User:     "default",
			Password: "",
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "gdl90_broadcaster",
			User:     "gdl90",
			Password: "gdl90",
		},
	}
}

// DB wraps both ClickHouse and PostgreSQL connections and knows how to
// turn a traffic.Observation into each store's own row shape, so
// callers archiving tracker state don't have to.
type DB struct {
	CH *ClickHouseDB // ClickHouse for the append-only position time series.
	PG *PostgresDB   // PostgreSQL for the mutable position archive and session log.
}

// Open opens connections to both ClickHouse and PostgreSQL.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	ch, err := OpenClickHouse(ctx, cfg.ClickHouse)
	if err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}

	pg, err := OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return &DB{CH: ch, PG: pg}, nil
}

// Close closes both database connections.
func (d *DB) Close() error {
	var errs []error
	if d.CH != nil {
		if err := d.CH.Close(); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse: %w", err))
		}
	}
	if d.PG != nil {
		d.PG.Close()
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// CreateSchemas creates the schemas in both databases.
func (d *DB) CreateSchemas(ctx context.Context) error {
	if d.CH != nil {
		if err := d.CH.CreateSchema(ctx); err != nil {
			return fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	if d.PG != nil {
		if err := d.PG.CreateSchema(ctx); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

func toAircraftPosition(o traffic.Observation) AircraftPosition {
	return AircraftPosition{
		ICAOAddress:        o.ICAOAddress,
		Callsign:           o.Callsign,
		Latitude:           o.Latitude,
		Longitude:          o.Longitude,
		PressureAltitudeFt: o.PressureAltitudeFt,
		TrackDeg:           o.TrackDeg,
		GroundSpeedKt:      o.GroundSpeedKt,
		VerticalRateFPM:    o.VerticalRateFPM,
		EmitterCategory:    int16(o.EmitterCategory),
		Source:             o.Source,
		ObservedAt:         o.ObservedAt,
	}
}

func toPositionRecord(o traffic.Observation) PositionRecord {
	return PositionRecord{
		ICAOAddress:        o.ICAOAddress,
		Callsign:           o.Callsign,
		Latitude:           o.Latitude,
		Longitude:          o.Longitude,
		PressureAltitudeFt: o.PressureAltitudeFt,
		TrackDeg:           float32(o.TrackDeg),
		GroundSpeedKt:      float32(o.GroundSpeedKt),
		VerticalRateFPM:    o.VerticalRateFPM,
		EmitterCategory:    uint8(o.EmitterCategory),
		Source:             o.Source,
		ObservedAt:         o.ObservedAt,
	}
}

// RecordObservation archives a single tracker observation: upserted
// into the PostgreSQL latest-position table and appended to the
// ClickHouse position time series. Either store is skipped if its
// connection wasn't opened.
func (d *DB) RecordObservation(ctx context.Context, o traffic.Observation) error {
	if d.PG != nil {
		if err := d.PG.UpsertPosition(ctx, toAircraftPosition(o)); err != nil {
			return fmt.Errorf("postgres upsert: %w", err)
		}
	}
	if d.CH != nil {
		if err := d.CH.Insert(ctx, toPositionRecord(o)); err != nil {
			return fmt.Errorf("clickhouse insert: %w", err)
		}
	}
	return nil
}

// RecordObservations archives a tracker snapshot: every observation is
// upserted into PostgreSQL individually, then the whole batch is sent
// to ClickHouse in one InsertBatch call. A PostgreSQL failure on one
// row doesn't stop the rest from being attempted; the first error
// encountered is returned once both stores have been tried.
func (d *DB) RecordObservations(ctx context.Context, observations []traffic.Observation) error {
	var firstErr error

	if d.PG != nil {
		for _, o := range observations {
			if err := d.PG.UpsertPosition(ctx, toAircraftPosition(o)); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("postgres upsert %06X: %w", o.ICAOAddress, err)
			}
		}
	}

	if d.CH != nil && len(observations) > 0 {
		records := make([]PositionRecord, len(observations))
		for i, o := range observations {
			records[i] = toPositionRecord(o)
		}
		if err := d.CH.InsertBatch(ctx, records); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("clickhouse batch insert: %w", err)
		}
	}

	return firstErr
}

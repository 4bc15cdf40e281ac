package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection holding the append-only
// position time series, for fleet-wide analytics queries that the
// mutable Postgres archive isn't shaped for.
type ClickHouseDB struct {
	conn driver.Conn
}

// Conn returns the underlying ClickHouse connection for direct queries.
func (d *ClickHouseDB) Conn() driver.Conn {
	return d.conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse tables.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS position_history (
		icao_address         UInt32,
		callsign             LowCardinality(String),
		latitude             Float64,
		longitude            Float64,
		pressure_altitude_ft Nullable(Int32),
		track_deg            Float32,
		ground_speed_kt      Float32,
		vertical_rate_fpm    Nullable(Int32),
		emitter_category     UInt8,
		source               LowCardinality(String),
		observed_at          DateTime64(3)
	)
	ENGINE = MergeTree()
	PARTITION BY toYYYYMMDD(observed_at)
	ORDER BY (icao_address, observed_at)
	SETTINGS index_granularity = 8192`

	if err := d.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// PositionRecord is a single append-only row of the position time series.
type PositionRecord struct {
	ICAOAddress        uint32
	Callsign           string
	Latitude           float64
	Longitude          float64
	PressureAltitudeFt *int32
	TrackDeg           float32
	GroundSpeedKt      float32
	VerticalRateFPM    *int32
	EmitterCategory    uint8
	Source             string
	ObservedAt         time.Time
}

// Insert appends a single position record.
func (d *ClickHouseDB) Insert(ctx context.Context, p PositionRecord) error {
	err := d.conn.Exec(ctx, `
		INSERT INTO position_history (icao_address, callsign, latitude, longitude,
			pressure_altitude_ft, track_deg, ground_speed_kt, vertical_rate_fpm,
			emitter_category, source, observed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ICAOAddress, p.Callsign, p.Latitude, p.Longitude, p.PressureAltitudeFt,
		p.TrackDeg, p.GroundSpeedKt, p.VerticalRateFPM, p.EmitterCategory, p.Source, p.ObservedAt)
	if err != nil {
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

// InsertBatch appends multiple position records efficiently.
func (d *ClickHouseDB) InsertBatch(ctx context.Context, records []PositionRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := d.conn.PrepareBatch(ctx, `
		INSERT INTO position_history (icao_address, callsign, latitude, longitude,
			pressure_altitude_ft, track_deg, ground_speed_kt, vertical_rate_fpm,
			emitter_category, source, observed_at)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range records {
		if err := batch.Append(p.ICAOAddress, p.Callsign, p.Latitude, p.Longitude, p.PressureAltitudeFt,
			p.TrackDeg, p.GroundSpeedKt, p.VerticalRateFPM, p.EmitterCategory, p.Source, p.ObservedAt); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// TrackHistory returns every archived position for icaoAddress within
// the given time window, ordered oldest first.
func (d *ClickHouseDB) TrackHistory(ctx context.Context, icaoAddress uint32, since, until time.Time) ([]PositionRecord, error) {
	rows, err := d.conn.Query(ctx, `
		SELECT icao_address, callsign, latitude, longitude, pressure_altitude_ft,
		       track_deg, ground_speed_kt, vertical_rate_fpm, emitter_category, source, observed_at
		FROM position_history
		WHERE icao_address = ? AND observed_at BETWEEN ? AND ?
		ORDER BY observed_at ASC
	`, icaoAddress, since, until)
	if err != nil {
		return nil, fmt.Errorf("query track history: %w", err)
	}
	defer rows.Close()

	var out []PositionRecord
	for rows.Next() {
		var p PositionRecord
		if err := rows.Scan(&p.ICAOAddress, &p.Callsign, &p.Latitude, &p.Longitude, &p.PressureAltitudeFt,
			&p.TrackDeg, &p.GroundSpeedKt, &p.VerticalRateFPM, &p.EmitterCategory, &p.Source, &p.ObservedAt); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate track history: %w", err)
	}
	return out, nil
}

// CountSince returns how many position records have been archived
// since the given time, optionally filtered by source.
func (d *ClickHouseDB) CountSince(ctx context.Context, since time.Time, source string) (uint64, error) {
	var count uint64
	var err error
	if source != "" {
		row := d.conn.QueryRow(ctx, "SELECT count() FROM position_history WHERE observed_at >= ? AND source = ?", since, source)
		err = row.Scan(&count)
	} else {
		row := d.conn.QueryRow(ctx, "SELECT count() FROM position_history WHERE observed_at >= ?", since)
		err = row.Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count since: %w", err)
	}
	return count, nil
}

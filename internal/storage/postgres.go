// Package storage provides durable and time-series storage for
// tracked traffic positions.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string // SSL mode (disable, require, verify-ca, verify-full). Default: disable.
}

// PostgresDB wraps a PostgreSQL connection pool holding the durable
// position archive and the broadcaster's session log.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	// URL-escape the password to handle special characters.
	escapedPassword := url.QueryEscape(cfg.Password)

	// Default SSL mode to disable if not specified.
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, escapedPassword, cfg.Host, cfg.Port, cfg.Database, sslMode)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// Pool returns the underlying connection pool for direct queries, such
// as the ad-hoc aggregates the kmlexport tool runs for -stats.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	-- Durable archive of the most recent position per tracked aircraft,
	-- plus how many total updates it has received. Mirrors the
	-- in-memory traffic.Tracker, but survives a broadcaster restart.
	CREATE TABLE IF NOT EXISTS aircraft_position (
		icao_address         BIGINT PRIMARY KEY,
		callsign             TEXT,
		latitude             DOUBLE PRECISION NOT NULL,
		longitude            DOUBLE PRECISION NOT NULL,
		pressure_altitude_ft INTEGER,
		track_deg            DOUBLE PRECISION NOT NULL,
		ground_speed_kt      DOUBLE PRECISION NOT NULL,
		vertical_rate_fpm    INTEGER,
		emitter_category     SMALLINT NOT NULL DEFAULT 0,
		source               TEXT NOT NULL,
		first_seen           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		observed_at          TIMESTAMPTZ NOT NULL,
		update_count         INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_aircraft_position_observed ON aircraft_position(observed_at);
	CREATE INDEX IF NOT EXISTS idx_aircraft_position_source ON aircraft_position(source);

	-- One row per client TCP connection accepted by the broadcaster,
	-- for capacity planning and debugging.
	CREATE TABLE IF NOT EXISTS session (
		id              SERIAL PRIMARY KEY,
		remote_addr     TEXT NOT NULL,
		started_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		ended_at        TIMESTAMPTZ,
		frames_sent     BIGINT NOT NULL DEFAULT 0,
		close_reason    TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_session_started ON session(started_at);
	`

	_, err := d.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// AircraftPosition is a row of the durable position archive.
type AircraftPosition struct {
	ICAOAddress        uint32
	Callsign           string
	Latitude           float64
	Longitude          float64
	PressureAltitudeFt *int32
	TrackDeg           float64
	GroundSpeedKt      float64
	VerticalRateFPM    *int32
	EmitterCategory    int16
	Source             string
	ObservedAt         time.Time
	UpdateCount        int
}

// UpsertPosition records the latest known position for an aircraft,
// incrementing its update counter on every call after the first.
func (d *PostgresDB) UpsertPosition(ctx context.Context, p AircraftPosition) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO aircraft_position (icao_address, callsign, latitude, longitude,
			pressure_altitude_ft, track_deg, ground_speed_kt, vertical_rate_fpm,
			emitter_category, source, observed_at, update_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1)
		ON CONFLICT (icao_address) DO UPDATE SET
			callsign             = EXCLUDED.callsign,
			latitude             = EXCLUDED.latitude,
			longitude            = EXCLUDED.longitude,
			pressure_altitude_ft = EXCLUDED.pressure_altitude_ft,
			track_deg            = EXCLUDED.track_deg,
			ground_speed_kt      = EXCLUDED.ground_speed_kt,
			vertical_rate_fpm    = EXCLUDED.vertical_rate_fpm,
			emitter_category     = EXCLUDED.emitter_category,
			source               = EXCLUDED.source,
			observed_at          = EXCLUDED.observed_at,
			update_count         = aircraft_position.update_count + 1
	`,
		p.ICAOAddress, p.Callsign, p.Latitude, p.Longitude, p.PressureAltitudeFt,
		p.TrackDeg, p.GroundSpeedKt, p.VerticalRateFPM, p.EmitterCategory,
		p.Source, p.ObservedAt)
	if err != nil {
		return fmt.Errorf("upsert aircraft position: %w", err)
	}
	return nil
}

// GetPosition returns the archived position for icaoAddress, if any.
func (d *PostgresDB) GetPosition(ctx context.Context, icaoAddress uint32) (*AircraftPosition, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT icao_address, callsign, latitude, longitude, pressure_altitude_ft,
		       track_deg, ground_speed_kt, vertical_rate_fpm, emitter_category,
		       source, observed_at, update_count
		FROM aircraft_position WHERE icao_address = $1
	`, icaoAddress)

	var p AircraftPosition
	err := row.Scan(&p.ICAOAddress, &p.Callsign, &p.Latitude, &p.Longitude, &p.PressureAltitudeFt,
		&p.TrackDeg, &p.GroundSpeedKt, &p.VerticalRateFPM, &p.EmitterCategory,
		&p.Source, &p.ObservedAt, &p.UpdateCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get aircraft position: %w", err)
	}
	return &p, nil
}

// ListPositionsSince returns every archived position observed at or
// after since, ordered by ICAO address.
func (d *PostgresDB) ListPositionsSince(ctx context.Context, since time.Time) ([]AircraftPosition, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT icao_address, callsign, latitude, longitude, pressure_altitude_ft,
		       track_deg, ground_speed_kt, vertical_rate_fpm, emitter_category,
		       source, observed_at, update_count
		FROM aircraft_position
		WHERE observed_at >= $1
		ORDER BY icao_address
	`, since)
	if err != nil {
		return nil, fmt.Errorf("list aircraft positions: %w", err)
	}
	defer rows.Close()

	var out []AircraftPosition
	for rows.Next() {
		var p AircraftPosition
		if err := rows.Scan(&p.ICAOAddress, &p.Callsign, &p.Latitude, &p.Longitude, &p.PressureAltitudeFt,
			&p.TrackDeg, &p.GroundSpeedKt, &p.VerticalRateFPM, &p.EmitterCategory,
			&p.Source, &p.ObservedAt, &p.UpdateCount); err != nil {
			return nil, fmt.Errorf("scan aircraft position: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aircraft positions: %w", err)
	}
	return out, nil
}

// StartSession records a newly accepted broadcaster TCP connection and
// returns its session ID.
func (d *PostgresDB) StartSession(ctx context.Context, remoteAddr string) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx, `
		INSERT INTO session (remote_addr, started_at) VALUES ($1, NOW()) RETURNING id
	`, remoteAddr).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("start session: %w", err)
	}
	return id, nil
}

// EndSession marks a session closed, recording how many frames were
// sent and why the connection ended.
func (d *PostgresDB) EndSession(ctx context.Context, id int64, framesSent int64, closeReason string) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE session SET ended_at = NOW(), frames_sent = $2, close_reason = $3 WHERE id = $1
	`, id, framesSent, closeReason)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// Stats summarizes the durable archive's current size.
type Stats struct {
	TrackedAircraft int64
	ActiveSessions  int64
}

// GetStats returns counts of tracked aircraft and active sessions.
func (d *PostgresDB) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := d.pool.QueryRow(ctx, "SELECT count(*) FROM aircraft_position").Scan(&s.TrackedAircraft); err != nil {
		return s, fmt.Errorf("count aircraft: %w", err)
	}
	if err := d.pool.QueryRow(ctx, "SELECT count(*) FROM session WHERE ended_at IS NULL").Scan(&s.ActiveSessions); err != nil {
		return s, fmt.Errorf("count sessions: %w", err)
	}
	return s, nil
}

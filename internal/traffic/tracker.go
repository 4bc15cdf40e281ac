package traffic

import (
	"database/sql"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Tracker holds the live set of tracked aircraft, keyed by ICAO
// address, backed by a SQLite database for durability across
// restarts.
type Tracker struct {
	db *sql.DB
	mu sync.RWMutex

	aircraft map[uint32]Observation

	onNewAircraft func(Observation)
	onUpdate      func(Observation)
}

// NewTracker opens (or creates) the tracker's SQLite database at
// dbPath. An empty path or ":memory:" uses an in-memory database.
func NewTracker(dbPath string) (*Tracker, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	t := &Tracker{
		db:       db,
		aircraft: make(map[uint32]Observation),
	}
	if err := t.loadAircraft(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return t, nil
}

// Close closes the tracker's database connection.
func (t *Tracker) Close() error {
	return t.db.Close()
}

// OnNewAircraft sets a callback invoked the first time an ICAO
// address is observed.
func (t *Tracker) OnNewAircraft(fn func(Observation)) {
	t.onNewAircraft = fn
}

// OnUpdate sets a callback invoked on every Upsert, including the
// first.
func (t *Tracker) OnUpdate(fn func(Observation)) {
	t.onUpdate = fn
}

func (t *Tracker) loadAircraft() error {
	rows, err := t.db.Query(`
		SELECT icao_address, callsign, latitude, longitude, pressure_altitude_ft,
		       track_deg, ground_speed_kt, vertical_rate_fpm, emitter_category,
		       source, observed_at
		FROM traffic
		WHERE observed_at > datetime('now', '-1 hour')
	`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var o Observation
		var pressureAlt, verticalRate sql.NullInt64
		var observedAt string
		if err := rows.Scan(&o.ICAOAddress, &o.Callsign, &o.Latitude, &o.Longitude,
			&pressureAlt, &o.TrackDeg, &o.GroundSpeedKt, &verticalRate,
			&o.EmitterCategory, &o.Source, &observedAt); err != nil {
			continue
		}
		if pressureAlt.Valid {
			v := int32(pressureAlt.Int64)
			o.PressureAltitudeFt = &v
		}
		if verticalRate.Valid {
			v := int32(verticalRate.Int64)
			o.VerticalRateFPM = &v
		}
		if ts, err := time.Parse("2006-01-02 15:04:05", observedAt); err == nil {
			o.ObservedAt = ts
		}
		t.aircraft[o.ICAOAddress] = o
	}
	return rows.Err()
}

// Upsert records obs as the latest observation for its ICAO address,
// persists it, and fires the registered callbacks.
func (t *Tracker) Upsert(obs Observation) {
	t.mu.Lock()
	_, exists := t.aircraft[obs.ICAOAddress]
	t.aircraft[obs.ICAOAddress] = obs
	t.mu.Unlock()

	t.save(obs)

	if !exists && t.onNewAircraft != nil {
		t.onNewAircraft(obs)
	}
	if t.onUpdate != nil {
		t.onUpdate(obs)
	}
}

func (t *Tracker) save(o Observation) {
	_, err := t.db.Exec(`
		INSERT INTO traffic (icao_address, callsign, latitude, longitude, pressure_altitude_ft,
		                     track_deg, ground_speed_kt, vertical_rate_fpm, emitter_category,
		                     source, observed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(icao_address) DO UPDATE SET
			callsign = excluded.callsign,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			pressure_altitude_ft = excluded.pressure_altitude_ft,
			track_deg = excluded.track_deg,
			ground_speed_kt = excluded.ground_speed_kt,
			vertical_rate_fpm = excluded.vertical_rate_fpm,
			emitter_category = excluded.emitter_category,
			source = excluded.source,
			observed_at = excluded.observed_at
	`,
		o.ICAOAddress, o.Callsign, o.Latitude, o.Longitude, nullableInt32(o.PressureAltitudeFt),
		o.TrackDeg, o.GroundSpeedKt, nullableInt32(o.VerticalRateFPM), o.EmitterCategory,
		o.Source, o.ObservedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	// Best-effort: a tracked aircraft is never lost from memory even
	// if the database write fails.
	_ = err
}

func nullableInt32(v *int32) any {
	if v == nil {
		return nil
	}
	return *v
}

// Get returns the latest observation for icaoAddress, if tracked.
func (t *Tracker) Get(icaoAddress uint32) (Observation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	o, ok := t.aircraft[icaoAddress]
	return o, ok
}

// Snapshot returns every currently tracked aircraft, ordered by ICAO
// address for stable output.
func (t *Tracker) Snapshot() []Observation {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Observation, 0, len(t.aircraft))
	for _, o := range t.aircraft {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ICAOAddress < result[j].ICAOAddress
	})
	return result
}

// Prune removes observations older than maxAge from the in-memory
// cache and the database, returning the number removed.
func (t *Tracker) Prune(maxAge time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for addr, o := range t.aircraft {
		if o.ObservedAt.Before(cutoff) {
			delete(t.aircraft, addr)
			removed++
		}
	}
	_, _ = t.db.Exec("DELETE FROM traffic WHERE observed_at < ?", cutoff.UTC().Format("2006-01-02 15:04:05"))
	return removed
}

// Count returns the number of currently tracked aircraft.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.aircraft)
}

package traffic

// schema contains the SQLite table definition backing Tracker.
const schema = `
CREATE TABLE IF NOT EXISTS traffic (
	icao_address         INTEGER PRIMARY KEY,
	callsign             TEXT,
	latitude             REAL NOT NULL,
	longitude            REAL NOT NULL,
	pressure_altitude_ft INTEGER,
	track_deg            REAL NOT NULL,
	ground_speed_kt      REAL NOT NULL,
	vertical_rate_fpm    INTEGER,
	emitter_category     INTEGER NOT NULL DEFAULT 0,
	source               TEXT NOT NULL,
	observed_at          DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_traffic_observed_at ON traffic(observed_at);
CREATE INDEX IF NOT EXISTS idx_traffic_source ON traffic(source);
`

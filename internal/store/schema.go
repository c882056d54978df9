package store

const Schema = `
CREATE TABLE IF NOT EXISTS tracks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	provider TEXT NOT NULL,
	external_id TEXT NOT NULL,

	-- Metadata
	title TEXT NOT NULL,
	artist TEXT,
	duration INTEGER,
	thumbnail TEXT,
	published_at TEXT,
	popularity REAL,
	stream_url TEXT,
	genre TEXT,
	permalink TEXT,
	waveform_url TEXT,

	-- Usage
	hit_count INTEGER NOT NULL DEFAULT 0,
	first_seen_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	last_seen_at DATETIME DEFAULT CURRENT_TIMESTAMP,

	UNIQUE (provider, external_id)
);

CREATE INDEX IF NOT EXISTS idx_tracks_hit_count ON tracks(hit_count);

CREATE TABLE IF NOT EXISTS searches (
	id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	status TEXT NOT NULL,
	total_results INTEGER NOT NULL DEFAULT 0,
	providers TEXT,  -- JSON array
	search_time_ms INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);

CREATE TABLE IF NOT EXISTS search_results (
	search_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	provider TEXT NOT NULL,
	external_id TEXT NOT NULL,
	PRIMARY KEY (search_id, position),
	FOREIGN KEY (search_id) REFERENCES searches(id)
);

CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	data BLOB,
	expires_at DATETIME
);
`

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/vibefinder/internal/domain"
)

const trackColumns = `provider, external_id, title, artist, duration, thumbnail, published_at,
	popularity, stream_url, genre, permalink, waveform_url`

const upsertTrackQuery = `INSERT INTO tracks (
		provider, external_id, title, artist, duration, thumbnail, published_at,
		popularity, stream_url, genre, permalink, waveform_url,
		hit_count, first_seen_at, last_seen_at
	) VALUES (
		:provider, :external_id, :title, :artist, :duration, :thumbnail, :published_at,
		:popularity, :stream_url, :genre, :permalink, :waveform_url,
		1, :seen_at, :seen_at
	)
	ON CONFLICT(provider, external_id) DO UPDATE SET
		title = excluded.title, artist = excluded.artist, duration = excluded.duration,
		thumbnail = excluded.thumbnail, published_at = excluded.published_at,
		popularity = excluded.popularity, stream_url = excluded.stream_url,
		genre = excluded.genre, permalink = excluded.permalink, waveform_url = excluded.waveform_url,
		hit_count = tracks.hit_count + 1, last_seen_at = excluded.last_seen_at`

type trackRow struct {
	domain.Track
	SeenAt time.Time `db:"seen_at"`
}

// TrackStat is a stored track with how often searches returned it.
type TrackStat struct {
	domain.Track
	HitCount   int       `db:"hit_count" json:"hitCount"`
	LastSeenAt time.Time `db:"last_seen_at" json:"lastSeenAt"`
}

// UpsertTracks stores tracks keyed by (provider, external id), refreshing
// their metadata and counting each sighting.
func (db *DB) UpsertTracks(ctx context.Context, tracks []domain.Track) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := upsertTracks(ctx, tx, tracks, time.Now()); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertTracks(ctx context.Context, tx *sqlx.Tx, tracks []domain.Track, now time.Time) error {
	for _, t := range tracks {
		if _, err := tx.NamedExecContext(ctx, upsertTrackQuery, trackRow{Track: t, SeenAt: now}); err != nil {
			return fmt.Errorf("failed to upsert track %s/%s: %w", t.Provider, t.ID, err)
		}
	}
	return nil
}

func (db *DB) GetTrack(ctx context.Context, provider domain.ProviderName, externalID string) (*domain.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE provider = ? AND external_id = ?`

	var track domain.Track
	err := db.GetContext(ctx, &track, query, provider, externalID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &track, nil
}

// ListTopTracks returns the tracks most often returned by searches.
func (db *DB) ListTopTracks(ctx context.Context, limit int) ([]TrackStat, error) {
	query := `SELECT ` + trackColumns + `, hit_count, last_seen_at FROM tracks
		ORDER BY hit_count DESC, last_seen_at DESC, id ASC LIMIT ?`

	var stats []TrackStat
	if err := db.SelectContext(ctx, &stats, query, limit); err != nil {
		return nil, err
	}
	return stats, nil
}

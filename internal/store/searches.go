package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cesargomez89/vibefinder/internal/domain"
)

// SearchRecord is one persisted aggregated search.
type SearchRecord struct {
	ID           string              `db:"id" json:"id"`
	Query        string              `db:"query" json:"query"`
	Status       domain.SearchStatus `db:"status" json:"status"`
	TotalResults int                 `db:"total_results" json:"totalResults"`
	Providers    domain.ProviderList `db:"providers" json:"providers"`
	SearchTimeMs int64               `db:"search_time_ms" json:"searchTime"`
	CreatedAt    time.Time           `db:"created_at" json:"createdAt"`
	Tracks       []domain.Track      `db:"-" json:"tracks,omitempty"`
}

// RecordSearch stores a finished search, its ranked tracks and their order.
func (db *DB) RecordSearch(ctx context.Context, resp *domain.UnifiedSearchResponse) error {
	if resp == nil || resp.SearchID == "" {
		return fmt.Errorf("store: search without id")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := time.Now()
	_, err = tx.NamedExecContext(ctx, `INSERT INTO searches (id, query, status, total_results, providers, search_time_ms, created_at)
		VALUES (:id, :query, :status, :total_results, :providers, :search_time_ms, :created_at)`,
		SearchRecord{
			ID:           resp.SearchID,
			Query:        resp.Query,
			Status:       resp.Status,
			TotalResults: resp.TotalResults,
			Providers:    domain.ProviderList(resp.Providers),
			SearchTimeMs: resp.SearchTime,
			CreatedAt:    now,
		})
	if err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}

	if err := upsertTracks(ctx, tx, resp.Tracks, now); err != nil {
		return err
	}

	for i, t := range resp.Tracks {
		_, err := tx.ExecContext(ctx, `INSERT INTO search_results (search_id, position, provider, external_id) VALUES (?, ?, ?, ?)`,
			resp.SearchID, i, t.Provider, t.ID)
		if err != nil {
			return fmt.Errorf("failed to insert search result: %w", err)
		}
	}

	return tx.Commit()
}

// GetSearch loads a search with its tracks in ranked order. A missing id
// returns nil, nil.
func (db *DB) GetSearch(ctx context.Context, id string) (*SearchRecord, error) {
	var rec SearchRecord
	err := db.GetContext(ctx, &rec, `SELECT id, query, status, total_results, providers, search_time_ms, created_at
		FROM searches WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = db.SelectContext(ctx, &rec.Tracks, `SELECT t.provider, t.external_id, t.title, t.artist, t.duration, t.thumbnail,
			t.published_at, t.popularity, t.stream_url, t.genre, t.permalink, t.waveform_url
		FROM search_results r
		JOIN tracks t ON t.provider = r.provider AND t.external_id = r.external_id
		WHERE r.search_id = ?
		ORDER BY r.position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load search tracks: %w", err)
	}
	return &rec, nil
}

// ListRecentSearches returns the newest searches without their tracks.
func (db *DB) ListRecentSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	var recs []SearchRecord
	err := db.SelectContext(ctx, &recs, `SELECT id, query, status, total_results, providers, search_time_ms, created_at
		FROM searches ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

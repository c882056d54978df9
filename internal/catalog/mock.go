package catalog

import (
	"context"
	"time"

	"github.com/cesargomez89/vibefinder/internal/domain"
)

// MockProvider returns canned tracks or a canned error. It backs the dev
// mode of the server and aggregator tests.
type MockProvider struct {
	ProviderName domain.ProviderName
	Tracks       []domain.Track
	Err          error
	Delay        time.Duration
	Configured   bool
}

// NewMockProvider returns a configured mock with a small default catalog.
func NewMockProvider(name domain.ProviderName) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		Configured:   true,
		Tracks: []domain.Track{
			{ID: string(name) + "-1", Title: "Mock Track", Artist: "Mock Artist", Duration: 200, Popularity: 50, Provider: name},
			{ID: string(name) + "-2", Title: "Mock Night Drive", Artist: "Mock Artist", Duration: 215, Popularity: 40, Provider: name},
		},
	}
}

func (p *MockProvider) Name() domain.ProviderName {
	return p.ProviderName
}

func (p *MockProvider) IsConfigured() bool {
	return p.Configured
}

func (p *MockProvider) Search(ctx context.Context, input string) (*domain.SearchResult, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, domain.NewSearchError(domain.KindTimeout, p.ProviderName, ctx.Err())
		}
	}
	if p.Err != nil {
		return nil, p.Err
	}

	tracks := make([]domain.Track, len(p.Tracks))
	copy(tracks, p.Tracks)
	return &domain.SearchResult{Tracks: tracks, TotalResults: len(tracks)}, nil
}

var _ Provider = (*MockProvider)(nil)

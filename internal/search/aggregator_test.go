package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cesargomez89/vibefinder/internal/catalog"
	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/logger"
)

func mockTracks(provider domain.ProviderName, n int) []domain.Track {
	tracks := make([]domain.Track, n)
	for i := range tracks {
		tracks[i] = domain.Track{
			ID:         fmt.Sprintf("%s-%d", provider, i),
			Title:      fmt.Sprintf("%s song %d", provider, i),
			Artist:     "Artist " + string(provider),
			Duration:   200,
			Popularity: float64(10 * (i + 1)),
			Provider:   provider,
		}
	}
	return tracks
}

func mock(name domain.ProviderName, tracks []domain.Track, err error) *catalog.MockProvider {
	return &catalog.MockProvider{ProviderName: name, Tracks: tracks, Err: err, Configured: true}
}

func providerMap(ps ...catalog.Provider) map[domain.ProviderName]catalog.Provider {
	out := make(map[domain.ProviderName]catalog.Provider, len(ps))
	for _, p := range ps {
		out[p.Name()] = p
	}
	return out
}

func newTestAggregator(ps ...catalog.Provider) *Aggregator {
	return NewAggregator(providerMap(ps...), DefaultConfig(), logger.Discard())
}

// flakyProvider fails its first failFor calls and then returns tracks.
type flakyProvider struct {
	name    domain.ProviderName
	tracks  []domain.Track
	failFor int32
	calls   int32
}

func (f *flakyProvider) Name() domain.ProviderName { return f.name }
func (f *flakyProvider) IsConfigured() bool        { return true }

func (f *flakyProvider) Search(ctx context.Context, input string) (*domain.SearchResult, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.failFor {
		return nil, domain.NewSearchError(domain.KindRateLimited, f.name, errors.New("slow down"))
	}
	return &domain.SearchResult{Tracks: f.tracks, TotalResults: len(f.tracks)}, nil
}

type recorderFunc func(ctx context.Context, resp *domain.UnifiedSearchResponse) error

func (f recorderFunc) RecordSearch(ctx context.Context, resp *domain.UnifiedSearchResponse) error {
	return f(ctx, resp)
}

func intPtr(v int) *int                     { return &v }
func boolPtr(v bool) *bool                  { return &v }
func durPtr(v time.Duration) *time.Duration { return &v }

func TestSearchMusic_PartialFailure(t *testing.T) {
	slow := mock(domain.ProviderSpotify, mockTracks(domain.ProviderSpotify, 4), nil)
	slow.Delay = 500 * time.Millisecond
	agg := newTestAggregator(
		slow,
		mock(domain.ProviderYouTube, mockTracks(domain.ProviderYouTube, 5), nil),
		mock(domain.ProviderSoundCloud, mockTracks(domain.ProviderSoundCloud, 3), nil),
	)

	resp, err := agg.SearchMusic(context.Background(), "chill night", &Overrides{
		Providers: map[domain.ProviderName]ProviderOverride{
			domain.ProviderSpotify: {Timeout: durPtr(20 * time.Millisecond)},
		},
	})
	if err != nil {
		t.Fatalf("Expected success despite timeout, got %v", err)
	}
	if len(resp.Tracks) != 8 {
		t.Errorf("Expected 8 tracks, got %d", len(resp.Tracks))
	}
	want := []domain.ProviderName{domain.ProviderYouTube, domain.ProviderSoundCloud}
	if len(resp.Providers) != len(want) {
		t.Fatalf("Expected providers %v, got %v", want, resp.Providers)
	}
	for i := range want {
		if resp.Providers[i] != want[i] {
			t.Errorf("Provider %d = %s, want %s", i, resp.Providers[i], want[i])
		}
	}
	for _, tr := range resp.Tracks {
		if tr.Provider == domain.ProviderSpotify {
			t.Errorf("Timed out provider leaked a track: %+v", tr)
		}
	}
	if resp.Status != domain.SearchStatusOK || resp.SearchID == "" {
		t.Errorf("Unexpected response metadata: %+v", resp)
	}
}

func TestSearchMusic_TotalFailure(t *testing.T) {
	agg := newTestAggregator(
		mock(domain.ProviderSpotify, nil, domain.NewSearchError(domain.KindAuthFailed, domain.ProviderSpotify, nil)),
		mock(domain.ProviderYouTube, nil, domain.NewSearchError(domain.KindQuotaExceeded, domain.ProviderYouTube, nil)),
		mock(domain.ProviderSoundCloud, nil, domain.NewSearchError(domain.KindTimeout, domain.ProviderSoundCloud, nil)),
	)

	resp, err := agg.SearchMusic(context.Background(), "chill", nil)
	if resp != nil {
		t.Errorf("Expected nil response, got %+v", resp)
	}
	if !errors.Is(err, domain.ErrNoProvidersAvailable) {
		t.Fatalf("Expected noProvidersAvailable, got %v", err)
	}
	if domain.KindOf(err) != domain.KindNoProvidersAvailable {
		t.Errorf("Expected kind noProvidersAvailable, got %s", domain.KindOf(err))
	}
}

func TestSearchMusic_EmptyIsDistinctFromFailure(t *testing.T) {
	agg := newTestAggregator(
		mock(domain.ProviderSpotify, nil, nil),
		mock(domain.ProviderYouTube, nil, errors.New("boom")),
	)

	resp, err := agg.SearchMusic(context.Background(), "nothing matches", nil)
	if err != nil {
		t.Fatalf("Expected empty success, got %v", err)
	}
	if resp.Status != domain.SearchStatusEmpty {
		t.Errorf("Expected empty status, got %s", resp.Status)
	}
	if len(resp.Tracks) != 0 || len(resp.Providers) != 0 {
		t.Errorf("Expected no tracks and no contributors, got %+v", resp)
	}
}

func TestSearchMusic_BoundedOutput(t *testing.T) {
	agg := newTestAggregator(
		mock(domain.ProviderSpotify, mockTracks(domain.ProviderSpotify, 20), nil),
		mock(domain.ProviderYouTube, mockTracks(domain.ProviderYouTube, 20), nil),
		mock(domain.ProviderSoundCloud, mockTracks(domain.ProviderSoundCloud, 20), nil),
	)

	for _, max := range []int{1, 5, 10} {
		resp, err := agg.SearchMusic(context.Background(), "party", &Overrides{MaxResults: intPtr(max)})
		if err != nil {
			t.Fatalf("SearchMusic failed: %v", err)
		}
		if len(resp.Tracks) > max {
			t.Errorf("max=%d: got %d tracks", max, len(resp.Tracks))
		}
		if resp.TotalResults != len(resp.Tracks) {
			t.Errorf("TotalResults %d does not match %d tracks", resp.TotalResults, len(resp.Tracks))
		}
	}
}

func TestSearchMusic_Dedupe(t *testing.T) {
	shared := domain.Track{ID: "sp-1", Title: "Midnight City", Artist: "M83", Duration: 240, Provider: domain.ProviderSpotify}
	dup := domain.Track{ID: "yt-1", Title: "midnight city ", Artist: "m83", Duration: 240, Popularity: 1e9, Provider: domain.ProviderYouTube}
	other := domain.Track{ID: "yt-2", Title: "Wait", Artist: "M83", Duration: 300, Provider: domain.ProviderYouTube}

	agg := newTestAggregator(
		mock(domain.ProviderSpotify, []domain.Track{shared}, nil),
		mock(domain.ProviderYouTube, []domain.Track{dup, other}, nil),
	)

	resp, err := agg.SearchMusic(context.Background(), "midnight", nil)
	if err != nil {
		t.Fatalf("SearchMusic failed: %v", err)
	}

	keys := map[string]bool{}
	for _, tr := range resp.Tracks {
		if keys[tr.DedupKey()] {
			t.Errorf("Duplicate key %q", tr.DedupKey())
		}
		keys[tr.DedupKey()] = true
		if tr.ID == "yt-1" {
			t.Errorf("Expected first-seen duplicate to win, found later copy %s", tr.ID)
		}
	}
	if len(resp.Tracks) != 2 {
		t.Errorf("Expected 2 tracks after dedupe, got %d", len(resp.Tracks))
	}
}

func TestSearchMusic_FallbackRecoversFailedProvider(t *testing.T) {
	flaky := &flakyProvider{name: domain.ProviderYouTube, tracks: mockTracks(domain.ProviderYouTube, 4), failFor: 1}
	agg := newTestAggregator(
		mock(domain.ProviderSpotify, mockTracks(domain.ProviderSpotify, 1), nil),
		flaky,
	)

	resp, err := agg.SearchMusic(context.Background(), "chill", nil)
	if err != nil {
		t.Fatalf("SearchMusic failed: %v", err)
	}
	if atomic.LoadInt32(&flaky.calls) != 2 {
		t.Errorf("Expected flaky provider to be retried in fallback, got %d calls", flaky.calls)
	}
	if len(resp.Tracks) != 5 {
		t.Errorf("Expected 5 tracks after fallback, got %d", len(resp.Tracks))
	}
	if len(resp.Providers) != 2 {
		t.Errorf("Expected both providers to contribute, got %v", resp.Providers)
	}
}

func TestSearchMusic_FallbackSkipsContributors(t *testing.T) {
	counting := &flakyProvider{name: domain.ProviderSpotify, tracks: mockTracks(domain.ProviderSpotify, 2)}
	agg := newTestAggregator(
		counting,
		mock(domain.ProviderYouTube, nil, nil),
	)

	resp, err := agg.SearchMusic(context.Background(), "chill", nil)
	if err != nil {
		t.Fatalf("SearchMusic failed: %v", err)
	}
	// Fallback queries spotify again but its tracks are not merged twice.
	if atomic.LoadInt32(&counting.calls) != 2 {
		t.Errorf("Expected fallback to query every provider, got %d calls", counting.calls)
	}
	if len(resp.Tracks) != 2 {
		t.Errorf("Expected 2 tracks, got %d", len(resp.Tracks))
	}
}

func TestSearchMusic_FallbackDisabled(t *testing.T) {
	flaky := &flakyProvider{name: domain.ProviderYouTube, tracks: mockTracks(domain.ProviderYouTube, 4), failFor: 1}
	agg := newTestAggregator(
		mock(domain.ProviderSpotify, mockTracks(domain.ProviderSpotify, 1), nil),
		flaky,
	)

	resp, err := agg.SearchMusic(context.Background(), "chill", &Overrides{EnableFallback: boolPtr(false)})
	if err != nil {
		t.Fatalf("SearchMusic failed: %v", err)
	}
	if atomic.LoadInt32(&flaky.calls) != 1 {
		t.Errorf("Expected no fallback retry, got %d calls", flaky.calls)
	}
	if len(resp.Tracks) != 1 {
		t.Errorf("Expected 1 track, got %d", len(resp.Tracks))
	}
}

func TestSearchMusic_StopsEarlyWithoutFallback(t *testing.T) {
	second := &flakyProvider{name: domain.ProviderYouTube, tracks: mockTracks(domain.ProviderYouTube, 3)}
	agg := newTestAggregator(
		mock(domain.ProviderSpotify, mockTracks(domain.ProviderSpotify, 10), nil),
		second,
	)

	_, err := agg.SearchMusic(context.Background(), "chill", &Overrides{EnableFallback: boolPtr(false), MaxResults: intPtr(5)})
	if err != nil {
		t.Fatalf("SearchMusic failed: %v", err)
	}
	if atomic.LoadInt32(&second.calls) != 0 {
		t.Errorf("Expected early stop once max results were reached, got %d calls", second.calls)
	}
}

func TestSearchMusic_SingleProviderErrorSurfaced(t *testing.T) {
	agg := newTestAggregator(
		mock(domain.ProviderSpotify, nil, domain.NewSearchError(domain.KindAuthFailed, domain.ProviderSpotify, errors.New("bad secret"))),
	)

	_, err := agg.SearchMusic(context.Background(), "chill", &Overrides{
		EnableFallback: boolPtr(false),
		Providers:      OnlyProviders(domain.ProviderSpotify),
	})
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("Expected the provider's own error, got %v", err)
	}
	if domain.KindOf(err) != domain.KindAuthFailed {
		t.Errorf("Expected authFailed kind, got %s", domain.KindOf(err))
	}
}

func TestSearchMusic_ConfigurationErrors(t *testing.T) {
	agg := newTestAggregator(mock(domain.ProviderSpotify, mockTracks(domain.ProviderSpotify, 3), nil))

	_, err := agg.SearchMusic(context.Background(), "chill", &Overrides{Providers: OnlyProviders()})
	if domain.KindOf(err) != domain.KindNotConfigured {
		t.Errorf("Expected notConfigured for zero enabled providers, got %v", err)
	}

	unconfigured := mock(domain.ProviderSpotify, nil, nil)
	unconfigured.Configured = false
	agg = newTestAggregator(unconfigured)
	_, err = agg.SearchMusic(context.Background(), "chill", nil)
	if domain.KindOf(err) != domain.KindNoProvidersAvailable {
		t.Errorf("Expected noProvidersAvailable when nothing is configured, got %v", err)
	}
}

func TestSearchMusic_Deterministic(t *testing.T) {
	agg := newTestAggregator(
		mock(domain.ProviderSpotify, mockTracks(domain.ProviderSpotify, 6), nil),
		mock(domain.ProviderYouTube, mockTracks(domain.ProviderYouTube, 6), nil),
		mock(domain.ProviderSoundCloud, mockTracks(domain.ProviderSoundCloud, 6), nil),
	)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	agg.now = func() time.Time { return fixed }

	first, err := agg.SearchMusic(context.Background(), "happy song", nil)
	if err != nil {
		t.Fatalf("SearchMusic failed: %v", err)
	}
	second, err := agg.SearchMusic(context.Background(), "happy song", nil)
	if err != nil {
		t.Fatalf("SearchMusic failed: %v", err)
	}
	if len(first.Tracks) != len(second.Tracks) {
		t.Fatalf("Result sizes differ")
	}
	for i := range first.Tracks {
		if first.Tracks[i].ID != second.Tracks[i].ID {
			t.Errorf("Order differs at %d: %s vs %s", i, first.Tracks[i].ID, second.Tracks[i].ID)
		}
	}
}

func TestSearchMusic_Recorder(t *testing.T) {
	agg := newTestAggregator(mock(domain.ProviderSpotify, mockTracks(domain.ProviderSpotify, 3), nil))

	var mu sync.Mutex
	var recorded *domain.UnifiedSearchResponse
	agg.WithRecorder(recorderFunc(func(ctx context.Context, resp *domain.UnifiedSearchResponse) error {
		mu.Lock()
		defer mu.Unlock()
		recorded = resp
		return errors.New("disk full")
	}))

	resp, err := agg.SearchMusic(context.Background(), "chill", nil)
	if err != nil {
		t.Fatalf("Recorder errors must not surface, got %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if recorded == nil || recorded.SearchID != resp.SearchID {
		t.Errorf("Expected recorder to receive the response")
	}
}

func TestProviders(t *testing.T) {
	unconfigured := mock(domain.ProviderYouTube, nil, nil)
	unconfigured.Configured = false
	agg := newTestAggregator(mock(domain.ProviderSpotify, nil, nil), unconfigured)

	got := agg.Providers()
	if len(got) != 3 {
		t.Fatalf("Expected 3 providers, got %d", len(got))
	}
	if got[0].Name != domain.ProviderSpotify || !got[0].Configured {
		t.Errorf("Expected configured spotify first, got %+v", got[0])
	}
	if got[1].Name != domain.ProviderYouTube || got[1].Configured {
		t.Errorf("Expected unconfigured youtube second, got %+v", got[1])
	}
	if got[2].Name != domain.ProviderSoundCloud || got[2].Configured {
		t.Errorf("Expected missing soundcloud to report unconfigured, got %+v", got[2])
	}
}

package httpapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/cesargomez89/vibefinder/internal/catalog"
	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/http/dto"
	"github.com/cesargomez89/vibefinder/internal/logger"
	"github.com/cesargomez89/vibefinder/internal/ratelimit"
	"github.com/cesargomez89/vibefinder/internal/search"
	"github.com/cesargomez89/vibefinder/internal/store"
)

type stubSearcher struct {
	resp      *domain.UnifiedSearchResponse
	err       error
	lastInput string
	lastOver  *search.Overrides
	calls     int
}

func (s *stubSearcher) SearchMusic(ctx context.Context, input string, o *search.Overrides) (*domain.UnifiedSearchResponse, error) {
	s.calls++
	s.lastInput = input
	s.lastOver = o
	return s.resp, s.err
}

func (s *stubSearcher) Providers() []search.ProviderStatus {
	return []search.ProviderStatus{
		{Name: domain.ProviderSpotify, Configured: true, Enabled: true, Priority: 1, TimeoutMs: 8000},
		{Name: domain.ProviderYouTube, Configured: false, Enabled: true, Priority: 2, TimeoutMs: 10000},
	}
}

func newTestServer(t *testing.T, s Searcher, history History, limiter *ratelimit.Limiter) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandler(s, history, limiter, logger.Discard())))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); v != nil && ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestSearch_OK(t *testing.T) {
	s := &stubSearcher{resp: &domain.UnifiedSearchResponse{
		SearchID:     "abc",
		Query:        "chill lofi",
		Status:       domain.SearchStatusOK,
		Tracks:       []domain.Track{{ID: "1", Title: "Rain", Artist: "Nobody", Provider: domain.ProviderSpotify}},
		TotalResults: 1,
		Providers:    []domain.ProviderName{domain.ProviderSpotify},
	}}
	srv := newTestServer(t, s, nil, nil)

	var body domain.UnifiedSearchResponse
	status := getJSON(t, srv.URL+"/api/search?q=chill+lofi&max=5&providers=spotify", &body)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body.SearchID != "abc" || len(body.Tracks) != 1 {
		t.Errorf("body = %+v", body)
	}
	if s.lastInput != "chill lofi" {
		t.Errorf("input = %q", s.lastInput)
	}
	if s.lastOver == nil || *s.lastOver.MaxResults != 5 {
		t.Errorf("overrides = %+v", s.lastOver)
	}
}

func TestSearch_ValidationErrors(t *testing.T) {
	s := &stubSearcher{}
	srv := newTestServer(t, s, nil, nil)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing query", "", "q"},
		{"bad max", "?q=jazz&max=abc", "max"},
		{"bad fallback", "?q=jazz&fallback=perhaps", "fallback"},
		{"unknown provider", "?q=jazz&providers=napster", "providers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body dto.ErrorResponse
			status := getJSON(t, srv.URL+"/api/search"+tt.query, &body)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", status)
			}
			if body.Kind != "validation" {
				t.Errorf("kind = %q", body.Kind)
			}
			if _, ok := body.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want %s", body.Fields, tt.field)
			}
		})
	}
	if s.calls != 0 {
		t.Errorf("searcher called %d times on invalid input", s.calls)
	}
}

func TestSearch_ErrorStatus(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want int
	}{
		{domain.KindQuotaExceeded, http.StatusTooManyRequests},
		{domain.KindRateLimited, http.StatusTooManyRequests},
		{domain.KindAuthFailed, http.StatusBadGateway},
		{domain.KindTimeout, http.StatusGatewayTimeout},
		{domain.KindNotConfigured, http.StatusServiceUnavailable},
		{domain.KindNoProvidersAvailable, http.StatusServiceUnavailable},
		{domain.KindUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := domain.NewSearchError(tt.kind, domain.ProviderYouTube, errors.New("boom"))
			srv := newTestServer(t, &stubSearcher{err: err}, nil, nil)

			var body dto.ErrorResponse
			status := getJSON(t, srv.URL+"/api/search?q=jazz", &body)
			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
			if body.Kind != string(tt.kind) {
				t.Errorf("kind = %q, want %q", body.Kind, tt.kind)
			}
		})
	}
}

func TestSearch_CallerRateLimited(t *testing.T) {
	s := &stubSearcher{resp: &domain.UnifiedSearchResponse{Status: domain.SearchStatusEmpty}}
	srv := newTestServer(t, s, nil, ratelimit.New(1, 1))

	if status := getJSON(t, srv.URL+"/api/search?q=jazz", nil); status != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", status)
	}
	var body map[string]string
	if status := getJSON(t, srv.URL+"/api/search?q=jazz", &body); status != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", status)
	}
	if body["kind"] != string(domain.KindRateLimited) {
		t.Errorf("kind = %q", body["kind"])
	}
	if s.calls != 1 {
		t.Errorf("searcher called %d times, want 1", s.calls)
	}

	// other routes are not throttled
	if status := getJSON(t, srv.URL+"/api/providers", nil); status != http.StatusOK {
		t.Errorf("providers status = %d, want 200", status)
	}
}

func TestProviders(t *testing.T) {
	srv := newTestServer(t, &stubSearcher{}, nil, nil)

	var body dto.ProvidersResponse
	if status := getJSON(t, srv.URL+"/api/providers", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(body.Providers) != 2 {
		t.Fatalf("providers = %+v", body.Providers)
	}
	if body.Providers[0].Name != "spotify" || !body.Providers[0].Configured {
		t.Errorf("first provider = %+v", body.Providers[0])
	}
	if body.Active != 1 {
		t.Errorf("active = %d, want 1", body.Active)
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	srv := newTestServer(t, &stubSearcher{}, nil, nil)

	var body map[string]string
	if status := getJSON(t, srv.URL+"/healthz", &body); status != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", status, body)
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}

func TestHistoryRoutesDisabledWithoutStore(t *testing.T) {
	srv := newTestServer(t, &stubSearcher{}, nil, nil)

	resp, err := http.Get(srv.URL + "/api/searches")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSearchAndHistory_EndToEnd(t *testing.T) {
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	providers := map[domain.ProviderName]catalog.Provider{
		domain.ProviderSpotify:    catalog.NewMockProvider(domain.ProviderSpotify),
		domain.ProviderSoundCloud: catalog.NewMockProvider(domain.ProviderSoundCloud),
	}
	agg := search.NewAggregator(providers, search.DefaultConfig(), logger.Discard()).WithRecorder(db)
	srv := newTestServer(t, agg, db, nil)

	var resp domain.UnifiedSearchResponse
	if status := getJSON(t, srv.URL+"/api/search?q=night+drive", &resp); status != http.StatusOK {
		t.Fatalf("search status = %d", status)
	}
	if resp.SearchID == "" || resp.TotalResults == 0 {
		t.Fatalf("resp = %+v", resp)
	}

	var list dto.SearchHistoryResponse
	if status := getJSON(t, srv.URL+"/api/searches?limit=5", &list); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if list.Count != 1 || list.Searches[0].ID != resp.SearchID {
		t.Fatalf("list = %+v", list)
	}

	var rec store.SearchRecord
	if status := getJSON(t, srv.URL+"/api/searches/"+resp.SearchID, &rec); status != http.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	if len(rec.Tracks) != resp.TotalResults {
		t.Errorf("stored tracks = %d, want %d", len(rec.Tracks), resp.TotalResults)
	}
	for i := range rec.Tracks {
		if rec.Tracks[i].DedupKey() != resp.Tracks[i].DedupKey() {
			t.Errorf("track %d = %s, want %s", i, rec.Tracks[i].DedupKey(), resp.Tracks[i].DedupKey())
		}
	}

	var missing dto.ErrorResponse
	if status := getJSON(t, srv.URL+"/api/searches/does-not-exist", &missing); status != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", status)
	}
}

func TestSearch_RateLimitKeyIgnoresForwardedHeaders(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantSecond int
	}{
		{"untrusted proxy headers", false, http.StatusTooManyRequests},
		{"trusted proxy headers", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubSearcher{resp: &domain.UnifiedSearchResponse{Status: domain.SearchStatusEmpty}}
			h := NewHandler(s, nil, ratelimit.New(1, 1), logger.Discard())
			h.TrustProxy = tt.trustProxy
			srv := httptest.NewServer(NewRouter(h))
			defer srv.Close()

			statuses := make([]int, 0, 2)
			for _, ip := range []string{"203.0.113.1", "203.0.113.2"} {
				req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/search?q=jazz", nil)
				if err != nil {
					t.Fatal(err)
				}
				req.Header.Set("X-Forwarded-For", ip)
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					t.Fatal(err)
				}
				resp.Body.Close()
				statuses = append(statuses, resp.StatusCode)
			}

			if statuses[0] != http.StatusOK {
				t.Errorf("first status = %d, want 200", statuses[0])
			}
			if statuses[1] != tt.wantSecond {
				t.Errorf("second status = %d, want %d", statuses[1], tt.wantSecond)
			}
		})
	}
}

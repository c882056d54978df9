// Package search merges the adapters into one ranked result list.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/vibefinder/internal/catalog"
	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/intent"
	"github.com/cesargomez89/vibefinder/internal/logger"
)

// Recorder persists finished searches. Failures are logged, never returned
// to the caller.
type Recorder interface {
	RecordSearch(ctx context.Context, resp *domain.UnifiedSearchResponse) error
}

type Aggregator struct {
	providers map[domain.ProviderName]catalog.Provider
	defaults  Config
	logger    *logger.Logger
	recorder  Recorder
	parser    *intent.Parser
	now       func() time.Time
}

func NewAggregator(providers map[domain.ProviderName]catalog.Provider, defaults Config, log *logger.Logger) *Aggregator {
	if log == nil {
		log = logger.Default()
	}
	if defaults.Providers == nil {
		defaults = DefaultConfig()
	}
	return &Aggregator{
		providers: providers,
		defaults:  defaults,
		logger:    log.WithComponent("search"),
		parser:    intent.NewParser(intent.DefaultTables()),
		now:       time.Now,
	}
}

// WithRecorder sets the post-search hook.
func (a *Aggregator) WithRecorder(r Recorder) *Aggregator {
	a.recorder = r
	return a
}

type ProviderStatus struct {
	Name       domain.ProviderName `json:"name"`
	Configured bool                `json:"configured"`
	Enabled    bool                `json:"enabled"`
	Priority   int                 `json:"priority"`
	TimeoutMs  int64               `json:"timeoutMs"`
}

// Providers reports every known provider in priority order.
func (a *Aggregator) Providers() []ProviderStatus {
	cfg := a.defaults.Resolve(nil)
	all := Config{Providers: make(map[domain.ProviderName]ProviderConfig, len(cfg.Providers))}
	for name, pc := range cfg.Providers {
		pc.Enabled = true
		all.Providers[name] = pc
	}

	out := make([]ProviderStatus, 0, len(all.Providers))
	for _, name := range all.Ordered() {
		pc := cfg.Providers[name]
		p, ok := a.providers[name]
		out = append(out, ProviderStatus{
			Name:       name,
			Configured: ok && p.IsConfigured(),
			Enabled:    pc.Enabled,
			Priority:   pc.Priority,
			TimeoutMs:  pc.Timeout.Milliseconds(),
		})
	}
	return out
}

type outcome struct {
	name domain.ProviderName
	res  *domain.SearchResult
	err  error
}

// SearchMusic runs input against the enabled providers and returns the
// merged ranking.
//
// Providers are tried one at a time by priority. When that leaves fewer
// than MinResultsForFallback tracks, every configured provider is queried
// concurrently and results from providers that have not contributed yet are
// merged in. A single provider failure is only returned when it is the sole
// provider and fallback is off.
func (a *Aggregator) SearchMusic(ctx context.Context, input string, overrides *Overrides) (*domain.UnifiedSearchResponse, error) {
	start := time.Now()
	cfg := a.defaults.Resolve(overrides)

	enabled := cfg.Ordered()
	if len(enabled) == 0 {
		return nil, domain.NewSearchError(domain.KindNotConfigured, "", errors.New("search: no providers enabled"))
	}

	var active []catalog.Provider
	for _, name := range enabled {
		p, ok := a.providers[name]
		if !ok || !p.IsConfigured() {
			a.logger.Debug("Skipping unconfigured provider", "provider", name)
			continue
		}
		active = append(active, p)
	}
	if len(active) == 0 {
		return nil, domain.NewSearchError(domain.KindNoProvidersAvailable, "", fmt.Errorf("search: %d enabled providers are not configured", len(enabled)))
	}

	searchID := uuid.New().String()
	log := a.logger.WithSearch(searchID, input)

	var (
		collected   []domain.Track
		contributed = make(map[domain.ProviderName]bool)
		order       []domain.ProviderName
		succeeded   int
		failures    []error
	)
	accept := func(o outcome) {
		if o.err != nil {
			failures = append(failures, o.err)
			return
		}
		succeeded++
		if len(o.res.Tracks) == 0 || contributed[o.name] {
			return
		}
		contributed[o.name] = true
		order = append(order, o.name)
		collected = append(collected, o.res.Tracks...)
	}

	for _, p := range active {
		o := a.call(ctx, p, input, cfg.Providers[p.Name()].Timeout, phaseSequential, log)
		accept(o)
		if o.err == nil && !cfg.EnableFallback && len(collected) >= cfg.MaxResults {
			break
		}
	}

	if len(collected) < constants.MinResultsForFallback && cfg.EnableFallback && len(active) > 1 {
		log.Info("Running parallel fallback", "collected", len(collected), "providers", len(active))
		for _, o := range a.fanOut(ctx, active, input, cfg, log) {
			accept(o)
		}
	}

	if succeeded == 0 {
		observeSearch("failed", time.Since(start))
		if len(active) == 1 && !cfg.EnableFallback {
			return nil, fmt.Errorf("search: %w", failures[0])
		}
		return nil, domain.NewSearchError(domain.KindNoProvidersAvailable, "", fmt.Errorf("search: all providers failed: %w", errors.Join(failures...)))
	}

	tracks := rankMerged(collected, input, a.parser, a.now(), cfg.MaxResults)
	resp := &domain.UnifiedSearchResponse{
		SearchID:     searchID,
		Query:        input,
		Status:       domain.SearchStatusOK,
		Tracks:       tracks,
		TotalResults: len(tracks),
		Providers:    order,
		SearchTime:   time.Since(start).Milliseconds(),
	}
	if len(tracks) == 0 {
		resp.Status = domain.SearchStatusEmpty
		resp.Providers = []domain.ProviderName{}
	}

	observeSearch(string(resp.Status), time.Since(start))
	log.Info("Search finished", "tracks", len(tracks), "providers", order, "elapsed_ms", resp.SearchTime)

	if a.recorder != nil {
		if err := a.recorder.RecordSearch(ctx, resp); err != nil {
			log.Warn("Failed to record search", "error", err)
		}
	}
	return resp, nil
}

// call races one provider against its timeout. A result arriving after the
// deadline is dropped; the buffered channel lets the goroutine finish.
func (a *Aggregator) call(ctx context.Context, p catalog.Provider, input string, timeout time.Duration, phase string, log *logger.Logger) outcome {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		res, err := p.Search(ctx, input)
		done <- outcome{name: p.Name(), res: res, err: err}
	}()

	var o outcome
	select {
	case o = <-done:
		if o.err == nil && o.res == nil {
			o.res = &domain.SearchResult{}
		}
	case <-ctx.Done():
		kind := domain.KindTimeout
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = domain.KindUnknown
		}
		o = outcome{name: p.Name(), err: domain.NewSearchError(kind, p.Name(), fmt.Errorf("search: %w", ctx.Err()))}
	}

	elapsed := time.Since(start)
	observeProvider(p.Name(), phase, elapsed, o.err)
	if o.err != nil {
		log.Warn("Provider failed", "provider", p.Name(), "phase", phase, "kind", domain.KindOf(o.err), "error", o.err, "elapsed_ms", elapsed.Milliseconds())
	} else {
		log.Debug("Provider finished", "provider", p.Name(), "phase", phase, "tracks", len(o.res.Tracks), "elapsed_ms", elapsed.Milliseconds())
	}
	return o
}

// fanOut queries every provider concurrently and waits for all of them.
// Outcomes are returned in the order of providers.
func (a *Aggregator) fanOut(ctx context.Context, providers []catalog.Provider, input string, cfg Config, log *logger.Logger) []outcome {
	type indexed struct {
		i int
		o outcome
	}
	results := make(chan indexed, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p catalog.Provider) {
			defer wg.Done()
			results <- indexed{i: i, o: a.call(ctx, p, input, cfg.Providers[p.Name()].Timeout, phaseFallback, log)}
		}(i, p)
	}
	wg.Wait()
	close(results)

	out := make([]outcome, len(providers))
	for r := range results {
		out[r.i] = r.o
	}
	return out
}

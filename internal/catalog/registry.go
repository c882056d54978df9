package catalog

import (
	"net/http"
	"sync"
	"time"

	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/httpclient"
	"github.com/cesargomez89/vibefinder/internal/logger"
)

// Credentials carries what the adapters need to reach their APIs. Empty
// base URLs fall back to the public endpoints.
type Credentials struct {
	YouTubeAPIKey       string
	YouTubeBaseURL      string
	SoundCloudClientID  string
	SoundCloudBaseURL   string
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyBaseURL      string
	SpotifyTokenURL     string

	HTTPTimeout time.Duration
	RetryCount  int
	RetryBase   time.Duration
	CacheTTL    time.Duration

	// Mock replaces every adapter with a MockProvider.
	Mock bool
}

// Registry owns one adapter per provider, optionally wrapped with the
// response cache.
type Registry struct {
	providers map[domain.ProviderName]Provider
	cached    []*CachedProvider
	logger    *logger.Logger
	mu        sync.RWMutex
}

func NewRegistry(creds Credentials, cache Cache, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Default()
	}

	timeout := creds.HTTPTimeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	newClient := func() *httpclient.Client {
		return httpclient.NewClient(&http.Client{Timeout: timeout}, 0).
			WithRetry(creds.RetryCount, creds.RetryBase)
	}

	var base []Provider
	if creds.Mock {
		for _, name := range domain.AllProviders {
			base = append(base, NewMockProvider(name))
		}
	} else {
		base = []Provider{
			NewSpotifyProvider(creds.SpotifyBaseURL, creds.SpotifyTokenURL, creds.SpotifyClientID, creds.SpotifyClientSecret, newClient(), log),
			NewYouTubeProvider(creds.YouTubeBaseURL, creds.YouTubeAPIKey, newClient(), log),
			NewSoundCloudProvider(creds.SoundCloudBaseURL, creds.SoundCloudClientID, newClient(), log),
		}
	}

	r := &Registry{
		providers: make(map[domain.ProviderName]Provider, len(base)),
		logger:    log.WithComponent("catalog"),
	}
	for _, p := range base {
		if cache != nil && creds.CacheTTL > 0 {
			cp := NewCachedProvider(p, cache, creds.CacheTTL, log)
			r.cached = append(r.cached, cp)
			p = cp
		}
		r.providers[p.Name()] = p
		r.logger.Info("Registered provider", "provider", p.Name(), "configured", p.IsConfigured())
	}
	return r
}

func (r *Registry) Get(name domain.ProviderName) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Set replaces the adapter registered under p.Name().
func (r *Registry) Set(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Providers returns a snapshot of the registered adapters.
func (r *Registry) Providers() map[domain.ProviderName]Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.ProviderName]Provider, len(r.providers))
	for k, v := range r.providers {
		out[k] = v
	}
	return out
}

func (r *Registry) ClearCache() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cp := range r.cached {
		if err := cp.ClearCache(); err != nil {
			return err
		}
	}
	return nil
}

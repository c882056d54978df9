package search

import (
	"sort"
	"time"

	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
)

type ProviderConfig struct {
	Enabled  bool
	Priority int
	Timeout  time.Duration
}

// Config is the effective configuration of one search call.
type Config struct {
	Providers      map[domain.ProviderName]ProviderConfig
	MaxResults     int
	EnableFallback bool
}

func DefaultConfig() Config {
	return Config{
		Providers: map[domain.ProviderName]ProviderConfig{
			domain.ProviderSpotify:    {Enabled: true, Priority: constants.SpotifyPriority, Timeout: constants.SpotifyTimeout},
			domain.ProviderYouTube:    {Enabled: true, Priority: constants.YouTubePriority, Timeout: constants.YouTubeTimeout},
			domain.ProviderSoundCloud: {Enabled: true, Priority: constants.SoundCloudPriority, Timeout: constants.SoundCloudTimeout},
		},
		MaxResults:     constants.DefaultMaxResults,
		EnableFallback: true,
	}
}

// ProviderOverride changes single fields of a provider's config. Nil fields
// keep the default.
type ProviderOverride struct {
	Enabled  *bool
	Priority *int
	Timeout  *time.Duration
}

// Overrides are caller-supplied changes applied on top of the defaults.
type Overrides struct {
	MaxResults     *int
	EnableFallback *bool
	Providers      map[domain.ProviderName]ProviderOverride
}

// OnlyProviders returns overrides that enable exactly the given providers.
func OnlyProviders(names ...domain.ProviderName) map[domain.ProviderName]ProviderOverride {
	keep := make(map[domain.ProviderName]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	out := make(map[domain.ProviderName]ProviderOverride, len(domain.AllProviders))
	for _, n := range domain.AllProviders {
		enabled := keep[n]
		out[n] = ProviderOverride{Enabled: &enabled}
	}
	return out
}

// Resolve merges o onto c and returns a fresh Config; c is not modified.
func (c Config) Resolve(o *Overrides) Config {
	out := Config{
		Providers:      make(map[domain.ProviderName]ProviderConfig, len(c.Providers)),
		MaxResults:     c.MaxResults,
		EnableFallback: c.EnableFallback,
	}
	for name, pc := range c.Providers {
		out.Providers[name] = pc
	}
	if o == nil {
		return out.normalize()
	}

	if o.MaxResults != nil {
		out.MaxResults = *o.MaxResults
	}
	if o.EnableFallback != nil {
		out.EnableFallback = *o.EnableFallback
	}
	for name, po := range o.Providers {
		pc, ok := out.Providers[name]
		if !ok {
			continue
		}
		if po.Enabled != nil {
			pc.Enabled = *po.Enabled
		}
		if po.Priority != nil {
			pc.Priority = *po.Priority
		}
		if po.Timeout != nil {
			pc.Timeout = *po.Timeout
		}
		out.Providers[name] = pc
	}
	return out.normalize()
}

func (c Config) normalize() Config {
	if c.MaxResults <= 0 {
		c.MaxResults = constants.DefaultMaxResults
	}
	if c.MaxResults > constants.MaxAllowedResults {
		c.MaxResults = constants.MaxAllowedResults
	}
	for name, pc := range c.Providers {
		if pc.Timeout <= 0 {
			pc.Timeout = constants.DefaultHTTPTimeout
			c.Providers[name] = pc
		}
	}
	return c
}

// Ordered returns the enabled providers by ascending priority, ties broken
// by name.
func (c Config) Ordered() []domain.ProviderName {
	names := make([]domain.ProviderName, 0, len(c.Providers))
	for name, pc := range c.Providers {
		if pc.Enabled {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := c.Providers[names[i]].Priority, c.Providers[names[j]].Priority
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}

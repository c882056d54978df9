package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/logger"
)

type Cache interface {
	GetCache(key string) ([]byte, error)
	SetCache(key string, data []byte, ttl time.Duration) error
	ClearCache() error
}

// CachedProvider serves repeated searches for the same input from a Cache.
// Only successful results are cached. A failing cache never fails a search:
// reads and writes that error are logged and the wrapped provider is used.
type CachedProvider struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

func NewCachedProvider(provider Provider, cache Cache, cacheTTL time.Duration, log *logger.Logger) *CachedProvider {
	if log == nil {
		log = logger.Default()
	}
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.WithProvider(string(provider.Name())),
	}
}

func (c *CachedProvider) Name() domain.ProviderName {
	return c.provider.Name()
}

func (c *CachedProvider) IsConfigured() bool {
	return c.provider.IsConfigured()
}

func (c *CachedProvider) Search(ctx context.Context, input string) (*domain.SearchResult, error) {
	key := c.key(input)
	if cached, ok := c.lookup(key); ok {
		return cached, nil
	}

	result, err := c.provider.Search(ctx, input)
	if err != nil {
		return nil, err
	}
	c.store(key, result)
	return result, nil
}

func (c *CachedProvider) key(input string) string {
	return fmt.Sprintf("search:%s:%s", c.provider.Name(), strings.ToLower(strings.TrimSpace(input)))
}

// lookup reports a cache hit. Read errors and undecodable entries count as
// misses.
func (c *CachedProvider) lookup(key string) (*domain.SearchResult, bool) {
	data, err := c.cache.GetCache(key)
	if err != nil {
		c.logger.Warn("Cache read failed, querying provider", "key", key, "error", err)
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &result, true
}

func (c *CachedProvider) store(key string, result *domain.SearchResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.cache.SetCache(key, data, c.cacheTTL); err != nil {
		c.logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (c *CachedProvider) ClearCache() error {
	return c.cache.ClearCache()
}

var _ Provider = (*CachedProvider)(nil)

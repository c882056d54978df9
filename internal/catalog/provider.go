package catalog

import (
	"context"

	"github.com/cesargomez89/vibefinder/internal/domain"
)

// Provider is one external catalog. Search returns an empty result, not an
// error, when nothing matches; errors are reserved for transport failures and
// carry a domain.ErrorKind.
type Provider interface {
	Name() domain.ProviderName
	Search(ctx context.Context, input string) (*domain.SearchResult, error)
	// IsConfigured reports whether credentials are present. It never touches
	// the network.
	IsConfigured() bool
}

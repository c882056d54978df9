package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
)

// tokenCache holds one bearer token and its expiry. Readers and refreshers
// race freely: two concurrent refreshes only cost an extra token request.
type tokenCache struct {
	cfg        clientcredentials.Config
	httpClient *http.Client
	current    atomic.Pointer[oauth2.Token]
	now        func() time.Time
}

func newTokenCache(clientID, clientSecret, tokenURL string, httpClient *http.Client) *tokenCache {
	if tokenURL == "" {
		tokenURL = constants.SpotifyTokenURL
	}
	return &tokenCache{
		cfg: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Token returns the cached access token, fetching a new one when it is
// missing or within TokenRefreshMargin of expiry.
func (c *tokenCache) Token(ctx context.Context) (string, error) {
	if tok := c.current.Load(); tok != nil && c.fresh(tok) {
		return tok.AccessToken, nil
	}

	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	tok, err := c.cfg.Token(ctx)
	if err != nil {
		return "", classifyTokenError(ctx, err)
	}
	c.current.Store(tok)
	return tok.AccessToken, nil
}

// Invalidate drops the cached token, e.g. after the API rejected it.
func (c *tokenCache) Invalidate() {
	c.current.Store(nil)
}

// classifyTokenError tags a failed token request. Only a rejection of the
// credentials (400 or 401) is authFailed; throttling, timeouts and server
// errors keep their own kinds.
func classifyTokenError(ctx context.Context, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		status := re.Response.StatusCode
		if status == http.StatusBadRequest || status == http.StatusUnauthorized {
			return domain.NewSearchError(domain.KindAuthFailed, domain.ProviderSpotify,
				fmt.Errorf("spotify adapter: token request rejected: %w", err))
		}
		return classifyStatus(domain.ProviderSpotify, status, re.Body)
	}
	return classifyError(ctx, domain.ProviderSpotify, fmt.Errorf("token request: %w", err))
}

func (c *tokenCache) fresh(tok *oauth2.Token) bool {
	if tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return c.now().Add(constants.TokenRefreshMargin).Before(tok.Expiry)
}

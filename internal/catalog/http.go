package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/httpclient"
)

// getJSON issues a GET and decodes a 200 response into target. Failures are
// returned as *domain.SearchError tagged with the provider.
func getJSON(ctx context.Context, client *httpclient.Client, provider domain.ProviderName, url string, header http.Header, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.NewSearchError(domain.KindUnknown, provider, fmt.Errorf("%s adapter: failed to create request: %w", provider, err))
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(ctx, req)
	if err != nil {
		return classifyError(ctx, provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classifyStatus(provider, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return domain.NewSearchError(domain.KindUnknown, provider, fmt.Errorf("%s adapter: decode error: %w", provider, err))
	}
	return nil
}

// classifyStatus maps a non-200 upstream response onto an error kind.
func classifyStatus(provider domain.ProviderName, status int, body []byte) error {
	err := fmt.Errorf("%s adapter: status %d", provider, status)
	text := strings.ToLower(string(body))

	switch {
	case status == http.StatusForbidden && (strings.Contains(text, "quotaexceeded") || strings.Contains(text, "dailylimitexceeded")):
		return domain.NewSearchError(domain.KindQuotaExceeded, provider, err)
	case status == http.StatusForbidden && strings.Contains(text, "ratelimitexceeded"):
		return domain.NewSearchError(domain.KindRateLimited, provider, err)
	case status == http.StatusTooManyRequests:
		return domain.NewSearchError(domain.KindRateLimited, provider, err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewSearchError(domain.KindAuthFailed, provider, err)
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return domain.NewSearchError(domain.KindTimeout, provider, err)
	default:
		return domain.NewSearchError(domain.KindUnknown, provider, err)
	}
}

// classifyError maps a transport error onto an error kind.
func classifyError(ctx context.Context, provider domain.ProviderName, err error) error {
	var se *httpclient.StatusError
	switch {
	case errors.As(err, &se):
		if se.StatusCode == http.StatusTooManyRequests {
			return domain.NewSearchError(domain.KindRateLimited, provider, fmt.Errorf("%s adapter: %w", provider, err))
		}
		return domain.NewSearchError(domain.KindUnknown, provider, fmt.Errorf("%s adapter: %w", provider, err))
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.NewSearchError(domain.KindTimeout, provider, fmt.Errorf("%s adapter: %w", provider, err))
	default:
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return domain.NewSearchError(domain.KindTimeout, provider, fmt.Errorf("%s adapter: %w", provider, err))
		}
		return domain.NewSearchError(domain.KindUnknown, provider, fmt.Errorf("%s adapter: request failed: %w", provider, err))
	}
}

func notConfigured(provider domain.ProviderName) error {
	return domain.NewSearchError(domain.KindNotConfigured, provider, fmt.Errorf("%s adapter: missing credentials", provider))
}

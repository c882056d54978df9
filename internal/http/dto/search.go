package dto

import (
	"net/url"
	"strings"

	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/search"
)

// SearchRequest is the validated form of GET /api/search.
type SearchRequest struct {
	Query     string
	Max       *int
	Fallback  *bool
	Providers []domain.ProviderName
}

func ParseSearchRequest(values url.Values) (*SearchRequest, []ValidationError) {
	var errs []ValidationError
	req := &SearchRequest{Query: strings.TrimSpace(values.Get("q"))}

	errs = append(errs, validateQuery(values.Get("q"))...)

	maxResults, maxErrs := validateMax(values.Get("max"))
	errs = append(errs, maxErrs...)
	req.Max = maxResults

	fallback, fallbackErrs := validateFallback(values.Get("fallback"))
	errs = append(errs, fallbackErrs...)
	req.Fallback = fallback

	providers, providerErrs := validateProviders(values.Get("providers"))
	errs = append(errs, providerErrs...)
	req.Providers = providers

	if len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// Overrides converts the request into aggregator overrides. A request
// without options yields nil.
func (r *SearchRequest) Overrides() *search.Overrides {
	if r.Max == nil && r.Fallback == nil && len(r.Providers) == 0 {
		return nil
	}
	o := &search.Overrides{
		MaxResults:     r.Max,
		EnableFallback: r.Fallback,
	}
	if len(r.Providers) > 0 {
		o.Providers = search.OnlyProviders(r.Providers...)
	}
	return o
}

// HistoryRequest is the validated form of GET /api/searches.
type HistoryRequest struct {
	Limit int
}

func ParseHistoryRequest(values url.Values, def, maxLimit int) (*HistoryRequest, []ValidationError) {
	limit, errs := validateLimit(values.Get("limit"), def, maxLimit)
	if len(errs) > 0 {
		return nil, errs
	}
	return &HistoryRequest{Limit: limit}, nil
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func FromValidationErrors(errs []ValidationError) ErrorResponse {
	return ErrorResponse{
		Error:  ToResponse(errs),
		Kind:   "validation",
		Fields: ToMap(errs),
	}
}

func FromSearchError(err error) ErrorResponse {
	return ErrorResponse{
		Error: err.Error(),
		Kind:  string(domain.KindOf(err)),
	}
}

package httpapp

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/logger"
	"github.com/cesargomez89/vibefinder/internal/ratelimit"
	"github.com/cesargomez89/vibefinder/internal/search"
	"github.com/cesargomez89/vibefinder/internal/store"
)

// Searcher runs aggregated searches. *search.Aggregator satisfies it.
type Searcher interface {
	SearchMusic(ctx context.Context, input string, overrides *search.Overrides) (*domain.UnifiedSearchResponse, error)
	Providers() []search.ProviderStatus
}

// History serves past searches. *store.DB satisfies it.
type History interface {
	GetSearch(ctx context.Context, id string) (*store.SearchRecord, error)
	ListRecentSearches(ctx context.Context, limit int) ([]store.SearchRecord, error)
}

type Handler struct {
	Searcher Searcher
	History  History
	Limiter  *ratelimit.Limiter
	Logger   *logger.Logger

	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP. Only
	// enable it behind a proxy that overwrites those headers; otherwise a
	// caller picks its own rate limit key.
	TrustProxy bool
}

// NewHandler builds a handler. history and limiter may be nil, which
// disables the history routes and caller throttling.
func NewHandler(s Searcher, history History, limiter *ratelimit.Limiter, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Searcher: s,
		History:  history,
		Limiter:  limiter,
		Logger:   log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(h.rateLimit).Get("/search", h.Search)
		r.Get("/providers", h.Providers)
		if h.History != nil {
			r.Get("/searches", h.ListSearches)
			r.Get("/searches/{id}", h.GetSearch)
		}
	})
}

// NewRouter returns a chi router with the standard middleware stack and
// every route registered.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if h.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Limiter != nil && !h.Limiter.IsAllowed(clientIP(r)) {
			h.writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "too many requests",
				"kind":  string(domain.KindRateLimited),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps a search failure to the HTTP status returned to callers.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindQuotaExceeded, domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindAuthFailed:
		return http.StatusBadGateway
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindNotConfigured, domain.KindNoProvidersAvailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

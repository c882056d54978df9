package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags a search failure so callers can branch on it without
// inspecting messages.
type ErrorKind string

const (
	KindQuotaExceeded        ErrorKind = "quotaExceeded"
	KindRateLimited          ErrorKind = "rateLimited"
	KindAuthFailed           ErrorKind = "authFailed"
	KindTimeout              ErrorKind = "timeout"
	KindNotConfigured        ErrorKind = "notConfigured"
	KindNoProvidersAvailable ErrorKind = "noProvidersAvailable"
	KindUnknown              ErrorKind = "unknown"
)

var (
	ErrQuotaExceeded        = errors.New("provider quota exceeded")
	ErrRateLimited          = errors.New("provider rate limited")
	ErrAuthFailed           = errors.New("provider authentication failed")
	ErrTimeout              = errors.New("provider timed out")
	ErrNotConfigured        = errors.New("provider not configured")
	ErrNoProvidersAvailable = errors.New("no providers available")
)

var sentinels = map[ErrorKind]error{
	KindQuotaExceeded:        ErrQuotaExceeded,
	KindRateLimited:          ErrRateLimited,
	KindAuthFailed:           ErrAuthFailed,
	KindTimeout:              ErrTimeout,
	KindNotConfigured:        ErrNotConfigured,
	KindNoProvidersAvailable: ErrNoProvidersAvailable,
}

// SearchError is a kind-tagged failure from a provider or the aggregator.
type SearchError struct {
	Kind     ErrorKind
	Provider ProviderName
	Err      error
}

func NewSearchError(kind ErrorKind, provider ProviderName, err error) *SearchError {
	return &SearchError{Kind: kind, Provider: provider, Err: err}
}

func (e *SearchError) Error() string {
	msg := string(e.Kind)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	return msg
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that belongs to the error's kind.
func (e *SearchError) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the kind of the first SearchError in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var se *SearchError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

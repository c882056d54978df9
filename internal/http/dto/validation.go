package dto

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func validateQuery(q string) []ValidationError {
	var errs []ValidationError
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		errs = append(errs, ValidationError{Field: "q", Message: "is required"})
	} else if utf8.RuneCountInString(trimmed) > constants.MaxQueryLength {
		errs = append(errs, ValidationError{Field: "q", Message: fmt.Sprintf("must be at most %d characters", constants.MaxQueryLength)})
	}
	return errs
}

func validateMax(raw string) (*int, []ValidationError) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, []ValidationError{{Field: "max", Message: "must be an integer"}}
	}
	if n < 1 || n > constants.MaxAllowedResults {
		return nil, []ValidationError{{Field: "max", Message: fmt.Sprintf("must be between 1 and %d", constants.MaxAllowedResults)}}
	}
	return &n, nil
}

func validateFallback(raw string) (*bool, []ValidationError) {
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, []ValidationError{{Field: "fallback", Message: "must be true or false"}}
	}
	return &b, nil
}

func validateProviders(raw string) ([]domain.ProviderName, []ValidationError) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var names []domain.ProviderName
	var errs []ValidationError
	seen := make(map[domain.ProviderName]bool)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		name, ok := domain.ParseProviderName(part)
		if !ok {
			errs = append(errs, ValidationError{Field: "providers", Message: fmt.Sprintf("unknown provider %q", strings.TrimSpace(part))})
			continue
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(errs) == 0 && len(names) == 0 {
		errs = append(errs, ValidationError{Field: "providers", Message: "must name at least one provider"})
	}
	return names, errs
}

func validateLimit(raw string, def, maxLimit int) (int, []ValidationError) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimit {
		return def, []ValidationError{{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxLimit)}}
	}
	return n, nil
}

package dto

import (
	"net/url"
	"strings"
	"testing"

	"github.com/cesargomez89/vibefinder/internal/domain"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "q", Message: "is required"}
	if err.Error() != "q: is required" {
		t.Errorf("Error() = %q, want %q", err.Error(), "q: is required")
	}
}

func TestValidationError_ToMap(t *testing.T) {
	err := ValidationError{Field: "q", Message: "is required"}
	m := err.ToMap()
	if m["q"] != "is required" {
		t.Errorf("ToMap() = %v, want {q: is required}", m)
	}
}

func TestToResponse(t *testing.T) {
	errs := []ValidationError{
		{Field: "q", Message: "is required"},
		{Field: "max", Message: "invalid"},
	}
	resp := ToResponse(errs)
	expected := "q: is required; max: invalid"
	if resp != expected {
		t.Errorf("ToResponse() = %q, want %q", resp, expected)
	}
	m := ToMap(errs)
	if len(m) != 2 || m["max"] != "invalid" {
		t.Errorf("ToMap() = %v", m)
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		query    string
		name     string
		wantErrs int
	}{
		{"", "empty query", 1},
		{"   ", "blank query", 1},
		{"chill lofi", "valid query", 0},
		{strings.Repeat("a", 150), "max length", 0},
		{strings.Repeat("a", 151), "too long", 1},
		{strings.Repeat("é", 150), "multibyte at max length", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateQuery(tt.query)
			if len(errs) != tt.wantErrs {
				t.Errorf("validateQuery() returned %d errors, want %d", len(errs), tt.wantErrs)
			}
		})
	}
}

func TestValidateMax(t *testing.T) {
	tests := []struct {
		raw      string
		name     string
		want     int
		wantNil  bool
		wantErrs int
	}{
		{"", "absent", 0, true, 0},
		{"5", "valid", 5, false, 0},
		{"50", "upper bound", 50, false, 0},
		{"0", "zero", 0, true, 1},
		{"51", "too large", 0, true, 1},
		{"ten", "not a number", 0, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := validateMax(tt.raw)
			if len(errs) != tt.wantErrs {
				t.Fatalf("validateMax() returned %d errors, want %d", len(errs), tt.wantErrs)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("validateMax() = %d, want nil", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("validateMax() = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateFallback(t *testing.T) {
	tests := []struct {
		raw      string
		name     string
		wantErrs int
	}{
		{"", "absent", 0},
		{"true", "true", 0},
		{"0", "numeric false", 0},
		{"maybe", "invalid", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := validateFallback(tt.raw)
			if len(errs) != tt.wantErrs {
				t.Errorf("validateFallback() returned %d errors, want %d", len(errs), tt.wantErrs)
			}
		})
	}
}

func TestValidateProviders(t *testing.T) {
	tests := []struct {
		raw      string
		name     string
		want     []domain.ProviderName
		wantErrs int
	}{
		{"", "absent", nil, 0},
		{"spotify", "single", []domain.ProviderName{domain.ProviderSpotify}, 0},
		{"YouTube, soundcloud", "mixed case with spaces", []domain.ProviderName{domain.ProviderYouTube, domain.ProviderSoundCloud}, 0},
		{"spotify,spotify", "duplicates collapse", []domain.ProviderName{domain.ProviderSpotify}, 0},
		{"deezer", "unknown", nil, 1},
		{",,", "only separators", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := validateProviders(tt.raw)
			if len(errs) != tt.wantErrs {
				t.Fatalf("validateProviders() returned %d errors, want %d", len(errs), tt.wantErrs)
			}
			if tt.wantErrs > 0 {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("validateProviders() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("validateProviders()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseSearchRequest(t *testing.T) {
	req, errs := ParseSearchRequest(url.Values{
		"q":         {"  chill study lofi  "},
		"max":       {"7"},
		"fallback":  {"false"},
		"providers": {"soundcloud"},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if req.Query != "chill study lofi" {
		t.Errorf("Query = %q", req.Query)
	}

	o := req.Overrides()
	if o == nil {
		t.Fatal("expected overrides")
	}
	if *o.MaxResults != 7 || *o.EnableFallback {
		t.Errorf("overrides = max %d fallback %v", *o.MaxResults, *o.EnableFallback)
	}
	if !*o.Providers[domain.ProviderSoundCloud].Enabled {
		t.Error("soundcloud should be enabled")
	}
	if *o.Providers[domain.ProviderSpotify].Enabled {
		t.Error("spotify should be disabled")
	}
}

func TestParseSearchRequest_CollectsAllErrors(t *testing.T) {
	_, errs := ParseSearchRequest(url.Values{
		"max":      {"999"},
		"fallback": {"sometimes"},
	})
	fields := ToMap(errs)
	for _, f := range []string{"q", "max", "fallback"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing error for %s in %v", f, fields)
		}
	}
}

func TestSearchRequest_NoOptions(t *testing.T) {
	req, errs := ParseSearchRequest(url.Values{"q": {"jazz"}})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if req.Overrides() != nil {
		t.Error("expected nil overrides when no options are given")
	}
}

func TestParseHistoryRequest(t *testing.T) {
	tests := []struct {
		raw      string
		name     string
		want     int
		wantErrs int
	}{
		{"", "default", 20, 0},
		{"5", "explicit", 5, 0},
		{"0", "zero", 0, 1},
		{"101", "over max", 0, 1},
		{"abc", "not a number", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, errs := ParseHistoryRequest(url.Values{"limit": {tt.raw}}, 20, 100)
			if len(errs) != tt.wantErrs {
				t.Fatalf("ParseHistoryRequest() returned %d errors, want %d", len(errs), tt.wantErrs)
			}
			if tt.wantErrs == 0 && req.Limit != tt.want {
				t.Errorf("Limit = %d, want %d", req.Limit, tt.want)
			}
		})
	}
}

package dto

import (
	"github.com/cesargomez89/vibefinder/internal/search"
)

type ProviderResponse struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Enabled    bool   `json:"enabled"`
	Priority   int    `json:"priority"`
	TimeoutMs  int64  `json:"timeoutMs"`
}

type ProvidersResponse struct {
	Providers []ProviderResponse `json:"providers"`
	Active    int                `json:"active"`
}

func FromProviderStatus(statuses []search.ProviderStatus) ProvidersResponse {
	resp := ProvidersResponse{Providers: make([]ProviderResponse, 0, len(statuses))}
	for _, s := range statuses {
		resp.Providers = append(resp.Providers, ProviderResponse{
			Name:       string(s.Name),
			Configured: s.Configured,
			Enabled:    s.Enabled,
			Priority:   s.Priority,
			TimeoutMs:  s.TimeoutMs,
		})
		if s.Configured && s.Enabled {
			resp.Active++
		}
	}
	return resp
}

package domain

import "strings"

type ProviderName string

const (
	ProviderYouTube    ProviderName = "youtube"
	ProviderSoundCloud ProviderName = "soundcloud"
	ProviderSpotify    ProviderName = "spotify"
)

// AllProviders lists every known provider in a stable order.
var AllProviders = []ProviderName{ProviderSpotify, ProviderYouTube, ProviderSoundCloud}

// ParseProviderName maps a case-insensitive name to a known provider.
func ParseProviderName(s string) (ProviderName, bool) {
	name := ProviderName(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range AllProviders {
		if p == name {
			return p, true
		}
	}
	return "", false
}

type Speed string

const (
	SpeedSlow   Speed = "slow"
	SpeedMedium Speed = "medium"
	SpeedFast   Speed = "fast"
)

type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

type Valence string

const (
	ValenceNegative Valence = "negative"
	ValenceNeutral  Valence = "neutral"
	ValencePositive Valence = "positive"
)

// Intent is the structured reading of a free-text vibe. It is recomputed on
// every request and never persisted.
type Intent struct {
	Vibe        string  `json:"vibe"`
	Environment string  `json:"environment"`
	Speed       Speed   `json:"speed"`
	Energy      Energy  `json:"energy"`
	Valence     Valence `json:"valence"`
	Genre       string  `json:"genre"`
}

// Track is the normalized track shared by every provider adapter.
// Popularity keeps the provider's own scale (views, plays or a 0-100 index).
type Track struct {
	ID          string       `json:"id" db:"external_id"`
	Title       string       `json:"title" db:"title"`
	Artist      string       `json:"artist" db:"artist"`
	Duration    int          `json:"duration" db:"duration"`
	Thumbnail   string       `json:"thumbnail" db:"thumbnail"`
	PublishedAt string       `json:"publishedAt" db:"published_at"`
	Popularity  float64      `json:"popularity" db:"popularity"`
	Provider    ProviderName `json:"provider" db:"provider"`
	StreamURL   string       `json:"streamUrl,omitempty" db:"stream_url"`
	Genre       string       `json:"genre,omitempty" db:"genre"`
	Permalink   string       `json:"permalink,omitempty" db:"permalink"`
	WaveformURL string       `json:"waveformUrl,omitempty" db:"waveform_url"`
}

// DedupKey identifies a recording across providers.
func (t Track) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(t.Title)) + "\x00" + strings.ToLower(strings.TrimSpace(t.Artist))
}

// ScoredTrack carries a transient ranking score. It never leaves the ranking
// step; use StripScores before returning tracks.
type ScoredTrack struct {
	Track
	Score float64
}

// StripScores drops the ranking score, keeping order.
func StripScores(scored []ScoredTrack) []Track {
	tracks := make([]Track, len(scored))
	for i, s := range scored {
		tracks[i] = s.Track
	}
	return tracks
}

// SearchResult is what a single provider adapter returns.
type SearchResult struct {
	Tracks       []Track `json:"tracks"`
	TotalResults int     `json:"totalResults"`
}

type SearchStatus string

const (
	SearchStatusOK    SearchStatus = "ok"
	SearchStatusEmpty SearchStatus = "empty"
)

// UnifiedSearchResponse is the merged output of the aggregator.
type UnifiedSearchResponse struct {
	SearchID     string         `json:"searchId"`
	Query        string         `json:"query"`
	Status       SearchStatus   `json:"status"`
	Tracks       []Track        `json:"tracks"`
	TotalResults int            `json:"totalResults"`
	Providers    []ProviderName `json:"providers"`
	SearchTime   int64          `json:"searchTime"`
}

// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort        = "8080"
	DefaultDBPath      = "vibefinder.db"
	DefaultHTTPTimeout = 15 * time.Second
	DefaultRetryCount  = 2
	DefaultRetryBase   = 500 * time.Millisecond
	DefaultCacheTTL    = 30 * time.Minute
	DefaultUserAgent   = "vibefinder/1.0 (https://github.com/cesargomez89/vibefinder)"
)

// Provider API endpoints
const (
	YouTubeAPIURL     = "https://www.googleapis.com/youtube/v3"
	SoundCloudAPIURL  = "https://api-v2.soundcloud.com"
	SpotifyAPIURL     = "https://api.spotify.com/v1"
	SpotifyTokenURL   = "https://accounts.spotify.com/api/token"
	YouTubeMusicTopic = "10" // music video category
)

// Search defaults
const (
	DefaultMaxResults     = 10
	MaxAllowedResults     = 50
	ProviderTopK          = 10
	MinResultsBeforeRetry = 5
	MinResultsForFallback = 3
	MaxQueryLength        = 150
	YouTubePageSize       = 25
	SoundCloudPageSize    = 30
	SpotifyPageSize       = 30
	SpotifyTimeout        = 8 * time.Second
	YouTubeTimeout        = 10 * time.Second
	SoundCloudTimeout     = 8 * time.Second
	TokenRefreshMargin    = 60 * time.Second
	RecencyWindow         = 365 * 24 * time.Hour
)

// Provider priorities, lower is tried first
const (
	SpotifyPriority    = 1
	YouTubePriority    = 2
	SoundCloudPriority = 3
)

// Caller rate limiting
const (
	DefaultRateLimitPerMinute = 30
	DefaultRateLimitBurst     = 10
)

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cesargomez89/vibefinder/internal/catalog"
	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/logger"
	"github.com/cesargomez89/vibefinder/internal/search"
)

// EnvPrefix prefixes every environment variable, e.g. VIBEFINDER_PORT or
// VIBEFINDER_SPOTIFY_CLIENT_ID.
const EnvPrefix = "VIBEFINDER"

// ProviderConfig holds the settings shared by every catalog.
type ProviderConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Priority int           `mapstructure:"priority"`
	Timeout  time.Duration `mapstructure:"timeout"`
	BaseURL  string        `mapstructure:"base_url"`
}

type YouTubeConfig struct {
	ProviderConfig `mapstructure:",squash"`
	APIKey         string `mapstructure:"api_key"`
}

type SoundCloudConfig struct {
	ProviderConfig `mapstructure:",squash"`
	ClientID       string `mapstructure:"client_id"`
}

type SpotifyConfig struct {
	ProviderConfig `mapstructure:",squash"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	TokenURL       string `mapstructure:"token_url"`
}

// Config holds all application configuration
type Config struct {
	Port      string `mapstructure:"port"`
	DBPath    string `mapstructure:"db_path"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	// Mock serves canned tracks instead of calling the real catalogs.
	Mock bool `mapstructure:"mock"`

	MaxResults     int           `mapstructure:"max_results"`
	EnableFallback bool          `mapstructure:"fallback"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	RetryCount     int           `mapstructure:"retry_count"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	RateLimit      int           `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`

	// TrustProxy keys rate limits on X-Forwarded-For / X-Real-IP.
	TrustProxy bool `mapstructure:"trust_proxy"`

	YouTube    YouTubeConfig    `mapstructure:"youtube"`
	SoundCloud SoundCloudConfig `mapstructure:"soundcloud"`
	Spotify    SpotifyConfig    `mapstructure:"spotify"`
}

// Load reads configuration from an optional YAML file and the environment.
// An empty path looks for ./config.yaml and ignores it when absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Common unprefixed names for the catalog credentials.
	_ = v.BindEnv("youtube.api_key", EnvPrefix+"_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")
	_ = v.BindEnv("soundcloud.client_id", EnvPrefix+"_SOUNDCLOUD_CLIENT_ID", "SOUNDCLOUD_CLIENT_ID")
	_ = v.BindEnv("spotify.client_id", EnvPrefix+"_SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_ID")
	_ = v.BindEnv("spotify.client_secret", EnvPrefix+"_SPOTIFY_CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("db_path", constants.DefaultDBPath)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("mock", false)

	v.SetDefault("max_results", constants.DefaultMaxResults)
	v.SetDefault("fallback", true)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("retry_count", constants.DefaultRetryCount)
	v.SetDefault("cache_ttl", constants.DefaultCacheTTL)
	v.SetDefault("rate_limit_per_minute", constants.DefaultRateLimitPerMinute)
	v.SetDefault("rate_limit_burst", constants.DefaultRateLimitBurst)
	v.SetDefault("trust_proxy", false)

	v.SetDefault("youtube.enabled", true)
	v.SetDefault("youtube.priority", constants.YouTubePriority)
	v.SetDefault("youtube.timeout", constants.YouTubeTimeout)
	v.SetDefault("youtube.base_url", constants.YouTubeAPIURL)
	v.SetDefault("youtube.api_key", "")

	v.SetDefault("soundcloud.enabled", true)
	v.SetDefault("soundcloud.priority", constants.SoundCloudPriority)
	v.SetDefault("soundcloud.timeout", constants.SoundCloudTimeout)
	v.SetDefault("soundcloud.base_url", constants.SoundCloudAPIURL)
	v.SetDefault("soundcloud.client_id", "")

	v.SetDefault("spotify.enabled", true)
	v.SetDefault("spotify.priority", constants.SpotifyPriority)
	v.SetDefault("spotify.timeout", constants.SpotifyTimeout)
	v.SetDefault("spotify.base_url", constants.SpotifyAPIURL)
	v.SetDefault("spotify.token_url", constants.SpotifyTokenURL)
	v.SetDefault("spotify.client_id", "")
	v.SetDefault("spotify.client_secret", "")
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errs []string

	// Validate Port
	if c.Port == "" {
		errs = append(errs, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errs = append(errs, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errs = append(errs, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	// Validate DBPath
	if c.DBPath == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.MaxResults < 1 || c.MaxResults > constants.MaxAllowedResults {
		errs = append(errs, fmt.Sprintf("MAX_RESULTS must be between 1 and %d, got: %d", constants.MaxAllowedResults, c.MaxResults))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("HTTP_TIMEOUT must be positive, got: %s", c.HTTPTimeout))
	}
	if c.RetryCount < 1 {
		errs = append(errs, fmt.Sprintf("RETRY_COUNT must be at least 1, got: %d", c.RetryCount))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Sprintf("RATE_LIMIT_PER_MINUTE cannot be negative, got: %d", c.RateLimit))
	}

	// Validate providers
	enabled := 0
	for name, pc := range c.providers() {
		prefix := strings.ToUpper(string(name))
		if pc.Enabled {
			enabled++
		}
		if pc.Priority < 0 {
			errs = append(errs, fmt.Sprintf("%s_PRIORITY cannot be negative, got: %d", prefix, pc.Priority))
		}
		if pc.Timeout <= 0 {
			errs = append(errs, fmt.Sprintf("%s_TIMEOUT must be positive, got: %s", prefix, pc.Timeout))
		}
	}
	if enabled == 0 {
		errs = append(errs, "at least one provider must be enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func (c *Config) providers() map[domain.ProviderName]ProviderConfig {
	return map[domain.ProviderName]ProviderConfig{
		domain.ProviderYouTube:    c.YouTube.ProviderConfig,
		domain.ProviderSoundCloud: c.SoundCloud.ProviderConfig,
		domain.ProviderSpotify:    c.Spotify.ProviderConfig,
	}
}

// SearchConfig returns the aggregator defaults described by c.
func (c *Config) SearchConfig() search.Config {
	out := search.Config{
		Providers:      make(map[domain.ProviderName]search.ProviderConfig, 3),
		MaxResults:     c.MaxResults,
		EnableFallback: c.EnableFallback,
	}
	for name, pc := range c.providers() {
		out.Providers[name] = search.ProviderConfig{Enabled: pc.Enabled, Priority: pc.Priority, Timeout: pc.Timeout}
	}
	return out
}

// Credentials returns what the catalog adapters need.
func (c *Config) Credentials() catalog.Credentials {
	return catalog.Credentials{
		YouTubeAPIKey:       c.YouTube.APIKey,
		YouTubeBaseURL:      c.YouTube.BaseURL,
		SoundCloudClientID:  c.SoundCloud.ClientID,
		SoundCloudBaseURL:   c.SoundCloud.BaseURL,
		SpotifyClientID:     c.Spotify.ClientID,
		SpotifyClientSecret: c.Spotify.ClientSecret,
		SpotifyBaseURL:      c.Spotify.BaseURL,
		SpotifyTokenURL:     c.Spotify.TokenURL,
		HTTPTimeout:         c.HTTPTimeout,
		RetryCount:          c.RetryCount,
		RetryBase:           constants.DefaultRetryBase,
		CacheTTL:            c.CacheTTL,
		Mock:                c.Mock,
	}
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/httpclient"
	"github.com/cesargomez89/vibefinder/internal/intent"
	"github.com/cesargomez89/vibefinder/internal/logger"
)

var spotifyWeights = Weights{
	TrustedSource:      0,
	BlacklistedSource:  -10,
	KeywordHit:         1.5,
	KeywordCap:         4.5,
	AestheticHit:       1,
	AestheticCap:       3,
	CompilationPenalty: -2,
	DurationIdeal:      2,
	DurationNear:       1,
	DurationTooLong:    -1,
	IdealMin:           150,
	IdealMax:           270,
	RecencyBonus:       1,
	PopularityCap:      4,
	PopularityCeiling:  100,
}

var spotifyBlacklistedSources = []string{"karaoke", "tribute", "cover band", "the hit crew", "sleep sounds", "white noise", "workout remix"}

var spotifyRules = FilterRules{
	MinDuration:   45,
	MaxDuration:   12 * 60,
	MinPopularity: 0,
	Blacklist:     append([]string{"karaoke", "instrumental version", "commentary"}, defaultBlacklist...),
}

var spotifyStyle = QueryStyle{
	Exclusions:     []string{"NOT karaoke", "NOT cover"},
	AnimeSuffix:    "anime",
	PlaylistSuffix: "playlist mix",
}

// SpotifyProvider searches the streaming catalog with a client-credentials
// bearer token.
type SpotifyProvider struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Client       *httpclient.Client

	tokens   *tokenCache
	pipeline pipeline
}

func NewSpotifyProvider(baseURL, tokenURL, clientID, clientSecret string, client *httpclient.Client, log *logger.Logger) *SpotifyProvider {
	if baseURL == "" {
		baseURL = constants.SpotifyAPIURL
	}
	if client == nil {
		client = httpclient.NewClient(nil, 0)
	}
	if log == nil {
		log = logger.Default()
	}
	return &SpotifyProvider{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Client:       client,
		tokens:       newTokenCache(clientID, clientSecret, tokenURL, client.GetUnderlyingClient()),
		pipeline: pipeline{
			parser: intent.NewParser(intent.SpotifyTables()),
			style:  spotifyStyle,
			rules:  spotifyRules,
			score:  scoreWith(spotifyWeights, nil, spotifyBlacklistedSources),
			now:    time.Now,
			logger: log.WithProvider(string(domain.ProviderSpotify)),
		},
	}
}

func (p *SpotifyProvider) Name() domain.ProviderName {
	return domain.ProviderSpotify
}

func (p *SpotifyProvider) IsConfigured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

func (p *SpotifyProvider) Search(ctx context.Context, input string) (*domain.SearchResult, error) {
	if !p.IsConfigured() {
		return nil, notConfigured(p.Name())
	}
	return p.pipeline.run(ctx, input, p.fetch)
}

type spotifyTrack struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DurationMs  int    `json:"duration_ms"`
	Popularity  int    `json:"popularity"`
	PreviewURL  string `json:"preview_url"`
	IsPlayable  *bool  `json:"is_playable"`
	ExternalURL struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name        string `json:"name"`
		AlbumType   string `json:"album_type"`
		ReleaseDate string `json:"release_date"`
		Images      []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

func (p *SpotifyProvider) fetch(ctx context.Context, query string) ([]candidate, error) {
	token, err := p.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(constants.SpotifyPageSize))

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	var resp struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
			Total int            `json:"total"`
		} `json:"tracks"`
	}
	if err := getJSON(ctx, p.Client, p.Name(), p.BaseURL+"/search?"+q.Encode(), header, &resp); err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			p.tokens.Invalidate()
		}
		return nil, err
	}

	cands := make([]candidate, 0, len(resp.Tracks.Items))
	for _, item := range resp.Tracks.Items {
		if item.ID == "" || (item.IsPlayable != nil && !*item.IsPlayable) {
			continue
		}
		cands = append(cands, toSpotifyCandidate(item))
	}
	return cands, nil
}

func toSpotifyCandidate(item spotifyTrack) candidate {
	names := make([]string, 0, len(item.Artists))
	for _, a := range item.Artists {
		names = append(names, a.Name)
	}

	thumb := ""
	if len(item.Album.Images) > 0 {
		thumb = item.Album.Images[0].URL
	}

	return candidate{
		track: domain.Track{
			ID:          item.ID,
			Title:       item.Name,
			Artist:      strings.Join(names, ", "),
			Duration:    item.DurationMs / 1000,
			Thumbnail:   thumb,
			PublishedAt: normalizeTimestamp(item.Album.ReleaseDate),
			Popularity:  float64(item.Popularity),
			Provider:    domain.ProviderSpotify,
			StreamURL:   item.PreviewURL,
			Permalink:   item.ExternalURL.Spotify,
		},
		description: item.Album.Name,
		source:      strings.Join(names, " "),
	}
}

var _ Provider = (*SpotifyProvider)(nil)

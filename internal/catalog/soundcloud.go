package catalog

import (
	"context"
	"encoding/json"
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

var soundcloudWeights = Weights{
	TrustedSource:      2,
	BlacklistedSource:  -8,
	KeywordHit:         1.5,
	KeywordCap:         4.5,
	AestheticHit:       1,
	AestheticCap:       3,
	CompilationPenalty: -1.5,
	DurationIdeal:      2.5,
	DurationNear:       1,
	DurationTooLong:    -1,
	IdealMin:           150,
	IdealMax:           270,
	RecencyBonus:       1.5,
	PopularityCap:      3,
	PopularityCeiling:  5_000_000,
}

var soundcloudTrusted = []string{"records", "recordings", "official", "label", "music group", "chillhop", "lofi girl", "monstercat", "ncs"}

var soundcloudBlacklistedSources = []string{"reaction", "cover", "karaoke", "nightcore", "bootleg", "podcast", "radio show"}

var soundcloudRules = FilterRules{
	MinDuration:   30,
	MaxDuration:   15 * 60,
	MinPopularity: 100,
	Blacklist:     append([]string{"snippet", "preview", "episode"}, defaultBlacklist...),
}

var soundcloudStyle = QueryStyle{
	Exclusions:     []string{"-podcast", "-interview", "-tutorial"},
	AnimeSuffix:    "anime lofi",
	PlaylistSuffix: "mix",
}

// SoundCloudProvider searches the audio-sharing platform's public API.
type SoundCloudProvider struct {
	BaseURL  string
	ClientID string
	Client   *httpclient.Client

	pipeline pipeline
}

func NewSoundCloudProvider(baseURL, clientID string, client *httpclient.Client, log *logger.Logger) *SoundCloudProvider {
	if baseURL == "" {
		baseURL = constants.SoundCloudAPIURL
	}
	if client == nil {
		client = httpclient.NewClient(nil, 0)
	}
	if log == nil {
		log = logger.Default()
	}
	return &SoundCloudProvider{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		ClientID: clientID,
		Client:   client,
		pipeline: pipeline{
			parser: intent.NewParser(intent.SoundCloudTables()),
			style:  soundcloudStyle,
			rules:  soundcloudRules,
			score:  scoreSoundCloud,
			now:    time.Now,
			logger: log.WithProvider(string(domain.ProviderSoundCloud)),
		},
	}
}

func (p *SoundCloudProvider) Name() domain.ProviderName {
	return domain.ProviderSoundCloud
}

func (p *SoundCloudProvider) IsConfigured() bool {
	return p.ClientID != ""
}

func (p *SoundCloudProvider) Search(ctx context.Context, input string) (*domain.SearchResult, error) {
	if !p.IsConfigured() {
		return nil, notConfigured(p.Name())
	}
	return p.pipeline.run(ctx, input, p.fetch)
}

type soundcloudTrack struct {
	ID            json.Number `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Duration      int         `json:"duration"`
	ArtworkURL    string      `json:"artwork_url"`
	CreatedAt     string      `json:"created_at"`
	ReleaseDate   string      `json:"release_date"`
	PlaybackCount float64     `json:"playback_count"`
	LikesCount    float64     `json:"likes_count"`
	Genre         string      `json:"genre"`
	TagList       string      `json:"tag_list"`
	StreamURL     string      `json:"stream_url"`
	PermalinkURL  string      `json:"permalink_url"`
	WaveformURL   string      `json:"waveform_url"`
	Streamable    *bool       `json:"streamable"`
	User          struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
		Verified  bool   `json:"verified"`
	} `json:"user"`
	PublisherMetadata *struct {
		Artist string `json:"artist"`
	} `json:"publisher_metadata"`
}

func (p *SoundCloudProvider) fetch(ctx context.Context, query string) ([]candidate, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("client_id", p.ClientID)
	q.Set("limit", strconv.Itoa(constants.SoundCloudPageSize))
	q.Set("linked_partitioning", "1")

	var resp struct {
		Collection   []soundcloudTrack `json:"collection"`
		TotalResults int               `json:"total_results"`
	}
	if err := getJSON(ctx, p.Client, p.Name(), p.BaseURL+"/search/tracks?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	cands := make([]candidate, 0, len(resp.Collection))
	for _, item := range resp.Collection {
		if item.Streamable != nil && !*item.Streamable {
			continue
		}
		cands = append(cands, p.toCandidate(item))
	}
	return cands, nil
}

func (p *SoundCloudProvider) toCandidate(item soundcloudTrack) candidate {
	artist := item.User.Username
	if item.PublisherMetadata != nil && item.PublisherMetadata.Artist != "" {
		artist = item.PublisherMetadata.Artist
	}

	thumb := item.ArtworkURL
	if thumb == "" {
		thumb = item.User.AvatarURL
	}
	// -large is 100x100; request the 500x500 variant.
	thumb = strings.Replace(thumb, "-large.", "-t500x500.", 1)

	published := item.ReleaseDate
	if published == "" {
		published = item.CreatedAt
	}

	return candidate{
		track: domain.Track{
			ID:          item.ID.String(),
			Title:       strings.TrimSpace(item.Title),
			Artist:      artist,
			Duration:    item.Duration / 1000,
			Thumbnail:   thumb,
			PublishedAt: normalizeTimestamp(published),
			Popularity:  item.PlaybackCount,
			Provider:    domain.ProviderSoundCloud,
			StreamURL:   item.StreamURL,
			Genre:       strings.ToLower(item.Genre),
			Permalink:   item.PermalinkURL,
			WaveformURL: item.WaveformURL,
		},
		description: item.Description + " " + item.TagList,
		source:      item.User.Username,
		verified:    item.User.Verified,
	}
}

var soundcloudBaseScore = scoreWith(soundcloudWeights, soundcloudTrusted, soundcloudBlacklistedSources)

// scoreSoundCloud adds a genre-tag match on top of the standard terms.
func scoreSoundCloud(c candidate, in domain.Intent, now time.Time) float64 {
	score := soundcloudBaseScore(c, in, now)
	if in.Genre != "" && strings.Contains(c.track.Genre, in.Genre) {
		score += 1.5
	}
	return score
}

var _ Provider = (*SoundCloudProvider)(nil)

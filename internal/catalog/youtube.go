package catalog

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/httpclient"
	"github.com/cesargomez89/vibefinder/internal/intent"
	"github.com/cesargomez89/vibefinder/internal/logger"
)

var youtubeWeights = Weights{
	TrustedSource:      3,
	BlacklistedSource:  -10,
	KeywordHit:         1.5,
	KeywordCap:         4.5,
	AestheticHit:       1,
	AestheticCap:       3,
	CompilationPenalty: -2,
	DurationIdeal:      3,
	DurationNear:       1.5,
	DurationTooLong:    -1,
	IdealMin:           180,
	IdealMax:           240,
	RecencyBonus:       1,
	PopularityCap:      3,
	PopularityCeiling:  10_000_000,
}

var youtubeTrusted = []string{"vevo", "official", "records", "- topic", "music", "lofi girl", "chillhop", "monstercat", "ncs", "majestic", "proximity", "trap nation", "mrsuicidesheep"}

var youtubeBlacklistedSources = []string{"reaction", "react", "cover", "karaoke", "nightcore", "8d audio", "tutorial", "lessons", "podcast", "news"}

var youtubeRules = FilterRules{
	MinDuration:   60,
	MaxDuration:   15 * 60,
	MinPopularity: 1000,
	Blacklist:     append([]string{"full episode", "gameplay", "vlog"}, defaultBlacklist...),
}

var youtubeStyle = QueryStyle{
	Suffix:         "music",
	Exclusions:     []string{"-tutorial", "-review", "-reaction", "-interview", "-podcast"},
	AnimeSuffix:    "opening ost",
	PlaylistSuffix: "playlist mix",
}

// YouTubeProvider searches the video platform's Data API.
type YouTubeProvider struct {
	BaseURL string
	APIKey  string
	Client  *httpclient.Client

	pipeline pipeline
}

func NewYouTubeProvider(baseURL, apiKey string, client *httpclient.Client, log *logger.Logger) *YouTubeProvider {
	if baseURL == "" {
		baseURL = constants.YouTubeAPIURL
	}
	if client == nil {
		client = httpclient.NewClient(nil, 0)
	}
	if log == nil {
		log = logger.Default()
	}
	return &YouTubeProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  client,
		pipeline: pipeline{
			parser: intent.NewParser(intent.YouTubeTables()),
			style:  youtubeStyle,
			rules:  youtubeRules,
			score:  scoreWith(youtubeWeights, youtubeTrusted, youtubeBlacklistedSources),
			now:    time.Now,
			logger: log.WithProvider(string(domain.ProviderYouTube)),
		},
	}
}

func (p *YouTubeProvider) Name() domain.ProviderName {
	return domain.ProviderYouTube
}

func (p *YouTubeProvider) IsConfigured() bool {
	return p.APIKey != ""
}

func (p *YouTubeProvider) Search(ctx context.Context, input string) (*domain.SearchResult, error) {
	if !p.IsConfigured() {
		return nil, notConfigured(p.Name())
	}
	return p.pipeline.run(ctx, input, p.fetch)
}

type youtubeThumb struct {
	URL string `json:"url"`
}

func (p *YouTubeProvider) fetch(ctx context.Context, query string) ([]candidate, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("videoCategoryId", constants.YouTubeMusicTopic)
	q.Set("maxResults", strconv.Itoa(constants.YouTubePageSize))
	q.Set("q", query)
	q.Set("key", p.APIKey)

	var resp struct {
		PageInfo struct {
			TotalResults int `json:"totalResults"`
		} `json:"pageInfo"`
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				Description  string `json:"description"`
				ChannelTitle string `json:"channelTitle"`
				PublishedAt  string `json:"publishedAt"`
				Thumbnails   struct {
					High    youtubeThumb `json:"high"`
					Medium  youtubeThumb `json:"medium"`
					Default youtubeThumb `json:"default"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := getJSON(ctx, p.Client, p.Name(), p.BaseURL+"/search?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	cands := make([]candidate, 0, len(resp.Items))
	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		sn := item.Snippet
		title, artist := splitYouTubeTitle(sn.Title, sn.ChannelTitle)
		thumb := sn.Thumbnails.High.URL
		if thumb == "" {
			thumb = sn.Thumbnails.Medium.URL
		}
		if thumb == "" {
			thumb = sn.Thumbnails.Default.URL
		}
		cands = append(cands, candidate{
			track: domain.Track{
				ID:          item.ID.VideoID,
				Title:       title,
				Artist:      artist,
				Thumbnail:   thumb,
				PublishedAt: normalizeTimestamp(sn.PublishedAt),
				Provider:    domain.ProviderYouTube,
				Permalink:   "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			},
			description: html.UnescapeString(sn.Description),
			source:      sn.ChannelTitle,
		})
		ids = append(ids, item.ID.VideoID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	details, err := p.videoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range cands {
		d, ok := details[cands[i].track.ID]
		if !ok {
			continue
		}
		cands[i].track.Duration = d.duration
		cands[i].track.Popularity = d.views
	}
	return cands, nil
}

type videoDetail struct {
	duration int
	views    float64
}

// videoDetails batch-loads durations and view counts for search hits.
func (p *YouTubeProvider) videoDetails(ctx context.Context, ids []string) (map[string]videoDetail, error) {
	q := url.Values{}
	q.Set("part", "contentDetails,statistics")
	q.Set("id", strings.Join(ids, ","))
	q.Set("key", p.APIKey)

	var resp struct {
		Items []struct {
			ID             string `json:"id"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := getJSON(ctx, p.Client, p.Name(), p.BaseURL+"/videos?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]videoDetail, len(resp.Items))
	for _, item := range resp.Items {
		views, _ := strconv.ParseFloat(item.Statistics.ViewCount, 64)
		out[item.ID] = videoDetail{
			duration: parseISODuration(item.ContentDetails.Duration),
			views:    views,
		}
	}
	return out, nil
}

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration converts an ISO-8601 duration such as PT3M45S to seconds.
func parseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	parts := []int{86400, 3600, 60, 1}
	total := 0
	for i, mult := range parts {
		if m[i+1] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+1])
		total += n * mult
	}
	return total
}

var youtubeTitleNoise = regexp.MustCompile(`(?i)\s*[\(\[](official\s*(music\s*)?(video|audio|lyric video|visualizer)|lyrics?|audio|hd|4k|mv)[\)\]]`)

// splitYouTubeTitle derives title and artist from an "Artist - Title" video
// name, falling back to the cleaned channel name.
func splitYouTubeTitle(raw, channel string) (string, string) {
	title := strings.TrimSpace(youtubeTitleNoise.ReplaceAllString(html.UnescapeString(raw), ""))
	if idx := strings.Index(title, " - "); idx > 0 {
		artist := strings.TrimSpace(title[:idx])
		rest := strings.TrimSpace(title[idx+3:])
		if artist != "" && rest != "" {
			return rest, artist
		}
	}
	artist := strings.TrimSuffix(channel, " - Topic")
	artist = strings.TrimSuffix(artist, "VEVO")
	return title, strings.TrimSpace(artist)
}

var _ Provider = (*YouTubeProvider)(nil)

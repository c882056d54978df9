package search

import (
	"sort"
	"strings"
	"time"

	"github.com/cesargomez89/vibefinder/internal/catalog"
	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/intent"
)

// Cross-provider weights. Adapter scores are not comparable across
// providers, so merged tracks are re-scored from scratch.
const (
	popularityCap    = 3.0
	keywordHit       = 1.0
	keywordCap       = 3.0
	durationBand     = 1.0
	durationTooShort = -1.0
	durationTooLong  = -0.5
	genreMatch       = 1.0
	recencyBonus     = 0.5
)

// providerBonus prefers catalogs with cleaner metadata.
var providerBonus = map[domain.ProviderName]float64{
	domain.ProviderSpotify:    1.5,
	domain.ProviderSoundCloud: 1.0,
	domain.ProviderYouTube:    0.5,
}

// popularityCeiling is the raw popularity that earns the full popularity
// term. Spotify reports a 0-100 index and is scaled linearly instead.
var popularityCeiling = map[domain.ProviderName]float64{
	domain.ProviderYouTube:    100_000_000,
	domain.ProviderSoundCloud: 10_000_000,
}

// dedupe drops tracks whose (title, artist) key was already seen. The first
// occurrence wins even when a later duplicate has richer metadata.
func dedupe(tracks []domain.Track) []domain.Track {
	seen := make(map[string]bool, len(tracks))
	out := make([]domain.Track, 0, len(tracks))
	for _, t := range tracks {
		key := t.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func normalizedPopularity(t domain.Track) float64 {
	if t.Provider == domain.ProviderSpotify {
		p := t.Popularity / 100
		if p > 1 {
			p = 1
		}
		if p < 0 {
			p = 0
		}
		return p * popularityCap
	}
	ceiling, ok := popularityCeiling[t.Provider]
	if !ok {
		return 0
	}
	return catalog.LogScale(t.Popularity, ceiling, popularityCap)
}

// inputTerms returns the distinct words of the raw input worth matching
// against titles.
func inputTerms(raw string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range strings.Fields(strings.ToLower(raw)) {
		if len(f) < 3 || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func crossScore(t domain.Track, terms []string, in domain.Intent, now time.Time) float64 {
	score := normalizedPopularity(t) + providerBonus[t.Provider]

	text := strings.ToLower(t.Title + " " + t.Artist)
	kw := 0.0
	for _, term := range terms {
		if strings.Contains(text, term) {
			kw += keywordHit
		}
	}
	if kw > keywordCap {
		kw = keywordCap
	}
	score += kw

	switch {
	case t.Duration <= 0:
	case t.Duration < 60:
		score += durationTooShort
	case t.Duration >= 120 && t.Duration <= 360:
		score += durationBand
	case t.Duration > 600:
		score += durationTooLong
	}

	if t.Genre != "" && in.Genre != "" && strings.Contains(strings.ToLower(t.Genre), in.Genre) {
		score += genreMatch
	}

	if ts, err := time.Parse(time.RFC3339, t.PublishedAt); err == nil && now.Sub(ts) <= constants.RecencyWindow {
		score += recencyBonus
	}
	return score
}

// rankMerged dedupes, re-scores against the raw input and keeps the best
// limit tracks. Ties keep merge order.
func rankMerged(tracks []domain.Track, raw string, parser *intent.Parser, now time.Time, limit int) []domain.Track {
	unique := dedupe(tracks)
	terms := inputTerms(raw)
	in := parser.Parse(raw)

	scored := make([]domain.ScoredTrack, len(unique))
	for i, t := range unique {
		scored[i] = domain.ScoredTrack{Track: t, Score: crossScore(t, terms, in, now)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return domain.StripScores(scored)
}

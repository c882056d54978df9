package catalog

import (
	"math"
	"strings"
	"time"

	"github.com/cesargomez89/vibefinder/internal/constants"
)

// Weights are the bounded additive terms of a per-provider score. Each
// adapter tunes its own set.
type Weights struct {
	TrustedSource      float64
	BlacklistedSource  float64
	KeywordHit         float64
	KeywordCap         float64
	AestheticHit       float64
	AestheticCap       float64
	CompilationPenalty float64
	DurationIdeal      float64
	DurationNear       float64
	DurationTooLong    float64
	IdealMin           int
	IdealMax           int
	RecencyBonus       float64
	PopularityCap      float64
	// PopularityCeiling is the raw popularity that earns the full cap.
	PopularityCeiling float64
}

// aestheticSynonyms rewards titles that carry the mood of a vibe without
// spelling it out.
var aestheticSynonyms = map[string][]string{
	"night":      {"midnight", "moonlight", "3am", "late night", "nocturnal", "neon", "after hours", "city lights"},
	"chill":      {"lofi", "lo-fi", "relax", "calm", "mellow", "cozy", "chillhop", "smooth"},
	"sad":        {"heartbreak", "tears", "alone", "rain", "lonely", "broken", "goodbye"},
	"happy":      {"sunshine", "summer", "good vibes", "smile", "feel good", "sunny"},
	"energetic":  {"hype", "power", "pump", "workout", "beast", "adrenaline", "bass boosted"},
	"dark":       {"shadow", "phonk", "noir", "darkness", "haunted", "void"},
	"romantic":   {"love", "heart", "kiss", "forever", "darling"},
	"dreamy":     {"ethereal", "clouds", "shoegaze", "dream", "float", "haze"},
	"nostalgic":  {"retro", "80s", "90s", "vintage", "throwback", "cassette"},
	"aggressive": {"rage", "hard", "brutal", "drill"},
	"aesthetic":  {"aesthetic", "vaporwave", "vibes", "slowed", "reverb"},
}

var compilationTerms = []string{"compilation", "best of", "greatest hits", "top 100", "top 50", "hour", "hours", "full album", "nonstop", "megamix"}

var mixTerms = []string{"mix", "playlist", "compilation", "hour", "hours", "full album", "nonstop", "megamix", "live set", "dj set"}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func countHits(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if t != "" && strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// looksLikeMix reports whether a title frames long content as a mix or
// playlist, which exempts it from the maximum duration.
func looksLikeMix(title string) bool {
	return containsAny(strings.ToLower(title), mixTerms)
}

// sourceScore rewards curated publishers and punishes blacklisted ones.
func sourceScore(source string, verified bool, trusted, blacklisted []string, w Weights) float64 {
	s := strings.ToLower(source)
	if containsAny(s, blacklisted) {
		return w.BlacklistedSource
	}
	if verified || containsAny(s, trusted) {
		return w.TrustedSource
	}
	return 0
}

// relevanceScore counts intent terms and aesthetic synonyms in the title.
func relevanceScore(title string, terms []string, vibe string, w Weights) float64 {
	t := strings.ToLower(title)

	keyword := float64(countHits(t, terms)) * w.KeywordHit
	if keyword > w.KeywordCap {
		keyword = w.KeywordCap
	}

	aesthetic := float64(countHits(t, aestheticSynonyms[vibe])) * w.AestheticHit
	if aesthetic > w.AestheticCap {
		aesthetic = w.AestheticCap
	}

	score := keyword + aesthetic
	if containsAny(t, compilationTerms) {
		score += w.CompilationPenalty
	}
	return score
}

// durationScore peaks inside the ideal band and falls off outside it.
func durationScore(seconds int, w Weights) float64 {
	switch {
	case seconds <= 0:
		return 0
	case seconds >= w.IdealMin && seconds <= w.IdealMax:
		return w.DurationIdeal
	case seconds >= w.IdealMin-60 && seconds <= w.IdealMax+120:
		return w.DurationNear
	case seconds > 10*60:
		return w.DurationTooLong
	default:
		return 0
	}
}

// recencyScore rewards content published within the last year.
func recencyScore(publishedAt string, now time.Time, w Weights) float64 {
	ts, ok := parseTimestamp(publishedAt)
	if !ok {
		return 0
	}
	if now.Sub(ts) <= constants.RecencyWindow && !ts.After(now.Add(24*time.Hour)) {
		return w.RecencyBonus
	}
	return 0
}

// popularityScore log-scales raw popularity so a single viral outlier cannot
// dominate, capped at w.PopularityCap.
func popularityScore(popularity float64, w Weights) float64 {
	return LogScale(popularity, w.PopularityCeiling, w.PopularityCap)
}

// LogScale maps value onto [0, limit] with log10, reaching limit at ceiling.
func LogScale(value, ceiling, limit float64) float64 {
	if value <= 0 || ceiling <= 1 {
		return 0
	}
	v := math.Log10(value+1) / math.Log10(ceiling+1) * limit
	if v > limit {
		return limit
	}
	return v
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006/01/02 15:04:05 -0700",
	"2006-01-02",
	"2006-01",
	"2006",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// normalizeTimestamp renders provider dates as ISO-8601.
func normalizeTimestamp(s string) string {
	ts, ok := parseTimestamp(s)
	if !ok {
		return s
	}
	return ts.UTC().Format(time.RFC3339)
}

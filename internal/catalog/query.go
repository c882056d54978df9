package catalog

import (
	"strings"

	"github.com/cesargomez89/vibefinder/internal/domain"
)

// QueryStyle decorates the shared query template for one provider.
type QueryStyle struct {
	Suffix         string
	Exclusions     []string
	AnimeSuffix    string
	PlaylistSuffix string
}

var animeKeywords = []string{"anime", "opening", "ending", "ost", "japanese", "jpop", "j-pop", "ghibli"}

func isAnime(raw string) bool {
	text := strings.ToLower(raw)
	for _, field := range strings.Fields(text) {
		for _, kw := range animeKeywords {
			if field == kw {
				return true
			}
		}
	}
	return strings.Contains(text, "j-pop") || strings.Contains(text, "studio ghibli")
}

// Build returns the query strategies in order: strict, broad, playlist.
func (s QueryStyle) Build(in domain.Intent, raw string) []string {
	var base string
	if isAnime(raw) && s.AnimeSuffix != "" {
		base = joinWords("anime", in.Vibe, string(in.Speed), s.AnimeSuffix)
	} else {
		base = joinWords(in.Vibe, in.Environment, string(in.Speed), in.Genre, s.Suffix)
	}

	strict := base
	if len(s.Exclusions) > 0 {
		strict = base + " " + strings.Join(s.Exclusions, " ")
	}

	playlist := base
	if s.PlaylistSuffix != "" {
		playlist = joinWords(base, s.PlaylistSuffix)
	}

	return []string{strict, base, playlist}
}

// joinWords joins non-empty words, dropping repeats.
func joinWords(words ...string) string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(words))
	for _, w := range words {
		for _, f := range strings.Fields(w) {
			if seen[f] {
				continue
			}
			seen[f] = true
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

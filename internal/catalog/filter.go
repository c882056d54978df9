package catalog

import "strings"

// FilterRules are the hard constraints a candidate must pass before it is
// scored.
type FilterRules struct {
	MinDuration   int
	MaxDuration   int
	MinPopularity float64
	Blacklist     []string
}

// defaultBlacklist rejects spoken and promotional content.
var defaultBlacklist = []string{
	"tutorial", "review", "reaction", "interview", "podcast", "lecture",
	"advertisement", "unboxing", "how to", "lesson", "trailer", "explained",
}

// Valid is a pure predicate over a candidate.
func (r FilterRules) Valid(c candidate) bool {
	d := c.track.Duration
	if d < r.MinDuration {
		return false
	}
	if r.MaxDuration > 0 && d > r.MaxDuration && !looksLikeMix(c.track.Title) {
		return false
	}
	if c.track.Popularity < r.MinPopularity {
		return false
	}
	text := strings.ToLower(c.track.Title + " " + c.description)
	return !containsAny(text, r.Blacklist)
}

func (r FilterRules) apply(cands []candidate) []candidate {
	out := make([]candidate, 0, len(cands))
	for _, c := range cands {
		if r.Valid(c) {
			out = append(out, c)
		}
	}
	return out
}

package catalog

import (
	"context"
	"sort"
	"time"

	"github.com/cesargomez89/vibefinder/internal/constants"
	"github.com/cesargomez89/vibefinder/internal/domain"
	"github.com/cesargomez89/vibefinder/internal/intent"
	"github.com/cesargomez89/vibefinder/internal/logger"
)

// candidate is a normalized track plus the raw fields only scoring needs.
type candidate struct {
	track       domain.Track
	description string
	source      string
	verified    bool
}

// fetchFunc runs one query against a provider and returns unfiltered
// candidates.
type fetchFunc func(ctx context.Context, query string) ([]candidate, error)

// scoreFunc scores a candidate that already passed the filter.
type scoreFunc func(c candidate, in domain.Intent, now time.Time) float64

// pipeline is the shared adapter skeleton: query strategies, validity
// filter, scoring and top-K ranking.
type pipeline struct {
	parser *intent.Parser
	style  QueryStyle
	rules  FilterRules
	score  scoreFunc
	now    func() time.Time
	logger *logger.Logger
}

func (p *pipeline) run(ctx context.Context, input string, fetch fetchFunc) (*domain.SearchResult, error) {
	in := p.parser.Parse(input)
	queries := p.style.Build(in, input)

	valid, err := p.collect(ctx, queries, fetch)
	if err != nil {
		return nil, err
	}

	now := p.now()
	scored := make([]domain.ScoredTrack, len(valid))
	for i, c := range valid {
		scored[i] = domain.ScoredTrack{Track: c.track, Score: p.score(c, in, now)}
	}

	ranked := rank(scored, constants.ProviderTopK)
	return &domain.SearchResult{
		Tracks:       domain.StripScores(ranked),
		TotalResults: len(valid),
	}, nil
}

// collect runs the strict query and, while fewer than MinResultsBeforeRetry
// valid candidates exist, the broader variants. Results are unioned by native
// ID in the order they were found. Only a failure of the first query is
// returned; later failures keep what was already found.
func (p *pipeline) collect(ctx context.Context, queries []string, fetch fetchFunc) ([]candidate, error) {
	seen := make(map[string]bool)
	var valid []candidate

	for i, q := range queries {
		if i > 0 && len(valid) >= constants.MinResultsBeforeRetry {
			break
		}
		if i > 0 && q == queries[i-1] {
			continue
		}

		cands, err := fetch(ctx, q)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			p.logger.Warn("Retry query failed", "query", q, "error", err)
			break
		}

		before := len(valid)
		for _, c := range p.rules.apply(cands) {
			if seen[c.track.ID] {
				continue
			}
			seen[c.track.ID] = true
			valid = append(valid, c)
		}
		p.logger.Debug("Query strategy finished", "strategy", i, "query", q, "candidates", len(cands), "added", len(valid)-before)
	}

	return valid, nil
}

// rank sorts by score descending, keeping input order on ties, and keeps at
// most limit entries.
func rank(scored []domain.ScoredTrack, limit int) []domain.ScoredTrack {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// scoreWith builds the standard five-term scorer from a provider's weights
// and source lists.
func scoreWith(w Weights, trusted, blacklisted []string) scoreFunc {
	return func(c candidate, in domain.Intent, now time.Time) float64 {
		return sourceScore(c.source, c.verified, trusted, blacklisted, w) +
			relevanceScore(c.track.Title, intent.Terms(in), in.Vibe, w) +
			durationScore(c.track.Duration, w) +
			recencyScore(c.track.PublishedAt, now, w) +
			popularityScore(c.track.Popularity, w)
	}
}

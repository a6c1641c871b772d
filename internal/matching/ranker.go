package matching

import (
	"sort"

	"github.com/jonathan/job-matcher/internal/types"
)

// Rank orders a run's results by score, highest first. Without minScore only
// the newly created matches are returned. With minScore, new and existing
// matches are combined and those scoring below it are dropped.
func Rank(created, existing []types.JobMatch, minScore *float64) []types.JobMatch {
	var ranked []types.JobMatch
	if minScore == nil {
		ranked = append([]types.JobMatch{}, created...)
	} else {
		ranked = make([]types.JobMatch, 0, len(created)+len(existing))
		for _, m := range append(append([]types.JobMatch{}, created...), existing...) {
			if m.MatchScore >= *minScore {
				ranked = append(ranked, m)
			}
		}
	}
	SortByScore(ranked)
	return ranked
}

// SortByScore sorts matches by score descending, newest first on ties.
func SortByScore(matches []types.JobMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		return matches[i].MatchedAt.After(matches[j].MatchedAt)
	})
}

package service

import (
	"sort"

	"github.com/lshigami/examapp/internal/model"
)

type RankedAttempt struct {
	Rank    int
	Attempt model.AttemptResult
}

// RankAttempts orders attempts by score descending then time taken ascending.
// Ranks are consecutive 1-based positions, so tied attempts still get distinct
// ranks and keep their input order. The input slice is not modified.
func RankAttempts(attempts []model.AttemptResult) []RankedAttempt {
	sorted := make([]model.AttemptResult, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].TimeTakenMinutes < sorted[j].TimeTakenMinutes
	})

	ranked := make([]RankedAttempt, len(sorted))
	for i, a := range sorted {
		ranked[i] = RankedAttempt{Rank: i + 1, Attempt: a}
	}
	return ranked
}

// Package tally computes live vote counts for a group's candidates.
// Nothing here is stored; views are derived from voter sets on every read.
package tally

import (
	"math"

	"github.com/lunchpicker/lunchpicker/internal/models"
)

// CandidateView is one candidate with its computed tally.
type CandidateView struct {
	ID            string
	Name          string
	Address       string
	CreatedByName string
	CreatedAt     int64
	VoteCount     int
	Percent       int

	// HasMyVote is only meaningful when the viewer is known.
	HasMyVote bool
}

// Compute derives candidate views and the total vote count.
// viewerID may be empty, in which case HasMyVote is always false.
//
// percent = round(voteCount × 100 / totalVotes), or 0 when there are no votes.
// Percentages are rounded independently, so they may not sum to exactly 100.
func Compute(candidates []models.Candidate, viewerID string) ([]CandidateView, int) {
	total := 0
	for _, c := range candidates {
		total += len(c.Voters)
	}

	views := make([]CandidateView, len(candidates))
	for i, c := range candidates {
		count := len(c.Voters)
		views[i] = CandidateView{
			ID:            c.ID,
			Name:          c.Name,
			Address:       c.Address,
			CreatedByName: c.CreatedByName,
			CreatedAt:     c.CreatedAt,
			VoteCount:     count,
			Percent:       Percent(count, total),
			HasMyVote:     viewerID != "" && c.HasVoter(viewerID),
		}
	}
	return views, total
}

// Percent returns count as a rounded percentage of total (half away from zero).
func Percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(total)))
}

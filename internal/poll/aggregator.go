// Package poll implements the availability-poll engine: weighted
// attendance percentages, date ranking, document mutations, and the
// shareable plain-text summary.
package poll

import (
	"math"
	"sort"

	"github.com/werkgeheugen/backend/internal/models"
)

// Percentage computes the weighted attendance score for one candidate
// date. Each "ja" contributes 100/participants, each "misschien"
// 50/participants, anything else 0. The sum is rounded to one decimal
// place. With zero participants the percentage is 0.
//
// The value is recomputed fresh on every call; nothing is cached.
func Percentage(event *models.PollEvent, dateID string) float64 {
	total := len(event.Participants)
	if total == 0 {
		return 0
	}

	score := 0.0
	for _, p := range event.Participants {
		switch event.Responses[p.ID][dateID] {
		case models.VoteJa:
			score += 100.0 / float64(total)
		case models.VoteMisschien:
			score += 50.0 / float64(total)
		}
	}
	return math.Round(score*10) / 10
}

// DateScore is one ranked candidate date.
type DateScore struct {
	Date       models.PollDate `json:"date"`
	Percentage float64         `json:"percentage"`
	Best       bool            `json:"best"`
}

// RankDates returns all candidate dates sorted by descending
// percentage. Every date achieving the maximum is marked best, but
// only when that maximum is above zero.
func RankDates(event *models.PollEvent) []DateScore {
	scores := make([]DateScore, 0, len(event.Dates))
	maxPct := 0.0
	for _, d := range event.Dates {
		pct := Percentage(event, d.ID)
		if pct > maxPct {
			maxPct = pct
		}
		scores = append(scores, DateScore{Date: d, Percentage: pct})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Percentage > scores[j].Percentage
	})

	if maxPct > 0 {
		for i := range scores {
			if scores[i].Percentage == maxPct {
				scores[i].Best = true
			}
		}
	}
	return scores
}

// RespondedIDs returns the set of participant IDs that cast at least
// one vote on any date, regardless of the vote's value.
func RespondedIDs(event *models.PollEvent) map[string]struct{} {
	responded := make(map[string]struct{})
	for pid, votes := range event.Responses {
		if len(votes) > 0 {
			responded[pid] = struct{}{}
		}
	}
	return responded
}

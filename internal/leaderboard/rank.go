package leaderboard

import (
	"sort"
	"strings"

	"github.com/madara4356/zama-rank-checker/internal/models"
)

// Evaluate computes where targetLower stands within entries and how much
// mindshare separates it from the rank-100 reference. targetLower must
// already be trimmed, @-stripped and lowercased.
func Evaluate(entries []models.LeaderboardEntry, targetLower string) models.CheckResult {
	result := models.CheckResult{TotalFetched: len(entries)}

	var you *models.LeaderboardEntry
	for i := range entries {
		if strings.ToLower(entries[i].Username) == targetLower {
			you = &entries[i]
			break
		}
	}

	if rank100 := findRank100(entries); rank100 != nil && rank100.Mindshare != nil {
		ms := *rank100.Mindshare
		result.Rank100Mindshare = &ms
	}

	if you == nil {
		return result
	}

	result.Found = true
	rank := you.Rank
	result.Rank = &rank
	if you.Mindshare != nil {
		ms := *you.Mindshare
		result.Mindshare = &ms
	}
	if result.Rank100Mindshare != nil && you.Mindshare != nil {
		needed := *result.Rank100Mindshare - *you.Mindshare
		if needed < 0 {
			needed = 0
		}
		result.NeededMindshare = &needed
	}

	return result
}

// findRank100 picks the qualification-threshold entry. An explicit rank
// of 100 wins; otherwise fall back positionally, by mindshare when enough
// entries carry one, by rank order as a last resort.
func findRank100(entries []models.LeaderboardEntry) *models.LeaderboardEntry {
	for i := range entries {
		if entries[i].Rank == 100 {
			return &entries[i]
		}
	}

	var scored []models.LeaderboardEntry
	for _, e := range entries {
		if e.Mindshare != nil {
			scored = append(scored, e)
		}
	}
	if len(scored) >= 100 {
		sort.SliceStable(scored, func(i, j int) bool {
			return *scored[i].Mindshare > *scored[j].Mindshare
		})
		return &scored[99]
	}

	if len(entries) >= 100 {
		byRank := make([]models.LeaderboardEntry, len(entries))
		copy(byRank, entries)
		sort.SliceStable(byRank, func(i, j int) bool {
			return byRank[i].Rank < byRank[j].Rank
		})
		return &byRank[99]
	}

	return nil
}

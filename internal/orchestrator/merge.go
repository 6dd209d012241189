package orchestrator

import (
	"slices"

	"github.com/ergutierz/SaturnClient/internal/models"
)

// Merge orders stats by game date and drops repeats of the same
// (team name, team number, game date). The sort is stable, so among equal
// dates the input order wins, and the first copy of a duplicate is kept.
// The input slice is left untouched.
func Merge(stats []models.TeamStat) []models.TeamStat {
	sorted := slices.Clone(stats)
	slices.SortStableFunc(sorted, func(a, b models.TeamStat) int {
		return a.GameDate.Compare(b.GameDate.Time)
	})

	seen := make(map[models.StatKey]struct{}, len(sorted))
	merged := make([]models.TeamStat, 0, len(sorted))
	for _, s := range sorted {
		key := s.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, s)
	}
	return merged
}

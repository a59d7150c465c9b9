package planner

import "pawpal/internal/model"

// Overlaps reports whether two placements share any time. Back-to-back
// placements, where one ends exactly when the other starts, do not overlap.
func Overlaps(a, b *model.ScheduledTask) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// DetectConflicts scans all pairs of placements and reports every
// overlapping pair independently; three mutually overlapping placements
// yield three pairs.
func DetectConflicts(placed []*model.ScheduledTask) []model.ConflictPair {
	var conflicts []model.ConflictPair
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			if Overlaps(placed[i], placed[j]) {
				conflicts = append(conflicts, model.ConflictPair{
					First:  placed[i],
					Second: placed[j],
				})
			}
		}
	}
	return conflicts
}

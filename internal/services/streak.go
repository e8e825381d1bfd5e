package services

import (
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
)

// CalculateStreak computes the number of consecutive calendar days with an
// entry, walking backward from today.
//
// A missing entry for today itself does not break the streak (the user may
// simply not have checked in yet); any older gap terminates the walk.
// Duplicate keys are harmless since the walk tests set membership.
func CalculateStreak(dateKeys []string, today time.Time) int {
	if len(dateKeys) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(dateKeys))
	for _, key := range dateKeys {
		days[key] = struct{}{}
	}

	streak := 0
	day := today.UTC()
	for offset := 0; ; offset++ {
		key := models.DateKeyAt(day)
		if _, ok := days[key]; ok {
			streak++
		} else {
			if offset > 0 {
				break
			}
			// Today has no entry yet; keep the streak alive and look at
			// yesterday.
		}
		day = day.AddDate(0, 0, -1)
	}

	return streak
}

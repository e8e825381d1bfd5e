package services

import (
	"testing"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/stretchr/testify/assert"
)

func dateKeysEndingAt(end time.Time, days int) []string {
	keys := make([]string, 0, days)
	for i := 0; i < days; i++ {
		keys = append(keys, models.DateKeyAt(end.AddDate(0, 0, -i)))
	}
	return keys
}

func TestCalculateStreakConsecutiveDays(t *testing.T) {
	today := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	for _, n := range []int{1, 2, 7, 30} {
		keys := dateKeysEndingAt(today, n)
		assert.Equal(t, n, CalculateStreak(keys, today), "streak for %d consecutive days", n)
	}
}

func TestCalculateStreakToleratesMissingToday(t *testing.T) {
	today := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// Entries on the 5 days ending yesterday; user has not checked in today.
	keys := dateKeysEndingAt(today.AddDate(0, 0, -1), 5)
	assert.Equal(t, 5, CalculateStreak(keys, today))
}

func TestCalculateStreakGapResets(t *testing.T) {
	today := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// Entries on today-5, today-3 and today: the day before yesterday is a
	// gap, so only today counts.
	keys := []string{
		models.DateKeyAt(today.AddDate(0, 0, -5)),
		models.DateKeyAt(today.AddDate(0, 0, -3)),
		models.DateKeyAt(today),
	}
	assert.Equal(t, 1, CalculateStreak(keys, today))
}

func TestCalculateStreakMonFriScenario(t *testing.T) {
	// Mon, Tue, Wed entries, Thu skipped, check-in on Fri: streak is 1.
	fri := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	keys := []string{
		models.DateKeyAt(fri.AddDate(0, 0, -4)), // Mon
		models.DateKeyAt(fri.AddDate(0, 0, -3)), // Tue
		models.DateKeyAt(fri.AddDate(0, 0, -2)), // Wed
		models.DateKeyAt(fri),                   // Fri
	}
	assert.Equal(t, 1, CalculateStreak(keys, fri))
}

func TestCalculateStreakNoEntries(t *testing.T) {
	assert.Equal(t, 0, CalculateStreak(nil, time.Now()))
	assert.Equal(t, 0, CalculateStreak([]string{}, time.Now()))
}

func TestCalculateStreakStaleEntriesOnly(t *testing.T) {
	today := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	keys := dateKeysEndingAt(today.AddDate(0, 0, -10), 4)
	assert.Equal(t, 0, CalculateStreak(keys, today))
}

func TestCalculateStreakDuplicateKeysCountOnce(t *testing.T) {
	today := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	key := models.DateKeyAt(today)
	assert.Equal(t, 1, CalculateStreak([]string{key, key, key}, today))
}

func TestDateKeyAtUsesUTCDay(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 8, 28, 23, 30, 0, 0, loc)
	assert.Equal(t, "2026-08-29", models.DateKeyAt(local))
}

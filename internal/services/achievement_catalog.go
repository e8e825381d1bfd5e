package services

import "github.com/mindwell-app/mindwell/internal/models"

// DefaultCatalog returns the static achievement catalog. Rules are
// declarative predicates over the aggregate stats; the engine never mutates
// the catalog at runtime.
func DefaultCatalog() []models.AchievementDefinition {
	return []models.AchievementDefinition{
		{
			ID:          "first-checkin",
			Title:       "First Step",
			Description: "Complete your first daily check-in.",
			XP:          10,
			Predicate:   func(s models.AchievementStats) bool { return s.TotalCheckIns >= 1 },
		},
		{
			ID:          "streak-3",
			Title:       "Warming Up",
			Description: "Check in three days in a row.",
			XP:          25,
			Predicate:   func(s models.AchievementStats) bool { return s.CurrentStreak >= 3 },
		},
		{
			ID:          "streak-7",
			Title:       "One Week Strong",
			Description: "Check in seven days in a row.",
			XP:          75,
			Predicate:   func(s models.AchievementStats) bool { return s.CurrentStreak >= 7 },
		},
		{
			ID:          "streak-30",
			Title:       "Habit Formed",
			Description: "Check in thirty days in a row.",
			XP:          200,
			Predicate:   func(s models.AchievementStats) bool { return s.CurrentStreak >= 30 },
		},
		{
			ID:          "checkins-30",
			Title:       "Regular",
			Description: "Log thirty check-ins in total.",
			XP:          50,
			Predicate:   func(s models.AchievementStats) bool { return s.TotalCheckIns >= 30 },
		},
		{
			ID:          "checkins-100",
			Title:       "Centurion",
			Description: "Log one hundred check-ins in total.",
			XP:          150,
			Predicate:   func(s models.AchievementStats) bool { return s.TotalCheckIns >= 100 },
		},
		{
			ID:          "mood-helper-1",
			Title:       "Shoulder to Lean On",
			Description: "Be there when a friend's mood recovers.",
			XP:          20,
			Predicate:   func(s models.AchievementStats) bool { return s.MoodsHelped >= 1 },
		},
		{
			ID:          "mood-helper-5",
			Title:       "Mood Helper",
			Description: "Support five mood recoveries in your circle.",
			XP:          100,
			Predicate:   func(s models.AchievementStats) bool { return s.MoodsHelped >= 5 },
		},
		{
			ID:          "mood-helper-25",
			Title:       "Guardian Angel",
			Description: "Support twenty-five mood recoveries in your circle.",
			XP:          250,
			Predicate:   func(s models.AchievementStats) bool { return s.MoodsHelped >= 25 },
		},
		{
			ID:          "circle-5",
			Title:       "Support Circle",
			Description: "Build a circle of five accepted friends.",
			XP:          40,
			Predicate:   func(s models.AchievementStats) bool { return s.FriendCount >= 5 },
		},
		{
			ID:          "first-post",
			Title:       "Breaking the Silence",
			Description: "Share your first forum post.",
			XP:          15,
			Predicate:   func(s models.AchievementStats) bool { return s.PostCount >= 1 },
		},
		{
			ID:          "messages-50",
			Title:       "Conversationalist",
			Description: "Send fifty messages to your friends.",
			XP:          60,
			Predicate:   func(s models.AchievementStats) bool { return s.MessageCount >= 50 },
		},
	}
}

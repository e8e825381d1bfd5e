package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AchievementStats is the aggregate each unlock predicate is evaluated
// against.
type AchievementStats struct {
	CurrentStreak int
	TotalCheckIns int
	MoodsHelped   int
	PostCount     int
	FriendCount   int
	MessageCount  int
}

// AchievementDefinition is one entry of the static achievement catalog.
type AchievementDefinition struct {
	ID          string                      `json:"id"`
	Title       string                      `json:"title"`
	Description string                      `json:"description"`
	XP          int                         `json:"xp"`
	Predicate   func(AchievementStats) bool `json:"-"`
}

// Tier buckets an achievement's XP into a display tier. Purely
// presentational, never stored.
func (d AchievementDefinition) Tier() string {
	switch {
	case d.XP < 50:
		return "bronze"
	case d.XP < 150:
		return "silver"
	default:
		return "gold"
	}
}

// AchievementRecord marks an achievement as earned by a user. Unique per
// (user_id, achievement_id); earned at most once, never deleted.
type AchievementRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	AchievementID string             `bson:"achievement_id" json:"achievement_id"`
	EarnedAt      time.Time          `bson:"earned_at" json:"earned_at"`
}

// EarnedAchievement joins a record with its catalog definition for API
// responses.
type EarnedAchievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	XP          int       `json:"xp"`
	Tier        string    `json:"tier"`
	EarnedAt    time.Time `json:"earned_at"`
}

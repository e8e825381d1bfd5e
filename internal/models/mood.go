package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mood score bounds. 1 is the lowest mood a user can report, 5 the highest.
const (
	MinMoodScore = 1
	MaxMoodScore = 5

	// LowMoodThreshold and RecoveryThreshold bound the support-circle bands:
	// score <= LowMoodThreshold alerts friends, score >= RecoveryThreshold
	// resolves open alerts. Scores strictly between the two are neutral.
	LowMoodThreshold  = 2
	RecoveryThreshold = 4
)

// DateKeyLayout is the calendar-day key format used for duplicate detection
// and streak math.
const DateKeyLayout = "2006-01-02"

// MoodEntry is a single day's check-in. At most one entry exists per
// (user_id, date_key); a second submission the same day updates it.
type MoodEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	DateKey    string             `bson:"date_key" json:"date_key"` // YYYY-MM-DD, UTC
	Score      int                `bson:"score" json:"score"`
	Mood       string             `bson:"mood" json:"mood"` // e.g. "anxious", "calm", "great"
	Activities []string           `bson:"activities,omitempty" json:"activities,omitempty"`
	Tags       []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// DateKeyAt returns the calendar-day key for t.
//
// Day-boundary policy: days roll over at midnight UTC for every user. The
// same key is used for duplicate detection, streak computation and the
// reminder job, so streaks can never drift against the one-entry-per-day
// invariant across time zones.
func DateKeyAt(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

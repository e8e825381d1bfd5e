package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStats stores the per-user counters that cannot be derived cheaply from
// the entry log: the monotonic longest streak and the support-circle credits
// a user earned as a friend. One document per user.
type UserStats struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID   `bson:"user_id" json:"user_id"`
	LongestStreak int                  `bson:"longest_streak" json:"longest_streak"`
	MoodsHelped   int                  `bson:"moods_helped" json:"moods_helped"`
	HelpedUserIDs []primitive.ObjectID `bson:"helped_user_ids,omitempty" json:"-"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updated_at"`
}

// StatsSummary is the aggregate view returned to the client.
type StatsSummary struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	TotalCheckIns int `json:"total_check_ins"`
	MoodsHelped   int `json:"moods_helped"`
	FriendsHelped int `json:"friends_helped"`
}

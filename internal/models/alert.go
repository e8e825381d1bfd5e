package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LowMoodAlert records that a friend was alerted about a user's low-mood
// entry. One record per (entry_id, friend_id), enforced by a unique index.
//
// The record doubles as the episode state machine: while any alert for a
// user stays un-recovered the episode is open and repeat low entries stay
// silent; a later entry at or above the recovery threshold flips every open
// record to recovered and credits each alerted friend once.
type LowMoodAlert struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`     // the user whose mood was low
	FriendID    primitive.ObjectID `bson:"friend_id" json:"friend_id"` // the friend who was alerted
	EntryID     primitive.ObjectID `bson:"entry_id" json:"entry_id"`
	Recovered   bool               `bson:"recovered" json:"recovered"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	RecoveredAt time.Time          `bson:"recovered_at,omitempty" json:"recovered_at,omitempty"`
}

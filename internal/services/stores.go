package services

import (
	"context"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the engine services. The Mongo repositories
// in internal/repository satisfy them; tests substitute in-memory fakes.

// MoodEntryStore persists daily mood entries under the one-entry-per-day
// unique constraint.
type MoodEntryStore interface {
	InsertEntry(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error)
	UpdateEntryFields(ctx context.Context, userID primitive.ObjectID, dateKey string, entry *models.MoodEntry) (*models.MoodEntry, error)
	GetEntryByDateKey(ctx context.Context, userID primitive.ObjectID, dateKey string) (*models.MoodEntry, error)
	ListDateKeys(ctx context.Context, userID primitive.ObjectID) ([]string, error)
	CountEntries(ctx context.Context, userID primitive.ObjectID) (int64, error)
	ListEntriesRange(ctx context.Context, userID primitive.ObjectID, from, to string) ([]models.MoodEntry, error)
}

// StatsStore persists the monotonic longest streak and helper credits.
type StatsStore interface {
	GetStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error)
	RecordLongestStreak(ctx context.Context, userID primitive.ObjectID, streak int) error
	CreditHelp(ctx context.Context, helperID, helpedID primitive.ObjectID) error
}

// AchievementStore persists unlock-once achievement records.
type AchievementStore interface {
	InsertRecord(ctx context.Context, record *models.AchievementRecord) (*models.AchievementRecord, error)
	ListRecords(ctx context.Context, userID primitive.ObjectID) ([]models.AchievementRecord, error)
}

// AlertStore persists the low-mood episode state per (user, friend, entry).
type AlertStore interface {
	InsertAlert(ctx context.Context, alert *models.LowMoodAlert) (*models.LowMoodAlert, error)
	HasOpenAlert(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error)
	ListOpenAlerts(ctx context.Context, userID primitive.ObjectID) ([]models.LowMoodAlert, error)
	MarkRecovered(ctx context.Context, userID, friendID primitive.ObjectID) (int64, error)
}

// NotificationStore is the append-only notification ledger.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, error)
	GetNotificationsSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	GetLatestNotificationByType(ctx context.Context, userID primitive.ObjectID, notifType string) (*models.Notification, error)
	DeleteNotification(ctx context.Context, id primitive.ObjectID) error
	DeleteExpiredNotifications(ctx context.Context) error
}

// UserReader resolves user documents; the engine never writes users.
type UserReader interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// FriendReader reads the accepted friend graph. Implementations must not
// cache across calls.
type FriendReader interface {
	GetFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// ActivityLogger appends to the per-user activity feed.
type ActivityLogger interface {
	LogActivity(ctx context.Context, activity *models.Activity) error
}

// MessageCounter and PostCounter feed the social achievement stats.
type MessageCounter interface {
	CountMessagesBySender(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type PostCounter interface {
	CountPostsByAuthor(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

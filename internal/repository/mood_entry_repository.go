package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MoodEntryRepository struct handles database operations related to mood entries
type MoodEntryRepository struct {
	collection *mongo.Collection
}

// NewMoodEntryRepository creates a new instance of MoodEntryRepository
func NewMoodEntryRepository(db *mongo.Database) *MoodEntryRepository {
	return &MoodEntryRepository{
		collection: db.Collection("mood_entries"),
	}
}

// InsertEntry inserts a new mood entry. Returns ErrDuplicateKey when an entry
// already exists for (user_id, date_key); the caller falls back to an update.
func (r *MoodEntryRepository) InsertEntry(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		logger.Log.WithError(err).Error("Failed to insert mood entry")
		return nil, fmt.Errorf("failed to insert mood entry: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	entry.ID = insertedID

	logger.Log.WithField("entry_id", entry.ID.Hex()).Info("Mood entry created")
	return entry, nil
}

// UpdateEntryFields overwrites the mutable fields of the day's entry and
// returns the updated document.
func (r *MoodEntryRepository) UpdateEntryFields(ctx context.Context, userID primitive.ObjectID, dateKey string, entry *models.MoodEntry) (*models.MoodEntry, error) {
	filter := bson.M{"user_id": userID, "date_key": dateKey}
	update := bson.M{"$set": bson.M{
		"score":      entry.Score,
		"mood":       entry.Mood,
		"activities": entry.Activities,
		"tags":       entry.Tags,
		"notes":      entry.Notes,
		"updated_at": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.MoodEntry
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to update mood entry")
		return nil, fmt.Errorf("failed to update mood entry: %v", err)
	}

	logger.Log.WithField("entry_id", updated.ID.Hex()).Info("Mood entry updated")
	return &updated, nil
}

// GetEntryByDateKey fetches a user's entry for one calendar day.
func (r *MoodEntryRepository) GetEntryByDateKey(ctx context.Context, userID primitive.ObjectID, dateKey string) (*models.MoodEntry, error) {
	var entry models.MoodEntry
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "date_key": dateKey}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find mood entry: %v", err)
	}
	return &entry, nil
}

// ListDateKeys returns every distinct calendar day the user has an entry for.
func (r *MoodEntryRepository) ListDateKeys(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "date_key", bson.M{"user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to list date keys")
		return nil, fmt.Errorf("failed to list date keys: %v", err)
	}

	keys := make([]string, 0, len(values))
	for _, v := range values {
		if key, ok := v.(string); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// CountEntries returns the user's total number of check-ins.
func (r *MoodEntryRepository) CountEntries(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count mood entries: %v", err)
	}
	return count, nil
}

// ListEntriesRange fetches a user's entries between two date keys inclusive,
// newest first.
func (r *MoodEntryRepository) ListEntriesRange(ctx context.Context, userID primitive.ObjectID, from, to string) ([]models.MoodEntry, error) {
	filter := bson.M{"user_id": userID}
	if from != "" || to != "" {
		rangeFilter := bson.M{}
		if from != "" {
			rangeFilter["$gte"] = from
		}
		if to != "" {
			rangeFilter["$lte"] = to
		}
		filter["date_key"] = rangeFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "date_key", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mood entries: %v", err)
	}
	defer cursor.Close(ctx)

	var entries []models.MoodEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode mood entries: %v", err)
	}
	return entries, nil
}

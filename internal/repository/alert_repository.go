package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AlertRepository handles low-mood alert records, the persisted episode
// state of the support circle.
type AlertRepository struct {
	collection *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{
		collection: db.Collection("low_mood_alerts"),
	}
}

// InsertAlert records that a friend was alerted for an entry. Returns
// ErrDuplicateKey when the (entry_id, friend_id) pair already exists.
func (r *AlertRepository) InsertAlert(ctx context.Context, alert *models.LowMoodAlert) (*models.LowMoodAlert, error) {
	alert.CreatedAt = time.Now()
	alert.Recovered = false

	result, err := r.collection.InsertOne(ctx, alert)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		logrus.WithError(err).Error("Failed to insert low-mood alert")
		return nil, fmt.Errorf("failed to insert low-mood alert: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	alert.ID = insertedID

	return alert, nil
}

// HasOpenAlert reports whether the friend already holds an un-recovered
// alert for the user (the current episode).
func (r *AlertRepository) HasOpenAlert(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error) {
	filter := bson.M{"user_id": userID, "friend_id": friendID, "recovered": false}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check open alerts: %v", err)
	}
	return count > 0, nil
}

// ListOpenAlerts returns every un-recovered alert for the user, across all
// friends and entries.
func (r *AlertRepository) ListOpenAlerts(ctx context.Context, userID primitive.ObjectID) ([]models.LowMoodAlert, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID, "recovered": false})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open alerts: %v", err)
	}
	defer cursor.Close(ctx)

	var alerts []models.LowMoodAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode open alerts: %v", err)
	}
	return alerts, nil
}

// MarkRecovered closes every open alert the friend holds for the user and
// returns how many records were flipped. A zero count means another
// recovery already claimed the episode, so the caller must not credit again.
func (r *AlertRepository) MarkRecovered(ctx context.Context, userID, friendID primitive.ObjectID) (int64, error) {
	filter := bson.M{"user_id": userID, "friend_id": friendID, "recovered": false}
	update := bson.M{"$set": bson.M{"recovered": true, "recovered_at": time.Now()}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":   userID.Hex(),
			"friend_id": friendID.Hex(),
		}).Error("Failed to mark alerts recovered")
		return 0, fmt.Errorf("failed to mark alerts recovered: %v", err)
	}
	return result.ModifiedCount, nil
}

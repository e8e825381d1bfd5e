package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{collection: db.Collection("activities")}
}

// LogActivity appends one event to the user's activity feed.
func (r *ActivityRepository) LogActivity(ctx context.Context, activity *models.Activity) error {
	activity.Timestamp = time.Now()
	if _, err := r.collection.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("failed to log activity: %v", err)
	}
	return nil
}

// GetUserActivities returns the most recent events for a user.
func (r *ActivityRepository) GetUserActivities(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %v", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %v", err)
	}
	return activities, nil
}

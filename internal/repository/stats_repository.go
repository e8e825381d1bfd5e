package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsRepository handles the per-user stats document.
type StatsRepository struct {
	collection *mongo.Collection
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{
		collection: db.Collection("user_stats"),
	}
}

// GetStats fetches a user's stats document. A user with no document yet gets
// a zero-value stats struct, not an error.
func (r *StatsRepository) GetStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&stats)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.UserStats{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to fetch user stats: %v", err)
	}
	return &stats, nil
}

// RecordLongestStreak raises the stored longest streak to streak if it is
// higher. $max keeps the value monotonic under concurrent recomputations.
func (r *StatsRepository) RecordLongestStreak(ctx context.Context, userID primitive.ObjectID, streak int) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$max": bson.M{"longest_streak": streak},
		"$set": bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to record longest streak")
		return fmt.Errorf("failed to record longest streak: %v", err)
	}
	return nil
}

// CreditHelp increments helperID's moods-helped counter by one and remembers
// the helped user for the distinct friends-helped count.
func (r *StatsRepository) CreditHelp(ctx context.Context, helperID, helpedID primitive.ObjectID) error {
	filter := bson.M{"user_id": helperID}
	update := bson.M{
		"$inc":      bson.M{"moods_helped": 1},
		"$addToSet": bson.M{"helped_user_ids": helpedID},
		"$set":      bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"helper_id": helperID.Hex(),
			"helped_id": helpedID.Hex(),
		}).Error("Failed to credit mood help")
		return fmt.Errorf("failed to credit mood help: %v", err)
	}
	return nil
}

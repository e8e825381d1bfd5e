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

// AchievementRepository handles earned-achievement records.
type AchievementRepository struct {
	collection *mongo.Collection
}

func NewAchievementRepository(db *mongo.Database) *AchievementRepository {
	return &AchievementRepository{
		collection: db.Collection("achievement_records"),
	}
}

// InsertRecord creates an earned-achievement record. Returns ErrDuplicateKey
// when the achievement was already earned; the unique index on
// (user_id, achievement_id) makes concurrent unlocks converge to one record.
func (r *AchievementRepository) InsertRecord(ctx context.Context, record *models.AchievementRecord) (*models.AchievementRecord, error) {
	record.EarnedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		logrus.WithError(err).Error("Failed to insert achievement record")
		return nil, fmt.Errorf("failed to insert achievement record: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	record.ID = insertedID

	logrus.WithFields(logrus.Fields{
		"user_id":        record.UserID.Hex(),
		"achievement_id": record.AchievementID,
	}).Info("Achievement unlocked")
	return record, nil
}

// ListRecords returns every achievement a user has earned.
func (r *AchievementRepository) ListRecords(ctx context.Context, userID primitive.ObjectID) ([]models.AchievementRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievement records: %v", err)
	}
	defer cursor.Close(ctx)

	var records []models.AchievementRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode achievement records: %v", err)
	}
	return records, nil
}

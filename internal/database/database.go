package database

import (
	"context"
	"fmt"
	"time"

	"github.com/mindwell-app/mindwell/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes the MongoDB connection and verifies it with a ping.
func ConnectDB(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	logrus.Info("Connected to MongoDB")
	return client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the indexes the engine relies on. The unique indexes
// are load-bearing: daily upsert fallback, achievement unlock-once and
// low-mood alert dedup all depend on them.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"mood_entries": {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date_key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"achievement_records": {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "achievement_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"low_mood_alerts": {
			{
				Keys:    bson.D{{Key: "entry_id", Value: 1}, {Key: "friend_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "recovered", Value: 1}},
			},
		},
		"notifications": {
			{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}},
			},
		},
		"user_stats": {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %v", collection, err)
		}
	}

	logrus.Info("Database indexes ensured")
	return nil
}

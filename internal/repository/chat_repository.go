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

type ChatRepository struct {
	collection *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{collection: db.Collection("messages")}
}

func (r *ChatRepository) SendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %v", err)
	}
	msg.ID = result.InsertedID.(primitive.ObjectID)
	return msg, nil
}

// GetChat returns the full conversation between two users, oldest first.
func (r *ChatRepository) GetChat(ctx context.Context, userID, friendID primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID, "receiver_id": friendID},
			{"sender_id": friendID, "receiver_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}
	return messages, nil
}

// CountMessagesBySender returns how many messages the user has sent, for
// achievement stats.
func (r *ChatRepository) CountMessagesBySender(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"sender_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %v", err)
	}
	return count, nil
}

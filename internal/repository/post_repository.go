package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostRepository reads the forum posts collection. The forum service owns
// the writes; the engine only needs author counts for achievement stats.
type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{collection: db.Collection("posts")}
}

// CountPostsByAuthor returns how many forum posts the user has authored.
func (r *PostRepository) CountPostsByAuthor(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"author_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %v", err)
	}
	return count, nil
}

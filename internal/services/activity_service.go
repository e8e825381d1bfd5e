package services

import (
	"context"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityService exposes the per-user activity feed.
type ActivityService struct {
	repo *repository.ActivityRepository
}

func NewActivityService(repo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) LogActivity(ctx context.Context, activity *models.Activity) error {
	return s.repo.LogActivity(ctx, activity)
}

func (s *ActivityService) GetUserActivities(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.repo.GetUserActivities(ctx, userID, limit)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultPageLimit = 20

// NotificationService is the append-only notification ledger: every
// component that needs to reach a user goes through CreateNotification.
type NotificationService struct {
	repo     NotificationStore
	userRepo UserReader
}

func NewNotificationService(repo NotificationStore, userRepo UserReader) *NotificationService {
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// CreateNotification logs a new notification for a user. Appending for an
// unknown recipient is a silent no-op so producers never have to care.
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logrus.WithField("user_id", userID.Hex()).Warn("Dropping notification for unknown recipient")
			return nil
		}
		return fmt.Errorf("failed to resolve recipient: %v", err)
	}

	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
		TargetID: targetID,
	}
	return s.repo.CreateNotification(ctx, notif)
}

// GetUserNotifications returns one reverse-chronological page.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultPageLimit
	}
	return s.repo.GetUserNotifications(ctx, userID, page, limit)
}

// GetNotificationsSince returns everything created after the cursor, oldest
// first, for polling clients.
func (s *NotificationService) GetNotificationsSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.Notification, error) {
	return s.repo.GetNotificationsSince(ctx, userID, since)
}

// GetUnreadCount returns the user's unread notification count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkNotificationAsRead sets the "read" status of a notification to true.
// Idempotent: re-marking a read notification changes nothing.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, notifID primitive.ObjectID) error {
	return s.repo.MarkAsRead(ctx, notifID)
}

// MarkAllNotificationsAsRead flips every unread notification for the user.
func (s *NotificationService) MarkAllNotificationsAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// DeleteNotification hard-deletes a notification owned by the user. The
// unread count is derived from the stored documents, so deleting an unread
// notification decrements it with no drift.
func (s *NotificationService) DeleteNotification(ctx context.Context, userID, notifID primitive.ObjectID) error {
	notif, err := s.repo.GetNotificationByID(ctx, notifID)
	if err != nil {
		return err
	}
	if notif.UserID != userID {
		return repository.ErrNotFound
	}
	return s.repo.DeleteNotification(ctx, notifID)
}

// GetLatestNotificationByType returns the newest notification of a type,
// used by periodic jobs to dedup reminders.
func (s *NotificationService) GetLatestNotificationByType(ctx context.Context, userID primitive.ObjectID, notifType string) (*models.Notification, error) {
	return s.repo.GetLatestNotificationByType(ctx, userID, notifType)
}

// DeleteExpiredNotifications is called periodically by cron.
func (s *NotificationService) DeleteExpiredNotifications(ctx context.Context) error {
	return s.repo.DeleteExpiredNotifications(ctx)
}

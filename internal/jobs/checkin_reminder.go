package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/mindwell-app/mindwell/internal/services"
	"github.com/sirupsen/logrus"
)

// CheckInReminder scans for users without an entry for the current day and
// nudges them with a system notification.
type CheckInReminder struct {
	UserRepo            *repository.UserRepository
	EntryRepo           *repository.MoodEntryRepository
	NotificationService *services.NotificationService
}

func NewCheckInReminder(userRepo *repository.UserRepository, entryRepo *repository.MoodEntryRepository, notifService *services.NotificationService) *CheckInReminder {
	return &CheckInReminder{
		UserRepo:            userRepo,
		EntryRepo:           entryRepo,
		NotificationService: notifService,
	}
}

// RunDailyScan sends at most one reminder per user per calendar day.
func (j *CheckInReminder) RunDailyScan(ctx context.Context) error {
	users, err := j.UserRepo.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %v", err)
	}

	today := models.DateKeyAt(time.Now())
	reminded := 0

	for _, user := range users {
		if _, err := j.EntryRepo.GetEntryByDateKey(ctx, user.ID, today); err == nil {
			continue // already checked in today
		}

		// Skip users already reminded today.
		existing, err := j.NotificationService.GetLatestNotificationByType(ctx, user.ID, models.NotifSystem)
		if err == nil && existing != nil && models.DateKeyAt(existing.CreatedAt) == today {
			continue
		}

		err = j.NotificationService.CreateNotification(ctx, user.ID, models.NotifSystem,
			"How are you feeling today?",
			"You haven't checked in yet. A minute of reflection keeps your streak alive.",
			nil,
		)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to send check-in reminder to user %s", user.ID.Hex())
			continue
		}
		reminded++
	}

	logrus.Infof("Check-in reminder scan completed, %d users reminded", reminded)
	return nil
}

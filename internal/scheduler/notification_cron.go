package cron

import (
	"context"

	"github.com/mindwell-app/mindwell/internal/jobs"
	"github.com/mindwell-app/mindwell/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func StartNotificationCronJobs(notificationService *services.NotificationService, reminder *jobs.CheckInReminder) {
	c := cron.New()

	// Purge expired notifications nightly
	c.AddFunc("0 3 * * *", func() {
		err := notificationService.DeleteExpiredNotifications(context.Background())
		if err != nil {
			logrus.WithError(err).Error("DeleteExpiredNotifications failed")
		}
	})

	// Evening nudge for users who haven't checked in yet (UTC day)
	c.AddFunc("0 18 * * *", func() {
		err := reminder.RunDailyScan(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Check-in reminder scan failed")
		}
	})

	c.Start()
}

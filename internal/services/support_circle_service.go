package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/mindwell-app/mindwell/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const (
	dispatchAttempts = 3
	dispatchBackoff  = 100 * time.Millisecond
)

// SupportCircleService drives the per-(user, friend) episode state machine
// on every check-in: a low entry alerts the circle once per episode, a later
// recovery credits every alerted friend exactly once.
type SupportCircleService struct {
	alerts   AlertStore
	stats    StatsStore
	friends  FriendReader
	users    UserReader
	notifier *NotificationService
	activity ActivityLogger

	// fanoutLimit bounds the number of concurrent per-friend dispatches.
	fanoutLimit int
}

func NewSupportCircleService(alerts AlertStore, stats StatsStore, friends FriendReader, users UserReader, notifier *NotificationService, activity ActivityLogger, fanoutLimit int) *SupportCircleService {
	if fanoutLimit < 1 {
		fanoutLimit = 8
	}
	return &SupportCircleService{
		alerts:      alerts,
		stats:       stats,
		friends:     friends,
		users:       users,
		notifier:    notifier,
		activity:    activity,
		fanoutLimit: fanoutLimit,
	}
}

// HandleEntry evaluates a new or updated mood entry against the friend
// graph. Neutral-band scores do nothing. Errors are per-friend and never
// propagate to the check-in call; only a failure to read the graph or the
// alert state is returned.
func (s *SupportCircleService) HandleEntry(ctx context.Context, entry *models.MoodEntry) error {
	switch {
	case entry.Score <= models.LowMoodThreshold:
		return s.alertCircle(ctx, entry)
	case entry.Score >= models.RecoveryThreshold:
		return s.resolveEpisode(ctx, entry)
	default:
		return nil
	}
}

// alertCircle emits one friend_low_mood notification per accepted friend
// that is not already inside an open episode for this user.
func (s *SupportCircleService) alertCircle(ctx context.Context, entry *models.MoodEntry) error {
	friendIDs, err := s.friends.GetFriendIDs(ctx, entry.UserID)
	if err != nil {
		return fmt.Errorf("failed to read friend graph: %v", err)
	}
	if len(friendIDs) == 0 {
		return nil
	}

	username := s.displayName(ctx, entry.UserID)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanoutLimit)
	for _, friendID := range friendIDs {
		friendID := friendID
		g.Go(func() error {
			// Errors are logged per friend, never returned: one failed
			// dispatch must not stop the siblings.
			s.alertFriend(gctx, entry, friendID, username)
			return nil
		})
	}
	return g.Wait()
}

func (s *SupportCircleService) alertFriend(ctx context.Context, entry *models.MoodEntry, friendID primitive.ObjectID, username string) {
	open, err := s.alerts.HasOpenAlert(ctx, entry.UserID, friendID)
	if err != nil {
		logger.Log.WithError(err).WithField("friend_id", friendID.Hex()).Error("Failed to check episode state")
		return
	}
	if open {
		// Ongoing episode: the friend has already been alerted, a repeated
		// low score stays silent until recovery.
		return
	}

	alert := &models.LowMoodAlert{
		UserID:   entry.UserID,
		FriendID: friendID,
		EntryID:  entry.ID,
	}
	if _, err := s.alerts.InsertAlert(ctx, alert); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// A concurrent evaluation of the same entry already alerted.
			return
		}
		logger.Log.WithError(err).WithField("friend_id", friendID.Hex()).Error("Failed to record low-mood alert")
		return
	}

	err = s.dispatch(ctx, friendID, models.NotifFriendLowMood,
		"A friend could use your support",
		fmt.Sprintf("%s is having a hard day. Reaching out could mean a lot.", username),
		&entry.ID,
	)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"user_id":   entry.UserID.Hex(),
			"friend_id": friendID.Hex(),
		}).Error("Failed to deliver low-mood alert")
	}
}

// resolveEpisode closes every open alert for the user, notifying and
// crediting each alerted friend exactly once regardless of how many low
// entries preceded the recovery.
func (s *SupportCircleService) resolveEpisode(ctx context.Context, entry *models.MoodEntry) error {
	open, err := s.alerts.ListOpenAlerts(ctx, entry.UserID)
	if err != nil {
		return fmt.Errorf("failed to read open alerts: %v", err)
	}
	if len(open) == 0 {
		return nil
	}

	friendSet := make(map[primitive.ObjectID]struct{}, len(open))
	for _, alert := range open {
		friendSet[alert.FriendID] = struct{}{}
	}

	username := s.displayName(ctx, entry.UserID)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanoutLimit)
	for friendID := range friendSet {
		friendID := friendID
		g.Go(func() error {
			s.recoverFriend(gctx, entry, friendID, username)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.activity.LogActivity(ctx, &models.Activity{
		UserID:   entry.UserID,
		Type:     "mood_recovered",
		TargetID: entry.ID,
		Message:  "Mood improved after a difficult stretch",
	}); err != nil {
		logger.Log.WithError(err).Warn("Failed to log recovery activity")
	}
	return nil
}

func (s *SupportCircleService) recoverFriend(ctx context.Context, entry *models.MoodEntry, friendID primitive.ObjectID, username string) {
	flipped, err := s.alerts.MarkRecovered(ctx, entry.UserID, friendID)
	if err != nil {
		logger.Log.WithError(err).WithField("friend_id", friendID.Hex()).Error("Failed to close episode")
		return
	}
	if flipped == 0 {
		// A concurrent recovery already claimed this episode; crediting
		// again would double-count.
		return
	}

	if err := s.stats.CreditHelp(ctx, friendID, entry.UserID); err != nil {
		logger.Log.WithError(err).WithField("friend_id", friendID.Hex()).Error("Failed to credit mood help")
	}

	err = s.dispatch(ctx, friendID, models.NotifMoodImproved,
		"Your support helped",
		fmt.Sprintf("%s is feeling better. Thank you for being there.", username),
		&entry.ID,
	)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"user_id":   entry.UserID.Hex(),
			"friend_id": friendID.Hex(),
		}).Error("Failed to deliver recovery notification")
	}
}

// dispatch appends a notification with bounded retry and exponential
// backoff. Failures after the last attempt are returned to the caller for
// logging only.
func (s *SupportCircleService) dispatch(ctx context.Context, recipient primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	var err error
	backoff := dispatchBackoff
	for attempt := 0; attempt < dispatchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
		if err = s.notifier.CreateNotification(ctx, recipient, notifType, title, message, targetID); err == nil {
			return nil
		}
	}
	return err
}

func (s *SupportCircleService) displayName(ctx context.Context, userID primitive.ObjectID) string {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return "Your friend"
	}
	return user.Username
}

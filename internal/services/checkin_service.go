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
)

// CheckInInput carries one mood submission.
type CheckInInput struct {
	Score      int      `json:"score"`
	Mood       string   `json:"mood"`
	Activities []string `json:"activities,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// CheckInService turns a mood submission into an idempotent daily entry and
// drives the derived effects: streak recompute, achievement evaluation and
// support-circle fan-out.
type CheckInService struct {
	entries      MoodEntryStore
	stats        StatsStore
	friends      FriendReader
	messages     MessageCounter
	posts        PostCounter
	activity     ActivityLogger
	achievements *AchievementService
	circle       *SupportCircleService
}

func NewCheckInService(
	entries MoodEntryStore,
	stats StatsStore,
	friends FriendReader,
	messages MessageCounter,
	posts PostCounter,
	activity ActivityLogger,
	achievements *AchievementService,
	circle *SupportCircleService,
) *CheckInService {
	return &CheckInService{
		entries:      entries,
		stats:        stats,
		friends:      friends,
		messages:     messages,
		posts:        posts,
		activity:     activity,
		achievements: achievements,
		circle:       circle,
	}
}

// CheckIn records today's mood for the user. A second submission the same
// calendar day updates the existing entry instead of failing, so check-in
// and update converge to the same upsert regardless of call order.
//
// Newly unlocked achievements are returned synchronously; all other derived
// effects are best-effort and never fail the persisted entry.
func (s *CheckInService) CheckIn(ctx context.Context, userID primitive.ObjectID, input CheckInInput) (*models.MoodEntry, []models.AchievementDefinition, error) {
	if input.Score < models.MinMoodScore || input.Score > models.MaxMoodScore {
		return nil, nil, ErrInvalidScore
	}

	dateKey := models.DateKeyAt(time.Now())
	entry := &models.MoodEntry{
		UserID:     userID,
		DateKey:    dateKey,
		Score:      input.Score,
		Mood:       input.Mood,
		Activities: input.Activities,
		Tags:       input.Tags,
		Notes:      input.Notes,
	}

	persisted, err := s.entries.InsertEntry(ctx, entry)
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Today's entry already exists (possibly created by a concurrent
		// request a moment ago); fall back to updating its mutable fields.
		persisted, err = s.entries.UpdateEntryFields(ctx, userID, dateKey, entry)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist check-in: %v", err)
	}

	unlocked := s.runDerivedEffects(ctx, userID, persisted)
	return persisted, unlocked, nil
}

// UpdateTodaysMood revises today's entry. Same upsert semantics as CheckIn:
// if no entry exists yet for today, one is created.
func (s *CheckInService) UpdateTodaysMood(ctx context.Context, userID primitive.ObjectID, input CheckInInput) (*models.MoodEntry, []models.AchievementDefinition, error) {
	return s.CheckIn(ctx, userID, input)
}

// runDerivedEffects recomputes the streak, evaluates achievements and runs
// the support-circle state machine. The entry is already durable at this
// point; everything here is recoverable by recomputation, so failures are
// logged and swallowed.
func (s *CheckInService) runDerivedEffects(ctx context.Context, userID primitive.ObjectID, entry *models.MoodEntry) []models.AchievementDefinition {
	stats, err := s.gatherStats(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to gather stats after check-in")
		return nil
	}

	if err := s.stats.RecordLongestStreak(ctx, userID, stats.CurrentStreak); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to persist longest streak")
	}

	unlocked, err := s.achievements.Evaluate(ctx, userID, stats)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Achievement evaluation had failures")
	}
	for _, def := range unlocked {
		if err := s.activity.LogActivity(ctx, &models.Activity{
			UserID:  userID,
			Type:    "achievement_unlocked",
			Message: fmt.Sprintf("Unlocked \"%s\"", def.Title),
		}); err != nil {
			logger.Log.WithError(err).Warn("Failed to log unlock activity")
		}
	}

	if err := s.circle.HandleEntry(ctx, entry); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Support-circle evaluation failed")
	}

	if err := s.activity.LogActivity(ctx, &models.Activity{
		UserID:   userID,
		Type:     "check_in",
		TargetID: entry.ID,
		Message:  fmt.Sprintf("Checked in with mood score %d", entry.Score),
	}); err != nil {
		logger.Log.WithError(err).Warn("Failed to log check-in activity")
	}

	return unlocked
}

// gatherStats builds the aggregate the achievement predicates run against.
// The social counts are best-effort: a failed count leaves its field at
// zero rather than blocking the evaluation.
func (s *CheckInService) gatherStats(ctx context.Context, userID primitive.ObjectID) (models.AchievementStats, error) {
	dateKeys, err := s.entries.ListDateKeys(ctx, userID)
	if err != nil {
		return models.AchievementStats{}, err
	}

	stats := models.AchievementStats{
		CurrentStreak: CalculateStreak(dateKeys, time.Now()),
		TotalCheckIns: len(dateKeys),
	}

	if userStats, err := s.stats.GetStats(ctx, userID); err == nil {
		stats.MoodsHelped = userStats.MoodsHelped
	} else {
		logger.Log.WithError(err).Warn("Failed to read user stats")
	}
	if friendIDs, err := s.friends.GetFriendIDs(ctx, userID); err == nil {
		stats.FriendCount = len(friendIDs)
	} else {
		logger.Log.WithError(err).Warn("Failed to count friends")
	}
	if count, err := s.messages.CountMessagesBySender(ctx, userID); err == nil {
		stats.MessageCount = int(count)
	} else {
		logger.Log.WithError(err).Warn("Failed to count messages")
	}
	if count, err := s.posts.CountPostsByAuthor(ctx, userID); err == nil {
		stats.PostCount = int(count)
	} else {
		logger.Log.WithError(err).Warn("Failed to count posts")
	}

	return stats, nil
}

// GetTodayEntry returns the user's entry for the current day, or
// repository.ErrNotFound.
func (s *CheckInService) GetTodayEntry(ctx context.Context, userID primitive.ObjectID) (*models.MoodEntry, error) {
	return s.entries.GetEntryByDateKey(ctx, userID, models.DateKeyAt(time.Now()))
}

// GetHistory returns the user's entries between two date keys, newest first.
func (s *CheckInService) GetHistory(ctx context.Context, userID primitive.ObjectID, from, to string) ([]models.MoodEntry, error) {
	return s.entries.ListEntriesRange(ctx, userID, from, to)
}

// StatsSummary builds the aggregate view for GET /stats. The current streak
// is recomputed from the entry log on every read, so a missed derived-effect
// write heals here automatically.
func (s *CheckInService) StatsSummary(ctx context.Context, userID primitive.ObjectID) (*models.StatsSummary, error) {
	dateKeys, err := s.entries.ListDateKeys(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-in days: %v", err)
	}

	current := CalculateStreak(dateKeys, time.Now())

	userStats, err := s.stats.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read user stats: %v", err)
	}

	longest := userStats.LongestStreak
	if current > longest {
		longest = current
	}

	return &models.StatsSummary{
		CurrentStreak: current,
		LongestStreak: longest,
		TotalCheckIns: len(dateKeys),
		MoodsHelped:   userStats.MoodsHelped,
		FriendsHelped: len(userStats.HelpedUserIDs),
	}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/mindwell-app/mindwell/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AchievementService evaluates the static catalog against a user's aggregate
// stats and records unlocks exactly once.
type AchievementService struct {
	records  AchievementStore
	notifier *NotificationService
	catalog  []models.AchievementDefinition
}

func NewAchievementService(records AchievementStore, notifier *NotificationService, catalog []models.AchievementDefinition) *AchievementService {
	return &AchievementService{
		records:  records,
		notifier: notifier,
		catalog:  catalog,
	}
}

// Evaluate runs every catalog rule the user has not earned yet and returns
// the newly unlocked definitions.
//
// Each rule is isolated: a storage failure on one insert is collected and
// the remaining rules still run; the failed rule is simply retried on the
// next evaluation because its record was never written. A duplicate-key
// insert means a concurrent evaluation already unlocked the rule and is
// treated as already earned.
func (s *AchievementService) Evaluate(ctx context.Context, userID primitive.ObjectID, stats models.AchievementStats) ([]models.AchievementDefinition, error) {
	existing, err := s.records.ListRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement records: %v", err)
	}

	earned := make(map[string]struct{}, len(existing))
	for _, record := range existing {
		earned[record.AchievementID] = struct{}{}
	}

	var unlocked []models.AchievementDefinition
	var failures []error

	for _, def := range s.catalog {
		if _, ok := earned[def.ID]; ok {
			continue
		}
		if !def.Predicate(stats) {
			continue
		}

		record := &models.AchievementRecord{
			UserID:        userID,
			AchievementID: def.ID,
		}
		if _, err := s.records.InsertRecord(ctx, record); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				// Lost the race to a concurrent check-in; already unlocked.
				continue
			}
			logger.Log.WithError(err).WithField("achievement_id", def.ID).Error("Failed to record achievement unlock")
			failures = append(failures, fmt.Errorf("rule %s: %w", def.ID, err))
			continue
		}

		unlocked = append(unlocked, def)

		if err := s.notifier.CreateNotification(
			ctx,
			userID,
			models.NotifAchievementUnlocked,
			"Achievement Unlocked",
			fmt.Sprintf("You earned \"%s\" (+%d XP)!", def.Title, def.XP),
			nil,
		); err != nil {
			logger.Log.WithError(err).WithField("achievement_id", def.ID).Warn("Failed to send unlock notification")
		}
	}

	return unlocked, errors.Join(failures...)
}

// Catalog exposes the full definition list.
func (s *AchievementService) Catalog() []models.AchievementDefinition {
	return s.catalog
}

// GetUserAchievements joins the user's records with the catalog and sums XP.
func (s *AchievementService) GetUserAchievements(ctx context.Context, userID primitive.ObjectID) ([]models.EarnedAchievement, int, error) {
	records, err := s.records.ListRecords(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list achievement records: %v", err)
	}

	byID := make(map[string]models.AchievementDefinition, len(s.catalog))
	for _, def := range s.catalog {
		byID[def.ID] = def
	}

	achievements := make([]models.EarnedAchievement, 0, len(records))
	totalXP := 0
	for _, record := range records {
		def, ok := byID[record.AchievementID]
		if !ok {
			// Catalog entry was retired; keep the record but skip display.
			continue
		}
		achievements = append(achievements, models.EarnedAchievement{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			XP:          def.XP,
			Tier:        def.Tier(),
			EarnedAt:    record.EarnedAt,
		})
		totalXP += def.XP
	}

	return achievements, totalXP, nil
}

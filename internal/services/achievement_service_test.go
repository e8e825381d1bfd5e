package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAchievementFixture(user *models.User) (*AchievementService, *fakeAchievementStore, *fakeNotificationStore) {
	records := newFakeAchievementStore()
	notifStore := newFakeNotificationStore()
	notifier := NewNotificationService(notifStore, newFakeUserReader(user))
	return NewAchievementService(records, notifier, DefaultCatalog()), records, notifStore
}

func TestEvaluateUnlocksMatchingRules(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "dana"}
	svc, _, notifStore := newAchievementFixture(user)

	unlocked, err := svc.Evaluate(context.Background(), user.ID, models.AchievementStats{
		CurrentStreak: 7,
		TotalCheckIns: 7,
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(unlocked))
	for _, def := range unlocked {
		ids = append(ids, def.ID)
	}
	assert.ElementsMatch(t, []string{"first-checkin", "streak-3", "streak-7"}, ids)

	// One unlock notification per achievement.
	assert.Len(t, notifStore.byType(user.ID, models.NotifAchievementUnlocked), 3)
}

func TestEvaluateUnlocksOnlyOnce(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "dana"}
	svc, records, _ := newAchievementFixture(user)

	stats := models.AchievementStats{CurrentStreak: 7, TotalCheckIns: 7}

	first, err := svc.Evaluate(context.Background(), user.ID, stats)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Streak breaks and is rebuilt to 7: the predicate is true again but
	// nothing new unlocks.
	second, err := svc.Evaluate(context.Background(), user.ID, stats)
	require.NoError(t, err)
	assert.Empty(t, second)

	stored, err := records.ListRecords(context.Background(), user.ID)
	require.NoError(t, err)
	count := 0
	for _, record := range stored {
		if record.AchievementID == "streak-7" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEvaluateTreatsDuplicateInsertAsUnlocked(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "dana"}
	_, records, _ := newAchievementFixture(user)

	// Simulate a concurrent evaluation having inserted the record between
	// our ListRecords and InsertRecord.
	_, err := records.InsertRecord(context.Background(), &models.AchievementRecord{
		UserID:        user.ID,
		AchievementID: "first-checkin",
	})
	require.NoError(t, err)

	// The fake returns ErrDuplicateKey on re-insert; Evaluate must not
	// surface it, and must not report the rule as newly unlocked.
	svcFresh := NewAchievementService(records, NewNotificationService(newFakeNotificationStore(), newFakeUserReader(user)), DefaultCatalog())
	unlocked, err := svcFresh.Evaluate(context.Background(), user.ID, models.AchievementStats{TotalCheckIns: 1})
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestEvaluateIsolatesRuleFailures(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "dana"}
	svc, records, _ := newAchievementFixture(user)

	records.failIDs["first-checkin"] = errors.New("storage hiccup")

	unlocked, err := svc.Evaluate(context.Background(), user.ID, models.AchievementStats{
		CurrentStreak: 3,
		TotalCheckIns: 3,
	})

	// The failing rule is reported, the healthy one still unlocks.
	assert.Error(t, err)
	ids := make([]string, 0, len(unlocked))
	for _, def := range unlocked {
		ids = append(ids, def.ID)
	}
	assert.Contains(t, ids, "streak-3")
	assert.NotContains(t, ids, "first-checkin")

	// Once storage recovers the rule unlocks on the next evaluation.
	delete(records.failIDs, "first-checkin")
	retried, err := svc.Evaluate(context.Background(), user.ID, models.AchievementStats{
		CurrentStreak: 3,
		TotalCheckIns: 3,
	})
	require.NoError(t, err)
	require.Len(t, retried, 1)
	assert.Equal(t, "first-checkin", retried[0].ID)
}

func TestTierFromXP(t *testing.T) {
	assert.Equal(t, "bronze", models.AchievementDefinition{XP: 10}.Tier())
	assert.Equal(t, "bronze", models.AchievementDefinition{XP: 49}.Tier())
	assert.Equal(t, "silver", models.AchievementDefinition{XP: 50}.Tier())
	assert.Equal(t, "silver", models.AchievementDefinition{XP: 149}.Tier())
	assert.Equal(t, "gold", models.AchievementDefinition{XP: 150}.Tier())
	assert.Equal(t, "gold", models.AchievementDefinition{XP: 250}.Tier())
}

func TestGetUserAchievementsSumsXP(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "dana"}
	svc, _, _ := newAchievementFixture(user)

	_, err := svc.Evaluate(context.Background(), user.ID, models.AchievementStats{
		CurrentStreak: 3,
		TotalCheckIns: 1,
	})
	require.NoError(t, err)

	earned, totalXP, err := svc.GetUserAchievements(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, earned, 2) // first-checkin + streak-3
	assert.Equal(t, 10+25, totalXP)
}

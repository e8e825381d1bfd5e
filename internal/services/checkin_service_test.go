package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type checkInFixture struct {
	svc        *CheckInService
	entries    *fakeEntryStore
	stats      *fakeStatsStore
	records    *fakeAchievementStore
	alerts     *fakeAlertStore
	friends    *fakeFriendReader
	users      *fakeUserReader
	notifStore *fakeNotificationStore
	activity   *fakeActivityLogger

	user *models.User
}

func newCheckInFixture(t *testing.T) *checkInFixture {
	t.Helper()

	user := &models.User{ID: primitive.NewObjectID(), Username: "sam"}
	users := newFakeUserReader(user)
	friends := newFakeFriendReader()

	entries := newFakeEntryStore()
	stats := newFakeStatsStore()
	records := newFakeAchievementStore()
	alerts := newFakeAlertStore()
	notifStore := newFakeNotificationStore()
	activity := &fakeActivityLogger{}

	notifier := NewNotificationService(notifStore, users)
	achievements := NewAchievementService(records, notifier, DefaultCatalog())
	circle := NewSupportCircleService(alerts, stats, friends, users, notifier, activity, 4)

	svc := NewCheckInService(entries, stats, friends, &fakeMessageCounter{}, &fakePostCounter{}, activity, achievements, circle)

	return &checkInFixture{
		svc:        svc,
		entries:    entries,
		stats:      stats,
		records:    records,
		alerts:     alerts,
		friends:    friends,
		users:      users,
		notifStore: notifStore,
		activity:   activity,
		user:       user,
	}
}

func TestCheckInRejectsOutOfRangeScores(t *testing.T) {
	f := newCheckInFixture(t)

	for _, score := range []int{0, -1, 6, 100} {
		_, _, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: score, Mood: "ok"})
		assert.ErrorIs(t, err, ErrInvalidScore, "score %d", score)
	}

	count, err := f.entries.CountEntries(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCheckInPersistsEntry(t *testing.T) {
	f := newCheckInFixture(t)

	entry, _, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{
		Score:      4,
		Mood:       "content",
		Activities: []string{"walk"},
		Notes:      "good day",
	})
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, f.user.ID, entry.UserID)
	assert.Equal(t, models.DateKeyAt(time.Now()), entry.DateKey)
	assert.Equal(t, 4, entry.Score)
	assert.Equal(t, "content", entry.Mood)
}

func TestCheckInSameDayUpdatesInPlace(t *testing.T) {
	f := newCheckInFixture(t)

	first, _, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 3, Mood: "flat"})
	require.NoError(t, err)

	second, _, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 5, Mood: "great"})
	require.NoError(t, err)

	// Same underlying document, revised fields.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Score)
	assert.Equal(t, "great", second.Mood)

	count, err := f.entries.CountEntries(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCheckInReturnsNewlyUnlockedAchievements(t *testing.T) {
	f := newCheckInFixture(t)

	_, unlocked, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 4, Mood: "content"})
	require.NoError(t, err)

	require.Len(t, unlocked, 1)
	assert.Equal(t, "first-checkin", unlocked[0].ID)

	// The next same-day submission unlocks nothing new.
	_, unlocked, err = f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 4, Mood: "content"})
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestCheckInTriggersSupportCircle(t *testing.T) {
	f := newCheckInFixture(t)

	friend := &models.User{ID: primitive.NewObjectID(), Username: "alex"}
	f.users.add(friend)
	f.friends.set(f.user.ID, friend.ID)

	_, _, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 1, Mood: "awful"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.alerts.countAll())
	assert.Len(t, f.notifStore.byType(friend.ID, models.NotifFriendLowMood), 1)
}

func TestCheckInSurvivesDerivedEffectFailures(t *testing.T) {
	f := newCheckInFixture(t)

	// Every achievement insert fails; the entry must persist anyway.
	for _, def := range DefaultCatalog() {
		f.records.failIDs[def.ID] = errors.New("storage down")
	}

	entry, unlocked, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 4, Mood: "content"})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Empty(t, unlocked)

	_, err = f.entries.GetEntryByDateKey(context.Background(), f.user.ID, entry.DateKey)
	assert.NoError(t, err)
}

func TestCheckInLogsActivity(t *testing.T) {
	f := newCheckInFixture(t)

	_, _, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 3, Mood: "flat"})
	require.NoError(t, err)

	// The first submission also unlocks first-checkin, so two events land.
	require.Len(t, f.activity.events, 2)
	assert.Equal(t, "achievement_unlocked", f.activity.events[0].Type)
	assert.Equal(t, "check_in", f.activity.events[1].Type)
	assert.Equal(t, f.user.ID, f.activity.events[1].UserID)
}

func TestCheckInUpdatesLongestStreak(t *testing.T) {
	f := newCheckInFixture(t)

	_, _, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 3, Mood: "flat"})
	require.NoError(t, err)

	stats, err := f.stats.GetStats(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LongestStreak)
}

func TestGetTodayEntry(t *testing.T) {
	f := newCheckInFixture(t)

	_, err := f.svc.GetTodayEntry(context.Background(), f.user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, _, err = f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 4, Mood: "content"})
	require.NoError(t, err)

	entry, err := f.svc.GetTodayEntry(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, entry.Score)
}

func TestStatsSummaryRecomputesCurrentStreak(t *testing.T) {
	f := newCheckInFixture(t)

	today := time.Now().UTC()
	for offset := 2; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		_, err := f.entries.InsertEntry(context.Background(), &models.MoodEntry{
			UserID:  f.user.ID,
			DateKey: models.DateKeyAt(day),
			Score:   3,
		})
		require.NoError(t, err)
	}

	summary, err := f.svc.StatsSummary(context.Background(), f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.CurrentStreak)
	assert.Equal(t, 3, summary.LongestStreak)
	assert.Equal(t, 3, summary.TotalCheckIns)
}

func TestStatsSummaryKeepsStoredLongestStreak(t *testing.T) {
	f := newCheckInFixture(t)

	require.NoError(t, f.stats.RecordLongestStreak(context.Background(), f.user.ID, 12))

	_, _, err := f.svc.CheckIn(context.Background(), f.user.ID, CheckInInput{Score: 3, Mood: "flat"})
	require.NoError(t, err)

	summary, err := f.svc.StatsSummary(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CurrentStreak)
	assert.Equal(t, 12, summary.LongestStreak)
}

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes. Everything is mutex-guarded because the support
// circle fans out concurrently.

type fakeEntryStore struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]map[string]*models.MoodEntry
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[primitive.ObjectID]map[string]*models.MoodEntry)}
}

func (s *fakeEntryStore) InsertEntry(_ context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDay, ok := s.entries[entry.UserID]
	if !ok {
		byDay = make(map[string]*models.MoodEntry)
		s.entries[entry.UserID] = byDay
	}
	if _, exists := byDay[entry.DateKey]; exists {
		return nil, repository.ErrDuplicateKey
	}

	stored := *entry
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	byDay[entry.DateKey] = &stored

	result := stored
	return &result, nil
}

func (s *fakeEntryStore) UpdateEntryFields(_ context.Context, userID primitive.ObjectID, dateKey string, entry *models.MoodEntry) (*models.MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[userID][dateKey]
	if !ok {
		return nil, repository.ErrNotFound
	}
	existing.Score = entry.Score
	existing.Mood = entry.Mood
	existing.Activities = entry.Activities
	existing.Tags = entry.Tags
	existing.Notes = entry.Notes
	existing.UpdatedAt = time.Now()

	result := *existing
	return &result, nil
}

func (s *fakeEntryStore) GetEntryByDateKey(_ context.Context, userID primitive.ObjectID, dateKey string) (*models.MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[userID][dateKey]
	if !ok {
		return nil, repository.ErrNotFound
	}
	result := *entry
	return &result, nil
}

func (s *fakeEntryStore) ListDateKeys(_ context.Context, userID primitive.ObjectID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for key := range s.entries[userID] {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *fakeEntryStore) CountEntries(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.entries[userID])), nil
}

func (s *fakeEntryStore) ListEntriesRange(_ context.Context, userID primitive.ObjectID, from, to string) ([]models.MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.MoodEntry
	for key, entry := range s.entries[userID] {
		if from != "" && key < from {
			continue
		}
		if to != "" && key > to {
			continue
		}
		result = append(result, *entry)
	}
	return result, nil
}

type fakeStatsStore struct {
	mu    sync.Mutex
	stats map[primitive.ObjectID]*models.UserStats
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{stats: make(map[primitive.ObjectID]*models.UserStats)}
}

func (s *fakeStatsStore) get(userID primitive.ObjectID) *models.UserStats {
	stats, ok := s.stats[userID]
	if !ok {
		stats = &models.UserStats{UserID: userID}
		s.stats[userID] = stats
	}
	return stats
}

func (s *fakeStatsStore) GetStats(_ context.Context, userID primitive.ObjectID) (*models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := *s.get(userID)
	return &result, nil
}

func (s *fakeStatsStore) RecordLongestStreak(_ context.Context, userID primitive.ObjectID, streak int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.get(userID)
	if streak > stats.LongestStreak {
		stats.LongestStreak = streak
	}
	return nil
}

func (s *fakeStatsStore) CreditHelp(_ context.Context, helperID, helpedID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.get(helperID)
	stats.MoodsHelped++
	for _, id := range stats.HelpedUserIDs {
		if id == helpedID {
			return nil
		}
	}
	stats.HelpedUserIDs = append(stats.HelpedUserIDs, helpedID)
	return nil
}

type fakeAchievementStore struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]map[string]models.AchievementRecord

	// failIDs simulates storage failures for specific rule inserts.
	failIDs map[string]error
}

func newFakeAchievementStore() *fakeAchievementStore {
	return &fakeAchievementStore{
		records: make(map[primitive.ObjectID]map[string]models.AchievementRecord),
		failIDs: make(map[string]error),
	}
}

func (s *fakeAchievementStore) InsertRecord(_ context.Context, record *models.AchievementRecord) (*models.AchievementRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failIDs[record.AchievementID]; ok {
		return nil, err
	}

	byID, ok := s.records[record.UserID]
	if !ok {
		byID = make(map[string]models.AchievementRecord)
		s.records[record.UserID] = byID
	}
	if _, exists := byID[record.AchievementID]; exists {
		return nil, repository.ErrDuplicateKey
	}

	stored := *record
	stored.ID = primitive.NewObjectID()
	stored.EarnedAt = time.Now()
	byID[record.AchievementID] = stored

	result := stored
	return &result, nil
}

func (s *fakeAchievementStore) ListRecords(_ context.Context, userID primitive.ObjectID) ([]models.AchievementRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []models.AchievementRecord
	for _, record := range s.records[userID] {
		records = append(records, record)
	}
	return records, nil
}

type fakeAlertStore struct {
	mu     sync.Mutex
	alerts []*models.LowMoodAlert
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{}
}

func (s *fakeAlertStore) InsertAlert(_ context.Context, alert *models.LowMoodAlert) (*models.LowMoodAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.alerts {
		if existing.EntryID == alert.EntryID && existing.FriendID == alert.FriendID {
			return nil, repository.ErrDuplicateKey
		}
	}

	stored := *alert
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	s.alerts = append(s.alerts, &stored)

	result := stored
	return &result, nil
}

func (s *fakeAlertStore) HasOpenAlert(_ context.Context, userID, friendID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, alert := range s.alerts {
		if alert.UserID == userID && alert.FriendID == friendID && !alert.Recovered {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAlertStore) ListOpenAlerts(_ context.Context, userID primitive.ObjectID) ([]models.LowMoodAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open []models.LowMoodAlert
	for _, alert := range s.alerts {
		if alert.UserID == userID && !alert.Recovered {
			open = append(open, *alert)
		}
	}
	return open, nil
}

func (s *fakeAlertStore) MarkRecovered(_ context.Context, userID, friendID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flipped int64
	for _, alert := range s.alerts {
		if alert.UserID == userID && alert.FriendID == friendID && !alert.Recovered {
			alert.Recovered = true
			alert.RecoveredAt = time.Now()
			flipped++
		}
	}
	return flipped, nil
}

func (s *fakeAlertStore) countAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []*models.Notification

	// failTypes simulates delivery failures per notification type; the
	// value is decremented per attempt so retries can eventually succeed.
	failTypes map[string]int
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{failTypes: make(map[string]int)}
}

func (s *fakeNotificationStore) CreateNotification(_ context.Context, notif *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if remaining, ok := s.failTypes[notif.Type]; ok && remaining != 0 {
		if remaining > 0 {
			s.failTypes[notif.Type] = remaining - 1
		}
		return errors.New("storage hiccup")
	}

	stored := *notif
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	stored.ExpiresAt = stored.CreatedAt.Add(30 * 24 * time.Hour)
	s.notifications = append(s.notifications, &stored)
	return nil
}

func (s *fakeNotificationStore) GetUserNotifications(_ context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			all = append(all, *s.notifications[i])
		}
	}

	start := (page - 1) * limit
	if start >= int64(len(all)) {
		return nil, nil
	}
	end := start + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[start:end], nil
}

func (s *fakeNotificationStore) GetNotificationsSince(_ context.Context, userID primitive.ObjectID, since time.Time) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Notification
	for _, notif := range s.notifications {
		if notif.UserID == userID && notif.CreatedAt.After(since) {
			result = append(result, *notif)
		}
	}
	return result, nil
}

func (s *fakeNotificationStore) CountUnread(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, notif := range s.notifications {
		if notif.UserID == userID && !notif.Read {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, notif := range s.notifications {
		if notif.ID == id {
			notif.Read = true
		}
	}
	return nil
}

func (s *fakeNotificationStore) MarkAllAsRead(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for _, notif := range s.notifications {
		if notif.UserID == userID && !notif.Read {
			notif.Read = true
			updated++
		}
	}
	return updated, nil
}

func (s *fakeNotificationStore) GetNotificationByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, notif := range s.notifications {
		if notif.ID == id {
			result := *notif
			return &result, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeNotificationStore) GetLatestNotificationByType(_ context.Context, userID primitive.ObjectID, notifType string) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID && s.notifications[i].Type == notifType {
			result := *s.notifications[i]
			return &result, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeNotificationStore) DeleteNotification(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, notif := range s.notifications {
		if notif.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeNotificationStore) DeleteExpiredNotifications(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	kept := s.notifications[:0]
	for _, notif := range s.notifications {
		if notif.ExpiresAt.After(now) {
			kept = append(kept, notif)
		}
	}
	s.notifications = kept
	return nil
}

// byType returns the user's notifications of one type.
func (s *fakeNotificationStore) byType(userID primitive.ObjectID, notifType string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Notification
	for _, notif := range s.notifications {
		if notif.UserID == userID && notif.Type == notifType {
			result = append(result, *notif)
		}
	}
	return result
}

type fakeUserReader struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserReader(users ...*models.User) *fakeUserReader {
	r := &fakeUserReader{users: make(map[primitive.ObjectID]*models.User)}
	for _, user := range users {
		r.users[user.ID] = user
	}
	return r
}

func (r *fakeUserReader) add(user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *fakeUserReader) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	result := *user
	return &result, nil
}

type fakeFriendReader struct {
	mu      sync.Mutex
	friends map[primitive.ObjectID][]primitive.ObjectID
}

func newFakeFriendReader() *fakeFriendReader {
	return &fakeFriendReader{friends: make(map[primitive.ObjectID][]primitive.ObjectID)}
}

func (r *fakeFriendReader) set(userID primitive.ObjectID, friends ...primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.friends[userID] = friends
}

func (r *fakeFriendReader) GetFriendIDs(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]primitive.ObjectID(nil), r.friends[userID]...), nil
}

type fakeActivityLogger struct {
	mu     sync.Mutex
	events []models.Activity
}

func (l *fakeActivityLogger) LogActivity(_ context.Context, activity *models.Activity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, *activity)
	return nil
}

type fakeMessageCounter struct{ count int64 }

func (c *fakeMessageCounter) CountMessagesBySender(context.Context, primitive.ObjectID) (int64, error) {
	return c.count, nil
}

type fakePostCounter struct{ count int64 }

func (c *fakePostCounter) CountPostsByAuthor(context.Context, primitive.ObjectID) (int64, error) {
	return c.count, nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/mindwell-app/mindwell/internal/services"
	"github.com/mindwell-app/mindwell/pkg/logger"
	"github.com/mindwell-app/mindwell/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckInHandler manages the daily mood check-in endpoints.
type CheckInHandler struct {
	Service *services.CheckInService
}

func NewCheckInHandler(service *services.CheckInService) *CheckInHandler {
	return &CheckInHandler{Service: service}
}

type checkInResponse struct {
	Entry           *models.MoodEntry              `json:"entry"`
	NewAchievements []models.AchievementDefinition `json:"new_achievements"`
}

// CheckInHandler handles POST /checkins.
func (h *CheckInHandler) CheckInHandler(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r)
}

// UpdateTodayHandler handles PUT /checkins/today. Converges to the same
// upsert as POST.
func (h *CheckInHandler) UpdateTodayHandler(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r)
}

func (h *CheckInHandler) submit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input services.CheckInInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	entry, unlocked, err := h.Service.CheckIn(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidScore) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("Check-in failed")
		http.Error(w, "Failed to record check-in", http.StatusInternalServerError)
		return
	}

	if unlocked == nil {
		unlocked = []models.AchievementDefinition{}
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id":  claims.UserID,
		"date_key": entry.DateKey,
		"score":    entry.Score,
	}).Info("Check-in recorded")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(checkInResponse{Entry: entry, NewAchievements: unlocked})
}

// GetTodayHandler handles GET /checkins/today.
func (h *CheckInHandler) GetTodayHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	entry, err := h.Service.GetTodayEntry(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "No check-in today", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("Failed to load today's entry")
		http.Error(w, "Failed to load entry", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// GetHistoryHandler handles GET /checkins?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *CheckInHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	entries, err := h.Service.GetHistory(r.Context(), userID, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load mood history")
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.MoodEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// GetStatsHandler handles GET /stats.
func (h *CheckInHandler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	summary, err := h.Service.StatsSummary(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to build stats summary")
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

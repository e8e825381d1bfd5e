package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/services"
	"github.com/mindwell-app/mindwell/pkg/logger"
	"github.com/mindwell-app/mindwell/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AchievementHandler struct {
	Service *services.AchievementService
}

func NewAchievementHandler(service *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{Service: service}
}

// GET /achievements — the user's earned achievements plus total XP.
func (h *AchievementHandler) GetUserAchievementsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	achievements, totalXP, err := h.Service.GetUserAchievements(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch achievements: %v", err)
		http.Error(w, "Failed to get achievements", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"achievements": achievements,
		"total_xp":     totalXP,
	})
}

// GET /achievements/catalog — the full static catalog with tiers.
func (h *AchievementHandler) GetCatalogHandler(w http.ResponseWriter, r *http.Request) {
	type catalogEntry struct {
		models.AchievementDefinition
		Tier string `json:"tier"`
	}

	catalog := h.Service.Catalog()
	entries := make([]catalogEntry, 0, len(catalog))
	for _, def := range catalog {
		entries = append(entries, catalogEntry{AchievementDefinition: def, Tier: def.Tier()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

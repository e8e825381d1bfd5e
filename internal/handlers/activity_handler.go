package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mindwell-app/mindwell/internal/services"
	"github.com/mindwell-app/mindwell/pkg/logger"
	"github.com/mindwell-app/mindwell/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// GET /activity?limit=50
func (h *ActivityHandler) GetUserActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	activities, err := h.Service.GetUserActivities(r.Context(), userID, limit)
	if err != nil {
		logger.Log.Errorf("Failed to fetch activities: %v", err)
		http.Error(w, "Failed to get activity feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(activities)
}

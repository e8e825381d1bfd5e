package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mindwell-app/mindwell/internal/services"
	"github.com/mindwell-app/mindwell/pkg/logger"
	"github.com/mindwell-app/mindwell/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatHandler struct {
	Service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{Service: service}
}

// POST /messages/{id} — send a message to friend {id}.
func (h *ChatHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	receiverID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	senderID, _ := primitive.ObjectIDFromHex(claims.UserID)

	msg, err := h.Service.SendMessage(r.Context(), senderID, receiverID, body.Text)
	if err != nil {
		if errors.Is(err, services.ErrNotFriends) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		logger.Log.Errorf("Failed to send message: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// GET /messages/{id} — the conversation with friend {id}.
func (h *ChatHandler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	friendID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	messages, err := h.Service.GetChat(r.Context(), userID, friendID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch chat: %v", err)
		http.Error(w, "Failed to get chat", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

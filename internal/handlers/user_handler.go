package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mindwell-app/mindwell/internal/config"
	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/mindwell-app/mindwell/internal/services"
	jwtutil "github.com/mindwell-app/mindwell/pkg/jwt"
	"github.com/mindwell-app/mindwell/pkg/logger"
	"github.com/mindwell-app/mindwell/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler manages account endpoints.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{Service: service, Config: cfg}
}

// RegisterUserHandler handles POST /users/register.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user := &models.User{
		Username:       body.Username,
		Email:          body.Email,
		HashedPassword: body.Password,
	}

	created, err := h.Service.RegisterUser(r.Context(), user)
	if err != nil {
		logger.Log.Warnf("Registration failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.PublicUser{
		ID:       created.ID,
		Username: created.Username,
		Email:    created.Email,
	})
}

// LoginUserHandler handles POST /users/login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Service.AuthenticateUser(r.Context(), body.Email, body.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		logger.Log.Errorf("Failed to generate token: %v", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// VerifyEmailHandler handles GET /users/verify?token=...
func (h *UserHandler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	if err := h.Service.VerifyEmail(r.Context(), token); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Email verified"})
}

// GetUserHandler handles GET /users/{id}.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Log.Errorf("Failed to fetch user: %v", err)
		http.Error(w, "Failed to get user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.PublicUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// UpdateUserHandler handles PATCH /users/{id}. Users can only update their
// own profile.
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	if claims.UserID != vars["id"] {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	if err := h.Service.UpdateProfile(r.Context(), userID, body.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Profile updated"})
}

// AdminGetAllUsersHandler handles GET /admin/users.
func (h *UserHandler) AdminGetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAllUsers(r.Context())
	if err != nil {
		logger.Log.Errorf("Failed to fetch users: %v", err)
		http.Error(w, "Failed to get users", http.StatusInternalServerError)
		return
	}

	publicUsers := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		publicUsers = append(publicUsers, models.PublicUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(publicUsers)
}

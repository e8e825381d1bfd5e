package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/mindwell-app/mindwell/pkg/email"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo    *repository.UserRepository
	baseURL string
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository, baseURL string) *UserService {
	return &UserService{
		repo:    repo,
		baseURL: baseURL,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	logrus.Info("Registering new user")

	if user.Email == "" || user.Username == "" || user.HashedPassword == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("missing required user fields")
	}

	if !emailRegex.MatchString(user.Email) {
		logrus.WithField("email", user.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("invalid email format")
	}

	// Check if the email is already registered
	existingUser, _ := s.repo.GetUserByEmail(ctx, user.Email)
	if existingUser != nil {
		logrus.WithField("email", user.Email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	// Hash the user's password.
	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(user.HashedPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user.HashedPassword = string(hashedPwd)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if user.Role == "" {
		user.Role = "user"
	}

	user.VerifyToken = uuid.NewString()
	user.IsVerified = false

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	verificationLink := fmt.Sprintf("%s/users/verify?token=%s", s.baseURL, createdUser.VerifyToken)
	if err := email.SendVerificationEmail(user.Email, verificationLink); err != nil {
		// Verification can be re-sent; do not fail the registration.
		logrus.WithError(err).Error("Failed to send verification email")
	}

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID.Hex(),
		"role":   createdUser.Role,
	}).Info("User registered successfully")

	return createdUser, nil
}

// VerifyEmail flips the user's verified flag for a valid token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetUserByVerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("invalid verification token")
		}
		return fmt.Errorf("failed to verify email: %v", err)
	}

	update := bson.M{"is_verified": true, "verify_token": ""}
	if err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to verify email: %v", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("Email verified")
	return nil
}

// AuthenticateUser checks the credentials and returns the user on success.
func (s *UserService) AuthenticateUser(ctx context.Context, emailAddr, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		logrus.WithField("email", emailAddr).Warn("Login attempt for unknown email")
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("userID", user.ID.Hex()).Warn("Login attempt with wrong password")
		return nil, fmt.Errorf("invalid credentials")
	}

	return user, nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	return s.repo.UpdateUser(ctx, id, bson.M{"username": username})
}

// UpdateLastActive stamps the user's last activity time.
func (s *UserService) UpdateLastActive(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.UpdateLastActive(ctx, id)
}

// GetAllUsers returns every user, for the admin listing.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendService handles business logic for managing friendships. Accepted
// friendships form the support circle the notifier fans out to.
type FriendService struct {
	friendRepo *repository.FriendRepository
	userRepo   *repository.UserRepository
	notifier   *NotificationService
}

// NewFriendService creates a new FriendService.
func NewFriendService(friendRepo *repository.FriendRepository, userRepo *repository.UserRepository, notifier *NotificationService) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// SendFriendRequest creates a new friend request and notifies the receiver.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("cannot send a friend request to yourself")
	}

	if _, err := s.userRepo.GetUserByID(ctx, receiverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to resolve receiver: %v", err)
	}

	if existing, err := s.friendRepo.GetPendingBetween(ctx, senderID, receiverID); err == nil && existing != nil {
		return nil, fmt.Errorf("a pending request already exists")
	}

	request := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     "pending",
	}

	created, err := s.friendRepo.CreateRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	sender := "Someone"
	if u, err := s.userRepo.GetUserByID(ctx, senderID); err == nil {
		sender = u.Username
	}
	if err := s.notifier.CreateNotification(ctx, receiverID, models.NotifFriendRequest,
		"New friend request",
		fmt.Sprintf("%s wants to join your support circle.", sender),
		&created.ID,
	); err != nil {
		logrus.WithError(err).Warn("Failed to send friend request notification")
	}

	return created, nil
}

// GetPendingRequests fetches all pending requests for the receiver.
func (s *FriendService) GetPendingRequests(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.friendRepo.GetRequestsByReceiver(ctx, receiverID)
}

// RespondToRequest updates a friend request's status and updates user friend
// lists if accepted. Accepting notifies the original sender.
func (s *FriendService) RespondToRequest(ctx context.Context, requestID primitive.ObjectID, accept bool) error {
	request, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("could not find request: %v", err)
	}

	if request.Status != "pending" {
		return fmt.Errorf("request already responded to")
	}

	status := "rejected"
	if accept {
		status = "accepted"
	}

	if err := s.friendRepo.UpdateRequestStatus(ctx, requestID, status); err != nil {
		return err
	}

	if accept {
		// Update both users' friend lists
		if err := s.userRepo.AddFriend(ctx, request.SenderID, request.ReceiverID); err != nil {
			return fmt.Errorf("failed to add friend to sender: %v", err)
		}
		if err := s.userRepo.AddFriend(ctx, request.ReceiverID, request.SenderID); err != nil {
			return fmt.Errorf("failed to add friend to receiver: %v", err)
		}

		receiver := "Your friend request"
		if u, err := s.userRepo.GetUserByID(ctx, request.ReceiverID); err == nil {
			receiver = u.Username
		}
		if err := s.notifier.CreateNotification(ctx, request.SenderID, models.NotifFriendAccepted,
			"Friend request accepted",
			fmt.Sprintf("%s accepted your friend request. You're now part of each other's support circle.", receiver),
			&request.ID,
		); err != nil {
			logrus.WithError(err).Warn("Failed to send friend accepted notification")
		}
	}

	return nil
}

// GetFriends returns the user's accepted friends as public profiles.
func (s *FriendService) GetFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	friendIDs, err := s.userRepo.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend IDs: %v", err)
	}

	if len(friendIDs) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, friendIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}

	publicFriends := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		publicFriends = append(publicFriends, models.PublicUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}

	return publicFriends, nil
}

// RemoveFriend drops the friendship from both sides.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	return s.userRepo.RemoveFriend(ctx, userID, friendID)
}

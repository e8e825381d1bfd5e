package services

import (
	"context"
	"fmt"

	"github.com/mindwell-app/mindwell/internal/models"
	"github.com/mindwell-app/mindwell/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatService handles direct messages between friends. Delivery is
// pull-based; each message also lands in the receiver's notification ledger.
type ChatService struct {
	chatRepo *repository.ChatRepository
	userRepo *repository.UserRepository
	notifier *NotificationService
}

func NewChatService(chatRepo *repository.ChatRepository, userRepo *repository.UserRepository, notifier *NotificationService) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// SendMessage stores a message between accepted friends and notifies the
// receiver.
func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, text string) (*models.Message, error) {
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}

	friendIDs, err := s.userRepo.GetFriendIDs(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %v", err)
	}
	isFriend := false
	for _, id := range friendIDs {
		if id == receiverID {
			isFriend = true
			break
		}
	}
	if !isFriend {
		return nil, ErrNotFriends
	}

	msg, err := s.chatRepo.SendMessage(ctx, &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	})
	if err != nil {
		return nil, err
	}

	sender := "A friend"
	if u, err := s.userRepo.GetUserByID(ctx, senderID); err == nil {
		sender = u.Username
	}
	if err := s.notifier.CreateNotification(ctx, receiverID, models.NotifNewMessage,
		"New message",
		fmt.Sprintf("%s sent you a message.", sender),
		&msg.ID,
	); err != nil {
		logrus.WithError(err).Warn("Failed to send new-message notification")
	}

	return msg, nil
}

// GetChat returns the conversation with a friend, oldest first.
func (s *ChatService) GetChat(ctx context.Context, userID, friendID primitive.ObjectID) ([]models.Message, error) {
	return s.chatRepo.GetChat(ctx, userID, friendID)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/aidostt/wanderstay/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ChatService encapsulates guest-host messaging. Sending a message is an
// activity call site (message_sent) and notifies the recipient, including a
// realtime push through the notification service's publisher.
type ChatService struct {
	repo          repository.ChatStore
	users         repository.UserStore
	listings      repository.ListingStore
	activities    *ActivityService
	notifications *NotificationService
}

// NewChatService creates a new instance of ChatService.
func NewChatService(
	repo repository.ChatStore,
	users repository.UserStore,
	listings repository.ListingStore,
	activities *ActivityService,
	notifications *NotificationService,
) *ChatService {
	return &ChatService{
		repo:          repo,
		users:         users,
		listings:      listings,
		activities:    activities,
		notifications: notifications,
	}
}

// SendMessage delivers a message from sender to recipient about a listing,
// creating the conversation on first contact.
func (s *ChatService) SendMessage(ctx context.Context, senderID, recipientID, listingID primitive.ObjectID, content string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}
	if senderID == recipientID {
		return nil, fmt.Errorf("cannot message yourself")
	}

	if _, err := s.listings.GetListingByID(ctx, listingID); err != nil {
		return nil, fmt.Errorf("listing not found: %v", err)
	}

	conv, err := s.repo.FindConversation(ctx, senderID, recipientID, listingID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to look up conversation: %v", err)
		}
		conv, err = s.repo.CreateConversation(ctx, &models.Conversation{
			Participants: []primitive.ObjectID{senderID, recipientID},
			ListingID:    listingID,
		})
		if err != nil {
			return nil, err
		}
	}

	msg, err := s.repo.InsertMessage(ctx, &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
	})
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to send message")
		return nil, fmt.Errorf("failed to send message: %v", err)
	}

	// Recipient name is display metadata only.
	recipientName := "someone"
	recipient, err := s.users.GetUserByID(ctx, recipientID)
	if err == nil {
		if recipient.FullName != "" {
			recipientName = recipient.FullName
		} else if recipient.Email != "" {
			recipientName = recipient.Email
		}
	}

	_, err = s.activities.Record(ctx, senderID, models.ActivityMessageSent,
		msg.ID, models.TargetMessage, bson.M{
			"recipientName": recipientName,
		})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to record message_sent activity")
	}

	err = s.notifications.Notify(ctx, recipientID, "new_message",
		"New Message",
		"You have a new message",
		bson.M{"message_id": msg.ID, "conversation_id": conv.ID, "sender_id": senderID})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to notify recipient of new message")
	}

	return msg, nil
}

// GetConversations returns the user's conversations, most recent first.
func (s *ChatService) GetConversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	return s.repo.GetConversationsByUser(ctx, userID)
}

// GetMessages returns a conversation's messages, provided the caller is a
// participant.
func (s *ChatService) GetMessages(ctx context.Context, conversationID, userID primitive.ObjectID, limit int64) ([]models.Message, error) {
	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	participant := false
	for _, p := range conv.Participants {
		if p == userID {
			participant = true
			break
		}
	}
	if !participant {
		return nil, fmt.Errorf("not a participant of this conversation")
	}

	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetMessages(ctx, conversationID, limit)
}

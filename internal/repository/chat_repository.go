package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository handles conversations and their messages.
type ChatRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// NewChatRepository creates a new instance of ChatRepository.
func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// FindConversation looks up the conversation between two users about a
// listing. Returns mongo.ErrNoDocuments wrapped when none exists.
func (r *ChatRepository) FindConversation(ctx context.Context, userA, userB, listingID primitive.ObjectID) (*models.Conversation, error) {
	filter := bson.M{
		"participants": bson.M{"$all": []primitive.ObjectID{userA, userB}},
		"listing_id":   listingID,
	}

	var conv models.Conversation
	err := r.conversations.FindOne(ctx, filter).Decode(&conv)
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return &conv, nil
}

// CreateConversation inserts a new conversation.
func (r *ChatRepository) CreateConversation(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt
	conv.LastMessageAt = conv.CreatedAt

	result, err := r.conversations.InsertOne(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("failed to insert conversation: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	conv.ID = insertedID

	return conv, nil
}

// GetConversationByID retrieves a conversation by its ID.
func (r *ChatRepository) GetConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %v", err)
	}
	return &conv, nil
}

// GetConversationsByUser returns a user's conversations, most recent first.
func (r *ChatRepository) GetConversationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %v", err)
	}
	defer cursor.Close(ctx)

	var convs []models.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %v", err)
	}
	return convs, nil
}

// InsertMessage appends a message and bumps the conversation's last-message
// bookkeeping.
func (r *ChatRepository) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.CreatedAt = time.Now()

	result, err := r.messages.InsertOne(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	msg.ID = insertedID

	_, err = r.conversations.UpdateOne(
		ctx,
		bson.M{"_id": msg.ConversationID},
		bson.M{"$set": bson.M{
			"last_message_id": msg.ID,
			"last_message_at": msg.CreatedAt,
			"updated_at":      msg.CreatedAt,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update conversation: %v", err)
	}

	return msg, nil
}

// GetMessages returns a conversation's messages, newest first.
func (r *ChatRepository) GetMessages(ctx context.Context, conversationID primitive.ObjectID, limit int64) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.messages.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}
	return messages, nil
}

// GetMessageSummaries fetches the feed projection for a batch of messages.
func (r *ChatRepository) GetMessageSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.MessageSummary, error) {
	if len(ids) == 0 {
		return []models.MessageSummary{}, nil
	}

	opts := options.Find().SetProjection(bson.M{"conversation_id": 1})
	cursor, err := r.messages.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message summaries: %v", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.MessageSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode message summaries: %v", err)
	}
	return summaries, nil
}

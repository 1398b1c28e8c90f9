package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aidostt/wanderstay/internal/services"
	"github.com/aidostt/wanderstay/pkg/logger"
	"github.com/aidostt/wanderstay/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler manages HTTP requests for guest-host messaging.
type ChatHandler struct {
	Service *services.ChatService
}

// NewChatHandler initializes a new ChatHandler.
func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{Service: service}
}

// SendMessageHandler delivers a message from the caller to another user.
func (h *ChatHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		RecipientID string `json:"recipient_id"`
		ListingID   string `json:"listing_id"`
		Content     string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	senderID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	recipientID, err := primitive.ObjectIDFromHex(input.RecipientID)
	if err != nil {
		http.Error(w, "Invalid recipient ID", http.StatusBadRequest)
		return
	}
	listingID, err := primitive.ObjectIDFromHex(input.ListingID)
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	message, err := h.Service.SendMessage(r.Context(), senderID, recipientID, listingID, input.Content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		logger.Log.Warnf("Failed to send message: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(message)
}

// GetConversationsHandler lists the caller's conversations.
func (h *ChatHandler) GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	conversations, err := h.Service.GetConversations(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get conversations", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to get conversations for %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(conversations)
}

// GetMessagesHandler returns messages from one of the caller's conversations.
func (h *ChatHandler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	conversationID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
	}

	messages, err := h.Service.GetMessages(r.Context(), conversationID, userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		logger.Log.Warnf("Failed to get messages: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

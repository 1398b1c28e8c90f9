package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aidostt/wanderstay/internal/services"
	"github.com/aidostt/wanderstay/pkg/logger"
	"github.com/aidostt/wanderstay/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowHandler manages HTTP endpoints for the social graph.
type FollowHandler struct {
	Service *services.FollowService
}

// NewFollowHandler initializes a new FollowHandler.
func NewFollowHandler(service *services.FollowService) *FollowHandler {
	return &FollowHandler{Service: service}
}

// FollowUserHandler lets the caller follow another user.
func (h *FollowHandler) FollowUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to follow")
		return
	}

	vars := mux.Vars(r)
	followeeID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	followerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	follow, err := h.Service.Follow(r.Context(), followerID, followeeID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		logger.Log.Warnf("Failed to follow: %v", err)
		return
	}

	logger.Log.Infof("User %s followed %s", claims.UserID, vars["id"])
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(follow)
}

// UnfollowUserHandler removes the caller's follow edge.
func (h *FollowHandler) UnfollowUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	followeeID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	followerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Unfollow(r.Context(), followerID, followeeID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		logger.Log.Warnf("Failed to unfollow: %v", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Unfollowed"})
}

// GetFollowersHandler lists everyone following the caller.
func (h *FollowHandler) GetFollowersHandler(w http.ResponseWriter, r *http.Request) {
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

	followers, err := h.Service.GetFollowers(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get followers", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to get followers for %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(followers)
}

// GetFollowingHandler lists everyone the caller follows.
func (h *FollowHandler) GetFollowingHandler(w http.ResponseWriter, r *http.Request) {
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

	following, err := h.Service.GetFollowing(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get following", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to get following for %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(following)
}

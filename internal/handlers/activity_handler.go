package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/services"
	"github.com/aidostt/wanderstay/pkg/logger"
	"github.com/aidostt/wanderstay/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityHandler serves the activity feed and per-user activity listings.
type ActivityHandler struct {
	Feed *services.FeedService
	Svc  *services.UserService
}

// NewActivityHandler initializes a new ActivityHandler.
func NewActivityHandler(feed *services.FeedService, userService *services.UserService) *ActivityHandler {
	return &ActivityHandler{Feed: feed, Svc: userService}
}

type feedItemResponse struct {
	ID        primitive.ObjectID     `json:"id"`
	Type      models.ActivityType    `json:"type"`
	Actor     models.UserSummary     `json:"actor"`
	Target    *models.ResolvedTarget `json:"target"`
	Metadata  interface{}            `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
	TimeAgo   string                 `json:"time_ago"`
}

type feedResponse struct {
	Activities []feedItemResponse `json:"activities"`
	Page       int                `json:"page"`
	HasMore    bool               `json:"has_more"`
}

// GetFeedHandler returns one page of the authenticated viewer's feed.
func (h *ActivityHandler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to read feed")
		return
	}

	viewerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	page, limit, err := parsePagination(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	feedPage, err := h.Feed.GetFeedForUser(r.Context(), viewerID, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Unable to load feed", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to load feed for user %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(renderFeedPage(feedPage))
}

// GetUserActivitiesHandler returns one page of activities authored by a
// specific user. The profile privacy gate lives here, before the feed
// service is invoked.
func (h *ActivityHandler) GetUserActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())

	// Anonymous viewers carry the zero ID; the gate below applies the
	// configured policy to them.
	var viewerID primitive.ObjectID
	if claims != nil {
		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		viewerID = id
	}

	vars := mux.Vars(r)
	subjectID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	subject, err := h.Svc.GetUser(r.Context(), vars["id"])
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if !h.Feed.CanViewProfile(r.Context(), viewerID, subject) {
		http.Error(w, "Private profile", http.StatusForbidden)
		logger.Log.Infof("Blocked activity listing of private user %s", subjectID.Hex())
		return
	}

	page, limit, err := parsePagination(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	feedPage, err := h.Feed.GetActivitiesForUser(r.Context(), subjectID, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Unable to load activities", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to load activities of user %s: %v", subjectID.Hex(), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(renderFeedPage(feedPage))
}

func renderFeedPage(page *models.FeedPage) feedResponse {
	items := make([]feedItemResponse, 0, len(page.Items))
	for i := range page.Items {
		item := page.Items[i]
		items = append(items, feedItemResponse{
			ID:        item.ID,
			Type:      item.Type,
			Actor:     item.Actor,
			Target:    &item.Target,
			Metadata:  item.Metadata,
			CreatedAt: item.CreatedAt,
			TimeAgo:   timeAgo(item.CreatedAt),
		})
	}
	return feedResponse{
		Activities: items,
		Page:       page.Page,
		HasMore:    page.HasMore,
	}
}

// parsePagination reads page and limit query params. Page must be >= 1;
// limit is clamped by the feed service.
func parsePagination(r *http.Request) (int, int, error) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = parsed
	}

	limit := services.FeedDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("limit must be an integer")
		}
		limit = parsed
	}

	return page, limit, nil
}

// timeAgo renders a relative timestamp for feed display.
func timeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("Jan 2, 2006")
}

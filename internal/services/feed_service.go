package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// FeedDefaultLimit is the page size when the caller does not specify one.
	FeedDefaultLimit = 20

	// FeedMaxLimit caps the page size.
	FeedMaxLimit = 100
)

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = fmt.Errorf("page must be >= 1")

// FeedService assembles the activity feed: fan-out over the viewer's social
// graph, batched target resolution and the per-activity privacy filter.
type FeedService struct {
	activities repository.ActivityStore
	follows    repository.FollowGraph
	users      repository.UserStore
	resolver   TargetResolver

	// allowAnonymous exposes public actors' activities to unauthenticated
	// viewers. Off by default: the feed requires login.
	allowAnonymous bool
}

// NewFeedService creates a new instance of FeedService.
func NewFeedService(
	activities repository.ActivityStore,
	follows repository.FollowGraph,
	users repository.UserStore,
	resolver TargetResolver,
	allowAnonymous bool,
) *FeedService {
	return &FeedService{
		activities:     activities,
		follows:        follows,
		users:          users,
		resolver:       resolver,
		allowAnonymous: allowAnonymous,
	}
}

// ClampLimit normalizes a requested page size to the documented bounds.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return FeedDefaultLimit
	}
	if limit > FeedMaxLimit {
		return FeedMaxLimit
	}
	return limit
}

// GetFeedForUser returns one page of the viewer's feed: activities by the
// users the viewer follows plus the viewer's own, newest first.
//
// HasMore is computed from the raw row count before privacy filtering, so a
// page filtered away entirely still reports more data. Deliberately loose;
// see FeedPage.
func (s *FeedService) GetFeedForUser(ctx context.Context, viewerID primitive.ObjectID, page, limit int) (*models.FeedPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	limit = ClampLimit(limit)

	start := time.Now()

	followees, err := s.follows.GetFolloweeIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load followees: %v", err)
	}
	fanout := append(followees, viewerID)

	skip := int64((page - 1) * limit)
	activities, err := s.activities.GetActivitiesByActors(ctx, fanout, skip, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %v", err)
	}

	// Privacy filtering happens below even though actors are already
	// "followed or self": a followee may have gone private after the
	// fan-out set was computed. Defense in depth.
	items := s.assemble(ctx, viewerID, activities, true)

	logrus.WithFields(logrus.Fields{
		"viewer_id": viewerID.Hex(),
		"page":      page,
		"raw":       len(activities),
		"visible":   len(items),
		"duration":  time.Since(start).String(),
	}).Info("Feed page assembled")

	return &models.FeedPage{
		Items:   items,
		Page:    page,
		HasMore: len(activities) == limit,
	}, nil
}

// GetActivitiesForUser returns one page of activities authored by a single
// user, for a profile's activity tab. The caller must have verified that the
// viewer may see the subject's activities at all; this method resolves and
// paginates only.
func (s *FeedService) GetActivitiesForUser(ctx context.Context, subjectID primitive.ObjectID, page, limit int) (*models.FeedPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	limit = ClampLimit(limit)

	skip := int64((page - 1) * limit)
	activities, err := s.activities.GetActivitiesByActor(ctx, subjectID, skip, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %v", err)
	}

	items := s.assemble(ctx, subjectID, activities, false)

	return &models.FeedPage{
		Items:   items,
		Page:    page,
		HasMore: len(activities) == limit,
	}, nil
}

// CanViewProfile is the gate callers apply before GetActivitiesForUser:
// self, any viewer for a public subject (anonymous only when the policy
// allows), followers for a private one. Graph errors fail closed.
func (s *FeedService) CanViewProfile(ctx context.Context, viewerID primitive.ObjectID, subject *models.User) bool {
	return s.isVisible(ctx, viewerID, subject, nil)
}

// assemble turns raw activity rows into feed items: batch-fetch actors,
// batch-resolve targets, then apply the privacy filter per row when asked.
func (s *FeedService) assemble(ctx context.Context, viewerID primitive.ObjectID, activities []models.Activity, applyPrivacy bool) []models.FeedItem {
	items := make([]models.FeedItem, 0, len(activities))
	if len(activities) == 0 {
		return items
	}

	actorSet := make(map[primitive.ObjectID]struct{})
	refs := make([]models.TargetRef, 0, len(activities))
	for _, a := range activities {
		actorSet[a.ActorID] = struct{}{}
		refs = append(refs, models.TargetRef{ID: a.TargetID, Kind: a.TargetKind})
	}

	actorIDs := make([]primitive.ObjectID, 0, len(actorSet))
	for id := range actorSet {
		actorIDs = append(actorIDs, id)
	}

	actors := make(map[primitive.ObjectID]models.User, len(actorIDs))
	users, err := s.users.GetUsersByIDs(ctx, actorIDs)
	if err != nil {
		// Without actor records the privacy flag is unknown; fail closed by
		// returning nothing rather than leaking a private user's activity.
		logrus.WithError(err).Error("Failed to load feed actors, dropping page")
		return items
	}
	for _, u := range users {
		actors[u.ID] = u
	}

	resolved := s.resolver.ResolveBatch(ctx, refs)

	// Privacy decisions repeat per actor within a page, so memoize them.
	visibility := make(map[primitive.ObjectID]bool)

	for _, a := range activities {
		actor, ok := actors[a.ActorID]
		if !ok {
			// Deleted actor: neither display fields nor a privacy flag
			// remain, so the row is dropped.
			continue
		}

		if applyPrivacy && !s.isVisible(ctx, viewerID, &actor, visibility) {
			continue
		}

		target, ok := resolved[models.TargetRef{ID: a.TargetID, Kind: a.TargetKind}]
		if !ok {
			target = models.MissingTarget(a.TargetKind)
		}

		items = append(items, models.FeedItem{
			ID:   a.ID,
			Type: a.Type,
			Actor: models.UserSummary{
				ID:       actor.ID,
				FullName: actor.FullName,
				Avatar:   actor.Avatar,
			},
			Target:    target,
			Metadata:  a.Metadata,
			CreatedAt: a.CreatedAt,
		})
	}

	return items
}

// isVisible is the per-activity privacy predicate, evaluated at read time
// because an actor's privacy flag or the viewer's follow edges may have
// changed since the activity was written:
//
//  1. the actor always sees their own activity;
//  2. a public actor is visible to any authenticated viewer, and to
//     anonymous viewers only when the policy allows;
//  3. a private actor is visible only to followers.
//
// Social-graph lookup errors fail closed.
func (s *FeedService) isVisible(ctx context.Context, viewerID primitive.ObjectID, actor *models.User, memo map[primitive.ObjectID]bool) bool {
	if !viewerID.IsZero() && viewerID == actor.ID {
		return true
	}

	if !actor.IsPrivate {
		if viewerID.IsZero() {
			return s.allowAnonymous
		}
		return true
	}

	if viewerID.IsZero() {
		return false
	}

	if memo != nil {
		if visible, ok := memo[actor.ID]; ok {
			return visible
		}
	}

	following, err := s.follows.IsFollowing(ctx, viewerID, actor.ID)
	if err != nil {
		logrus.WithError(err).Warnf("Follow check failed for viewer %s and actor %s, hiding activity",
			viewerID.Hex(), actor.ID.Hex())
		following = false
	}

	if memo != nil {
		memo[actor.ID] = following
	}
	return following
}

package services

import (
	"context"
	"fmt"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/aidostt/wanderstay/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowCacheInvalidator drops a user's cached followee set after their
// follow edges change. Implemented by the Redis cache; nil when no cache is
// configured.
type FollowCacheInvalidator interface {
	Invalidate(ctx context.Context, userID primitive.ObjectID)
}

// FollowService manages the social graph's write path: edges, the
// denormalized counters, the user_followed activity and the follower
// notification.
type FollowService struct {
	repo          repository.FollowStore
	users         repository.UserStore
	activities    *ActivityService
	notifications *NotificationService
	cache         FollowCacheInvalidator
}

// NewFollowService creates a new instance of FollowService.
func NewFollowService(
	repo repository.FollowStore,
	users repository.UserStore,
	activities *ActivityService,
	notifications *NotificationService,
	cache FollowCacheInvalidator,
) *FollowService {
	return &FollowService{
		repo:          repo,
		users:         users,
		activities:    activities,
		notifications: notifications,
		cache:         cache,
	}
}

// Follow creates the edge from follower to followee. Counter updates use
// atomic increments and are not transactional with the edge write; they
// converge rather than being exact at every instant.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID primitive.ObjectID) (*models.Follow, error) {
	if followerID == followeeID {
		return nil, fmt.Errorf("cannot follow yourself")
	}

	followee, err := s.users.GetUserByID(ctx, followeeID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	follow, err := s.repo.CreateFollow(ctx, &models.Follow{
		FollowerID:  followerID,
		FollowingID: followeeID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.AdjustFollowCounts(ctx, followerID, 0, 1); err != nil {
		logger.Log.WithError(err).Warn("Failed to bump following count")
	}
	if err := s.users.AdjustFollowCounts(ctx, followeeID, 1, 0); err != nil {
		logger.Log.WithError(err).Warn("Failed to bump followers count")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, followerID)
	}

	followedName := "a user"
	if followee.FullName != "" {
		followedName = followee.FullName
	} else if followee.Email != "" {
		followedName = followee.Email
	}

	_, err = s.activities.Record(ctx, followerID, models.ActivityUserFollowed,
		followeeID, models.TargetUser, bson.M{
			"followedUserName": followedName,
		})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to record user_followed activity")
	}

	err = s.notifications.Notify(ctx, followeeID, "new_follower",
		"New Follower",
		"Someone started following you",
		bson.M{"follower_id": followerID})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to notify user of new follower")
	}

	return follow, nil
}

// Unfollow removes the edge and decrements both counters. No activity is
// recorded for unfollows.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	if err := s.repo.DeleteFollow(ctx, followerID, followeeID); err != nil {
		return err
	}

	if err := s.users.AdjustFollowCounts(ctx, followerID, 0, -1); err != nil {
		logger.Log.WithError(err).Warn("Failed to drop following count")
	}
	if err := s.users.AdjustFollowCounts(ctx, followeeID, -1, 0); err != nil {
		logger.Log.WithError(err).Warn("Failed to drop followers count")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, followerID)
	}

	return nil
}

// GetFollowing returns the public profiles of everyone the user follows.
func (s *FollowService) GetFollowing(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	followeeIDs, err := s.repo.GetFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followees: %v", err)
	}
	if len(followeeIDs) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.users.GetUsersByIDs(ctx, followeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}

	profiles := make([]models.PublicUser, 0, len(users))
	for i := range users {
		profiles = append(profiles, PublicProfile(&users[i]))
	}
	return profiles, nil
}

// GetFollowers returns the public profiles of everyone following the user.
func (s *FollowService) GetFollowers(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	followerIDs, err := s.repo.GetFollowerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %v", err)
	}
	if len(followerIDs) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.users.GetUsersByIDs(ctx, followerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}

	profiles := make([]models.PublicUser, 0, len(users))
	for i := range users {
		profiles = append(profiles, PublicProfile(&users[i]))
	}
	return profiles, nil
}

// IsFollowing reports whether follower follows followee.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID primitive.ObjectID) (bool, error) {
	return s.repo.IsFollowing(ctx, followerID, followeeID)
}

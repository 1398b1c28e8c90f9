package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockInvalidator struct {
	invalidated []primitive.ObjectID
}

func (m *mockInvalidator) Invalidate(ctx context.Context, userID primitive.ObjectID) {
	m.invalidated = append(m.invalidated, userID)
}

func TestFollow_RejectsSelfFollow(t *testing.T) {
	svc := NewFollowService(&mockFollowStore{}, &mockUserStore{}, nil, nil, nil)

	id := primitive.NewObjectID()
	_, err := svc.Follow(context.Background(), id, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yourself")
}

func TestFollow_CreatesEdgeCountersActivityAndInvalidation(t *testing.T) {
	follower := primitive.NewObjectID()
	followee := primitive.NewObjectID()

	repo := &mockFollowStore{
		CreateFollowFn: func(ctx context.Context, follow *models.Follow) (*models.Follow, error) {
			follow.ID = primitive.NewObjectID()
			return follow, nil
		},
	}

	type countAdjust struct {
		id                  primitive.ObjectID
		followers, following int
	}
	var adjusts []countAdjust
	users := &mockUserStore{
		GetUserByIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
			return &models.User{ID: id, FullName: "Dana"}, nil
		},
		AdjustFollowCountsFn: func(ctx context.Context, id primitive.ObjectID, followersDelta, followingDelta int) error {
			adjusts = append(adjusts, countAdjust{id, followersDelta, followingDelta})
			return nil
		},
	}

	var recorded []models.Activity
	invalidator := &mockInvalidator{}

	svc := NewFollowService(repo, users,
		NewActivityService(recordingActivityStore(&recorded)),
		silentNotifications(), invalidator)

	follow, err := svc.Follow(context.Background(), follower, followee)
	require.NoError(t, err)
	assert.Equal(t, follower, follow.FollowerID)
	assert.Equal(t, followee, follow.FollowingID)

	require.Len(t, adjusts, 2)
	assert.Contains(t, adjusts, countAdjust{follower, 0, 1})
	assert.Contains(t, adjusts, countAdjust{followee, 1, 0})

	require.Len(t, recorded, 1)
	assert.Equal(t, models.ActivityUserFollowed, recorded[0].Type)
	assert.Equal(t, follower, recorded[0].ActorID)
	assert.Equal(t, followee, recorded[0].TargetID)
	assert.Equal(t, models.TargetUser, recorded[0].TargetKind)
	assert.Equal(t, "Dana", recorded[0].Metadata["followedUserName"])

	assert.Equal(t, []primitive.ObjectID{follower}, invalidator.invalidated)
}

func TestFollow_UnknownFollowee(t *testing.T) {
	users := &mockUserStore{
		GetUserByIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
			return nil, fmt.Errorf("no documents")
		},
	}

	svc := NewFollowService(&mockFollowStore{}, users, nil, nil, nil)

	_, err := svc.Follow(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.Error(t, err)
}

func TestFollow_DuplicateEdgeSurfacesError(t *testing.T) {
	repo := &mockFollowStore{
		CreateFollowFn: func(ctx context.Context, follow *models.Follow) (*models.Follow, error) {
			return nil, fmt.Errorf("already following this user")
		},
	}
	users := &mockUserStore{
		GetUserByIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}

	svc := NewFollowService(repo, users, nil, nil, nil)

	_, err := svc.Follow(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already following")
}

func TestFollow_ActivityFailureDoesNotFailFollow(t *testing.T) {
	follower := primitive.NewObjectID()
	followee := primitive.NewObjectID()

	repo := &mockFollowStore{
		CreateFollowFn: func(ctx context.Context, follow *models.Follow) (*models.Follow, error) {
			return follow, nil
		},
	}
	users := &mockUserStore{
		GetUserByIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		AdjustFollowCountsFn: func(ctx context.Context, id primitive.ObjectID, followersDelta, followingDelta int) error {
			return nil
		},
	}
	failing := NewActivityService(&mockActivityStore{
		InsertActivityFn: func(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
			return nil, fmt.Errorf("activities collection unavailable")
		},
	})

	svc := NewFollowService(repo, users, failing, silentNotifications(), nil)

	_, err := svc.Follow(context.Background(), follower, followee)
	assert.NoError(t, err, "the follow itself must survive an activity write failure")
}

func TestUnfollow_DecrementsAndInvalidates(t *testing.T) {
	follower := primitive.NewObjectID()
	followee := primitive.NewObjectID()

	repo := &mockFollowStore{
		DeleteFollowFn: func(ctx context.Context, followerID, followingID primitive.ObjectID) error {
			return nil
		},
	}
	var adjusted int
	users := &mockUserStore{
		AdjustFollowCountsFn: func(ctx context.Context, id primitive.ObjectID, followersDelta, followingDelta int) error {
			adjusted++
			assert.True(t, followersDelta <= 0 && followingDelta <= 0)
			return nil
		},
	}
	invalidator := &mockInvalidator{}

	svc := NewFollowService(repo, users, nil, nil, invalidator)

	err := svc.Unfollow(context.Background(), follower, followee)
	require.NoError(t, err)
	assert.Equal(t, 2, adjusted)
	assert.Equal(t, []primitive.ObjectID{follower}, invalidator.invalidated)
}

func TestGetFollowers_ReturnsPublicProfiles(t *testing.T) {
	subject := primitive.NewObjectID()
	followerA := primitive.NewObjectID()
	followerB := primitive.NewObjectID()

	repo := &mockFollowStore{
		GetFollowerIDsFn: func(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
			assert.Equal(t, subject, userID)
			return []primitive.ObjectID{followerA, followerB}, nil
		},
	}
	users := &mockUserStore{
		GetUsersByIDsFn: func(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
			assert.ElementsMatch(t, []primitive.ObjectID{followerA, followerB}, ids)
			return []models.User{
				{ID: followerA, FullName: "Aigerim", HashedPassword: "secret"},
				{ID: followerB, FullName: "Nurlan"},
			}, nil
		},
	}

	svc := NewFollowService(repo, users, nil, nil, nil)

	followers, err := svc.GetFollowers(context.Background(), subject)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "Aigerim", followers[0].FullName)
}

func TestGetFollowers_NoFollowers(t *testing.T) {
	repo := &mockFollowStore{
		GetFollowerIDsFn: func(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
			return nil, nil
		},
	}

	svc := NewFollowService(repo, &mockUserStore{}, nil, nil, nil)

	followers, err := svc.GetFollowers(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestUnfollow_MissingEdge(t *testing.T) {
	repo := &mockFollowStore{
		DeleteFollowFn: func(ctx context.Context, followerID, followingID primitive.ObjectID) error {
			return fmt.Errorf("not following this user")
		},
	}

	svc := NewFollowService(repo, &mockUserStore{}, nil, nil, nil)

	err := svc.Unfollow(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.Error(t, err)
}

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

// FollowRepository stores the directed follow edges of the social graph.
type FollowRepository struct {
	collection *mongo.Collection
}

// NewFollowRepository creates a new instance of FollowRepository.
func NewFollowRepository(db *mongo.Database) *FollowRepository {
	return &FollowRepository{
		collection: db.Collection("follows"),
	}
}

// CreateFollow inserts a follow edge. The unique (follower, following) index
// makes a duplicate insert fail, which the service reports as already
// following.
func (r *FollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) (*models.Follow, error) {
	follow.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, follow)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("already following this user")
		}
		return nil, fmt.Errorf("failed to insert follow: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	follow.ID = insertedID

	return follow, nil
}

// DeleteFollow removes a follow edge.
func (r *FollowRepository) DeleteFollow(ctx context.Context, followerID, followingID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"follower_id":  followerID,
		"following_id": followingID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete follow: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("not following this user")
	}
	return nil
}

// GetFolloweeIDs returns all users the given user follows.
func (r *FollowRepository) GetFolloweeIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"following_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"follower_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followees: %v", err)
	}
	defer cursor.Close(ctx)

	var followees []primitive.ObjectID
	for cursor.Next(ctx) {
		var edge models.Follow
		if err := cursor.Decode(&edge); err != nil {
			return nil, err
		}
		followees = append(followees, edge.FollowingID)
	}

	return followees, nil
}

// IsFollowing reports whether a follow edge exists. Point lookup used by the
// privacy filter.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID primitive.ObjectID) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{
		"follower_id":  followerID,
		"following_id": followingID,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %v", err)
	}
	return true, nil
}

// GetFollowerIDs returns all users following the given user.
func (r *FollowRepository) GetFollowerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"follower_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"following_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followers: %v", err)
	}
	defer cursor.Close(ctx)

	var followers []primitive.ObjectID
	for cursor.Next(ctx) {
		var edge models.Follow
		if err := cursor.Decode(&edge); err != nil {
			return nil, err
		}
		followers = append(followers, edge.FollowerID)
	}

	return followers, nil
}

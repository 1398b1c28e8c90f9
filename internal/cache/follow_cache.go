package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	followeeKeyPrefix = "feed:followees:"
	followeeTTL       = 10 * time.Minute

	// emptyMarker keeps a set key alive for users who follow nobody, so an
	// empty followee list is still a cache hit.
	emptyMarker = "__none__"
)

// FollowGraphCache fronts the follow collection with a Redis set per user.
// Cache failures are never fatal: every error falls through to Mongo.
// IsFollowing deliberately bypasses the cache: the privacy filter must fail
// closed on fresh data, not on a stale set.
type FollowGraphCache struct {
	store repository.FollowStore
	rdb   *redis.Client
}

func NewFollowGraphCache(store repository.FollowStore, rdb *redis.Client) *FollowGraphCache {
	return &FollowGraphCache{store: store, rdb: rdb}
}

func followeeKey(userID primitive.ObjectID) string {
	return followeeKeyPrefix + userID.Hex()
}

// GetFolloweeIDs returns the cached followee set, warming it from Mongo on a
// miss.
func (c *FollowGraphCache) GetFolloweeIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	key := followeeKey(userID)

	members, err := c.rdb.SMembers(ctx, key).Result()
	if err == nil && len(members) > 0 {
		followees := make([]primitive.ObjectID, 0, len(members))
		for _, m := range members {
			if m == emptyMarker {
				continue
			}
			id, err := primitive.ObjectIDFromHex(m)
			if err != nil {
				// Corrupt entry: drop the key and rebuild from Mongo.
				logrus.Warnf("Dropping corrupt followee cache for user %s", userID.Hex())
				c.rdb.Del(ctx, key)
				return c.warm(ctx, userID)
			}
			followees = append(followees, id)
		}
		return followees, nil
	}
	if err != nil {
		logrus.WithError(err).Warn("Followee cache read failed, falling back to database")
		return c.store.GetFolloweeIDs(ctx, userID)
	}

	return c.warm(ctx, userID)
}

// warm loads the followee set from Mongo and writes it through best-effort.
func (c *FollowGraphCache) warm(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	followees, err := c.store.GetFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	members := make([]interface{}, 0, len(followees)+1)
	members = append(members, emptyMarker)
	for _, id := range followees {
		members = append(members, id.Hex())
	}

	key := followeeKey(userID)
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, followeeTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logrus.WithError(err).Warnf("Failed to warm followee cache for user %s", userID.Hex())
	}

	return followees, nil
}

// IsFollowing always hits the database. See the type comment.
func (c *FollowGraphCache) IsFollowing(ctx context.Context, followerID, followingID primitive.ObjectID) (bool, error) {
	return c.store.IsFollowing(ctx, followerID, followingID)
}

// Invalidate drops a user's cached followee set. Called by the follow
// workflow after every follow/unfollow.
func (c *FollowGraphCache) Invalidate(ctx context.Context, userID primitive.ObjectID) {
	if err := c.rdb.Del(ctx, followeeKey(userID)).Err(); err != nil {
		logrus.WithError(err).Warnf("Failed to invalidate followee cache for user %s", userID.Hex())
	}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %v", err)
	}
	return rdb, nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/aidostt/wanderstay/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes a connection to MongoDB and returns the database handle.
func ConnectDB(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %v", err)
	}

	logrus.Info("Connected to MongoDB")
	return client.Database(cfg.MongoDB), nil
}

// EnsureIndexes creates the indexes the read paths rely on. Idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	activityIndexes := []mongo.IndexModel{
		// Feed query: actor membership ordered by recency, _id as tie-break.
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection("activities").Indexes().CreateMany(ctx, activityIndexes); err != nil {
		return fmt.Errorf("failed to create activity indexes: %v", err)
	}

	followIndexes := []mongo.IndexModel{
		// At most one edge per ordered (follower, following) pair.
		{
			Keys:    bson.D{{Key: "follower_id", Value: 1}, {Key: "following_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "following_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection("follows").Indexes().CreateMany(ctx, followIndexes); err != nil {
		return fmt.Errorf("failed to create follow indexes: %v", err)
	}

	notificationIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}}},
	}
	if _, err := db.Collection("notifications").Indexes().CreateMany(ctx, notificationIndexes); err != nil {
		return fmt.Errorf("failed to create notification indexes: %v", err)
	}

	logrus.Info("Database indexes ensured")
	return nil
}

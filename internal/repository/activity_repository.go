package repository

import (
	"context"
	"fmt"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// activitySort orders activities by recency. The _id tie-break keeps
// pagination deterministic when two activities share a timestamp.
var activitySort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// ActivityRepository stores the append-only activity log.
type ActivityRepository struct {
	collection *mongo.Collection
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		collection: db.Collection("activities"),
	}
}

// InsertActivity appends a new activity row. Activities are never updated.
func (r *ActivityRepository) InsertActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert activity")
		return nil, fmt.Errorf("failed to insert activity: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	activity.ID = insertedID

	return activity, nil
}

// GetActivitiesByActors fetches one feed page's worth of raw activities for
// the given fan-out set, ordered by recency.
func (r *ActivityRepository) GetActivitiesByActors(ctx context.Context, actorIDs []primitive.ObjectID, skip, limit int64) ([]models.Activity, error) {
	if len(actorIDs) == 0 {
		return []models.Activity{}, nil
	}

	filter := bson.M{"actor_id": bson.M{"$in": actorIDs}}
	opts := options.Find().SetSort(activitySort).SetSkip(skip).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %v", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %v", err)
	}
	return activities, nil
}

// GetActivitiesByActor fetches activities authored by one user, for the
// profile activity tab.
func (r *ActivityRepository) GetActivitiesByActor(ctx context.Context, actorID primitive.ObjectID, skip, limit int64) ([]models.Activity, error) {
	filter := bson.M{"actor_id": actorID}
	opts := options.Find().SetSort(activitySort).SetSkip(skip).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %v", err)
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %v", err)
	}
	return activities, nil
}

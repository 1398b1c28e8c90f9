package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityService is the activity log's write path. Workflow services call
// Record once per qualifying state transition, after their primary write has
// committed. Callers treat Record failures as warnings: activity bookkeeping
// must never fail the action it describes.
type ActivityService struct {
	repo repository.ActivityStore
}

// NewActivityService creates a new instance of ActivityService.
func NewActivityService(repo repository.ActivityStore) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record appends one immutable activity row. The target kind must match the
// kind implied by the activity type; a mismatch would silently corrupt the
// feed's target resolution, so it is rejected rather than trusted.
func (s *ActivityService) Record(
	ctx context.Context,
	actorID primitive.ObjectID,
	activityType models.ActivityType,
	targetID primitive.ObjectID,
	targetKind models.TargetKind,
	metadata bson.M,
) (*models.Activity, error) {
	expectedKind, ok := models.KindForType(activityType)
	if !ok {
		return nil, fmt.Errorf("unknown activity type %q", activityType)
	}
	if targetKind != expectedKind {
		return nil, fmt.Errorf("activity type %q requires target kind %q, got %q",
			activityType, expectedKind, targetKind)
	}
	if actorID.IsZero() || targetID.IsZero() {
		return nil, fmt.Errorf("actor and target are required")
	}

	if metadata == nil {
		metadata = bson.M{}
	}

	activity := &models.Activity{
		ActorID:    actorID,
		Type:       activityType,
		TargetID:   targetID,
		TargetKind: targetKind,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}

	recorded, err := s.repo.InsertActivity(ctx, activity)
	if err != nil {
		logrus.WithError(err).Error("Failed to record activity")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"actor_id": actorID.Hex(),
		"type":     activityType,
	}).Info("Activity recorded")

	return recorded, nil
}

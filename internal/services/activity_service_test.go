package services

import (
	"context"
	"testing"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecord_Valid(t *testing.T) {
	var recorded []models.Activity
	svc := NewActivityService(recordingActivityStore(&recorded))

	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()

	activity, err := svc.Record(context.Background(), actor, models.ActivityListingCreated,
		target, models.TargetListing, bson.M{"listingTitle": "Cabin in Almaty"})
	require.NoError(t, err)

	require.Len(t, recorded, 1)
	assert.Equal(t, actor, activity.ActorID)
	assert.Equal(t, target, activity.TargetID)
	assert.Equal(t, models.TargetListing, activity.TargetKind)
	assert.False(t, activity.CreatedAt.IsZero())
}

func TestRecord_NilMetadataDefaultsToEmpty(t *testing.T) {
	var recorded []models.Activity
	svc := NewActivityService(recordingActivityStore(&recorded))

	activity, err := svc.Record(context.Background(), primitive.NewObjectID(),
		models.ActivityUserFollowed, primitive.NewObjectID(), models.TargetUser, nil)
	require.NoError(t, err)
	assert.NotNil(t, activity.Metadata)
}

func TestRecord_RejectsUnknownType(t *testing.T) {
	svc := NewActivityService(&mockActivityStore{})

	_, err := svc.Record(context.Background(), primitive.NewObjectID(),
		models.ActivityType("listing_deleted"), primitive.NewObjectID(), models.TargetListing, nil)
	assert.Error(t, err)
}

func TestRecord_RejectsKindMismatch(t *testing.T) {
	svc := NewActivityService(&mockActivityStore{})

	// wishlist_added points at the listing, not the wishlist.
	_, err := svc.Record(context.Background(), primitive.NewObjectID(),
		models.ActivityWishlistAdded, primitive.NewObjectID(), models.TargetWishlist, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires target kind")
}

func TestRecord_RejectsZeroIDs(t *testing.T) {
	svc := NewActivityService(&mockActivityStore{})

	_, err := svc.Record(context.Background(), primitive.NilObjectID,
		models.ActivityListingCreated, primitive.NewObjectID(), models.TargetListing, nil)
	assert.Error(t, err)

	_, err = svc.Record(context.Background(), primitive.NewObjectID(),
		models.ActivityListingCreated, primitive.NilObjectID, models.TargetListing, nil)
	assert.Error(t, err)
}

func TestKindForType_CoversEveryActivityType(t *testing.T) {
	cases := map[models.ActivityType]models.TargetKind{
		models.ActivityListingCreated:   models.TargetListing,
		models.ActivityBookingMade:      models.TargetBooking,
		models.ActivityBookingConfirmed: models.TargetBooking,
		models.ActivityBookingCancelled: models.TargetBooking,
		models.ActivityReviewPosted:     models.TargetReview,
		models.ActivityUserFollowed:     models.TargetUser,
		models.ActivityWishlistAdded:    models.TargetListing,
		models.ActivityMessageSent:      models.TargetMessage,
	}

	for activityType, want := range cases {
		kind, ok := models.KindForType(activityType)
		require.True(t, ok, "no kind for %s", activityType)
		assert.Equal(t, want, kind, "kind for %s", activityType)
	}
}

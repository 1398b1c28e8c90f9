package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveBatch_OneLookupPerKind(t *testing.T) {
	listingA := primitive.NewObjectID()
	listingB := primitive.NewObjectID()
	user := primitive.NewObjectID()

	listingCalls := 0
	listings := &mockListingStore{
		GetListingSummariesFn: func(ctx context.Context, ids []primitive.ObjectID) ([]models.ListingSummary, error) {
			listingCalls++
			assert.ElementsMatch(t, []primitive.ObjectID{listingA, listingB}, ids)
			return []models.ListingSummary{
				{ID: listingA, Title: "Yurt by the lake"},
				{ID: listingB, Title: "Loft in Astana"},
			}, nil
		},
	}
	userCalls := 0
	users := &mockUserStore{
		GetUserSummariesFn: func(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
			userCalls++
			return []models.UserSummary{{ID: user, FullName: "Madina"}}, nil
		},
	}

	resolver := NewTargetResolver(listings, &mockBookingStore{}, &mockReviewStore{},
		users, &mockWishlistStore{}, &mockChatStore{}, time.Second)

	refs := []models.TargetRef{
		{ID: listingA, Kind: models.TargetListing},
		{ID: listingB, Kind: models.TargetListing},
		{ID: listingA, Kind: models.TargetListing}, // duplicate
		{ID: user, Kind: models.TargetUser},
	}

	resolved := resolver.ResolveBatch(context.Background(), refs)

	assert.Equal(t, 1, listingCalls)
	assert.Equal(t, 1, userCalls)
	require.Len(t, resolved, 3)

	got := resolved[models.TargetRef{ID: listingA, Kind: models.TargetListing}]
	require.NotNil(t, got.Listing)
	assert.Equal(t, "Yurt by the lake", got.Listing.Title)
	assert.False(t, got.Missing)

	gotUser := resolved[models.TargetRef{ID: user, Kind: models.TargetUser}]
	require.NotNil(t, gotUser.User)
	assert.Equal(t, "Madina", gotUser.User.FullName)
}

func TestResolveBatch_DeletedTargetIsMissing(t *testing.T) {
	present := primitive.NewObjectID()
	deleted := primitive.NewObjectID()

	listings := &mockListingStore{
		GetListingSummariesFn: func(ctx context.Context, ids []primitive.ObjectID) ([]models.ListingSummary, error) {
			return []models.ListingSummary{{ID: present, Title: "Still here"}}, nil
		},
	}

	resolver := NewTargetResolver(listings, &mockBookingStore{}, &mockReviewStore{},
		&mockUserStore{}, &mockWishlistStore{}, &mockChatStore{}, time.Second)

	resolved := resolver.ResolveBatch(context.Background(), []models.TargetRef{
		{ID: present, Kind: models.TargetListing},
		{ID: deleted, Kind: models.TargetListing},
	})

	assert.False(t, resolved[models.TargetRef{ID: present, Kind: models.TargetListing}].Missing)

	gone := resolved[models.TargetRef{ID: deleted, Kind: models.TargetListing}]
	assert.True(t, gone.Missing)
	assert.Equal(t, models.TargetListing, gone.Kind)
	assert.Nil(t, gone.Listing)
}

func TestResolveBatch_FailedKindDegradesToMissing(t *testing.T) {
	booking := primitive.NewObjectID()
	listing := primitive.NewObjectID()

	bookings := &mockBookingStore{
		GetBookingSummariesFn: func(ctx context.Context, ids []primitive.ObjectID) ([]models.BookingSummary, error) {
			return nil, fmt.Errorf("bookings collection unavailable")
		},
	}
	listings := &mockListingStore{
		GetListingSummariesFn: func(ctx context.Context, ids []primitive.ObjectID) ([]models.ListingSummary, error) {
			return []models.ListingSummary{{ID: listing, Title: "Unaffected"}}, nil
		},
	}

	resolver := NewTargetResolver(listings, bookings, &mockReviewStore{},
		&mockUserStore{}, &mockWishlistStore{}, &mockChatStore{}, time.Second)

	resolved := resolver.ResolveBatch(context.Background(), []models.TargetRef{
		{ID: booking, Kind: models.TargetBooking},
		{ID: listing, Kind: models.TargetListing},
	})

	// One kind failing degrades only its own subset.
	assert.True(t, resolved[models.TargetRef{ID: booking, Kind: models.TargetBooking}].Missing)
	assert.False(t, resolved[models.TargetRef{ID: listing, Kind: models.TargetListing}].Missing)
}

func TestResolveBatch_UnknownKindIsMissing(t *testing.T) {
	resolver := NewTargetResolver(&mockListingStore{}, &mockBookingStore{}, &mockReviewStore{},
		&mockUserStore{}, &mockWishlistStore{}, &mockChatStore{}, time.Second)

	ref := models.TargetRef{ID: primitive.NewObjectID(), Kind: models.TargetKind("Property")}
	resolved := resolver.ResolveBatch(context.Background(), []models.TargetRef{ref})

	require.Contains(t, resolved, ref)
	assert.True(t, resolved[ref].Missing)
}

func TestResolveBatch_EmptyInput(t *testing.T) {
	resolver := NewTargetResolver(&mockListingStore{}, &mockBookingStore{}, &mockReviewStore{},
		&mockUserStore{}, &mockWishlistStore{}, &mockChatStore{}, time.Second)

	resolved := resolver.ResolveBatch(context.Background(), nil)
	assert.Empty(t, resolved)
}

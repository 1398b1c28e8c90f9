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

func bookingFixture(listingID, guestID primitive.ObjectID) *models.Booking {
	return &models.Booking{
		ListingID: listingID,
		GuestID:   guestID,
		CheckIn:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Guests:    2,
	}
}

func TestCreateBooking_RecordsBookingMadeByGuest(t *testing.T) {
	host := primitive.NewObjectID()
	guest := primitive.NewObjectID()
	listingID := primitive.NewObjectID()
	bookingID := primitive.NewObjectID()

	repo := &mockBookingStore{
		CreateBookingFn: func(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
			booking.ID = bookingID
			return booking, nil
		},
	}
	listings := &mockListingStore{
		GetListingByIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
			return &models.Listing{ID: listingID, OwnerID: host, Title: "Stone house in Taraz"}, nil
		},
	}

	var recorded []models.Activity
	svc := NewBookingService(repo, listings, &mockUserStore{},
		NewActivityService(recordingActivityStore(&recorded)), silentNotifications())

	created, err := svc.CreateBooking(context.Background(), bookingFixture(listingID, guest))
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, created.Status)

	require.Len(t, recorded, 1)
	assert.Equal(t, models.ActivityBookingMade, recorded[0].Type)
	assert.Equal(t, guest, recorded[0].ActorID, "booking_made is authored by the guest")
	assert.Equal(t, bookingID, recorded[0].TargetID)
	assert.Equal(t, models.TargetBooking, recorded[0].TargetKind)
	assert.Equal(t, "Stone house in Taraz", recorded[0].Metadata["listingTitle"])
}

func TestCreateBooking_Validation(t *testing.T) {
	listingID := primitive.NewObjectID()
	guest := primitive.NewObjectID()

	svc := NewBookingService(&mockBookingStore{}, &mockListingStore{}, &mockUserStore{}, nil, nil)

	noGuests := bookingFixture(listingID, guest)
	noGuests.Guests = 0
	_, err := svc.CreateBooking(context.Background(), noGuests)
	assert.Error(t, err)

	inverted := bookingFixture(listingID, guest)
	inverted.CheckOut = inverted.CheckIn.Add(-24 * time.Hour)
	_, err = svc.CreateBooking(context.Background(), inverted)
	assert.Error(t, err)
}

func TestCreateBooking_OwnListingRejected(t *testing.T) {
	owner := primitive.NewObjectID()
	listingID := primitive.NewObjectID()

	listings := &mockListingStore{
		GetListingByIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
			return &models.Listing{ID: listingID, OwnerID: owner}, nil
		},
	}

	svc := NewBookingService(&mockBookingStore{}, listings, &mockUserStore{}, nil, nil)

	_, err := svc.CreateBooking(context.Background(), bookingFixture(listingID, owner))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own listing")
}

// statusFixture wires a pending booking owned by host with guest, and returns
// the services plus the recorded activity slice.
func statusFixture(t *testing.T, host, guest, listingID, bookingID primitive.ObjectID, current string) (*BookingService, *[]models.Activity) {
	t.Helper()

	repo := &mockBookingStore{
		GetBookingByIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
			b := bookingFixture(listingID, guest)
			b.ID = bookingID
			b.Status = current
			return b, nil
		},
		UpdateBookingStatusFn: func(ctx context.Context, id primitive.ObjectID, status string) error {
			return nil
		},
	}
	listings := &mockListingStore{
		GetListingByIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
			return &models.Listing{ID: listingID, OwnerID: host, Title: "Riverside flat"}, nil
		},
	}
	users := &mockUserStore{
		// Erroring here keeps the guest-name fallback path and skips the
		// confirmation email goroutine.
		GetUserByIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
			return nil, fmt.Errorf("no documents")
		},
	}

	recorded := &[]models.Activity{}
	svc := NewBookingService(repo, listings, users,
		NewActivityService(recordingActivityStore(recorded)), silentNotifications())
	return svc, recorded
}

func TestUpdateBookingStatus_ConfirmedRecordsHostActivity(t *testing.T) {
	host := primitive.NewObjectID()
	guest := primitive.NewObjectID()
	listingID := primitive.NewObjectID()
	bookingID := primitive.NewObjectID()

	svc, recorded := statusFixture(t, host, guest, listingID, bookingID, models.BookingPending)

	booking, err := svc.UpdateBookingStatus(context.Background(), bookingID, host, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)

	require.Len(t, *recorded, 1)
	activity := (*recorded)[0]
	assert.Equal(t, models.ActivityBookingConfirmed, activity.Type)
	assert.Equal(t, host, activity.ActorID, "status activities are authored by the host")
	assert.Equal(t, bookingID, activity.TargetID)
	assert.Equal(t, "a guest", activity.Metadata["guestName"])
	assert.NotContains(t, activity.Metadata, "reason")
}

func TestUpdateBookingStatus_CancelledRecordsReason(t *testing.T) {
	host := primitive.NewObjectID()
	guest := primitive.NewObjectID()
	bookingID := primitive.NewObjectID()

	svc, recorded := statusFixture(t, host, guest, primitive.NewObjectID(), bookingID, models.BookingPending)

	_, err := svc.UpdateBookingStatus(context.Background(), bookingID, host, models.BookingCancelled)
	require.NoError(t, err)

	require.Len(t, *recorded, 1)
	activity := (*recorded)[0]
	assert.Equal(t, models.ActivityBookingCancelled, activity.Type)
	assert.Contains(t, activity.Metadata, "reason")
}

func TestUpdateBookingStatus_SameStatusIsNoOp(t *testing.T) {
	host := primitive.NewObjectID()
	bookingID := primitive.NewObjectID()

	svc, recorded := statusFixture(t, host, primitive.NewObjectID(), primitive.NewObjectID(), bookingID, models.BookingConfirmed)

	booking, err := svc.UpdateBookingStatus(context.Background(), bookingID, host, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Empty(t, *recorded, "re-saving the same status records nothing")
}

func TestUpdateBookingStatus_OnlyHost(t *testing.T) {
	host := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	bookingID := primitive.NewObjectID()

	svc, recorded := statusFixture(t, host, primitive.NewObjectID(), primitive.NewObjectID(), bookingID, models.BookingPending)

	_, err := svc.UpdateBookingStatus(context.Background(), bookingID, stranger, models.BookingConfirmed)
	require.Error(t, err)
	assert.Empty(t, *recorded)
}

func TestUpdateBookingStatus_UnsupportedStatus(t *testing.T) {
	svc := NewBookingService(&mockBookingStore{}, &mockListingStore{}, &mockUserStore{}, nil, nil)

	_, err := svc.UpdateBookingStatus(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), models.BookingCompleted)
	assert.Error(t, err)
}

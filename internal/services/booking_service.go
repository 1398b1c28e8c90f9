package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/aidostt/wanderstay/pkg/email"
	"github.com/aidostt/wanderstay/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingService encapsulates the booking workflow. Bookings are the busiest
// activity call site: creation records booking_made (actor: the guest), and
// a status change to confirmed or cancelled records exactly one activity
// whose actor is the HOST. No other transition records anything.
type BookingService struct {
	repo          repository.BookingStore
	listings      repository.ListingStore
	users         repository.UserStore
	activities    *ActivityService
	notifications *NotificationService
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(
	repo repository.BookingStore,
	listings repository.ListingStore,
	users repository.UserStore,
	activities *ActivityService,
	notifications *NotificationService,
) *BookingService {
	return &BookingService{
		repo:          repo,
		listings:      listings,
		users:         users,
		activities:    activities,
		notifications: notifications,
	}
}

// CreateBooking stores a pending booking, records the booking_made activity
// and notifies the host. Activity and notification failures are logged, not
// returned: the booking the guest requested has already succeeded.
func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if booking.Guests < 1 {
		return nil, fmt.Errorf("at least one guest is required")
	}
	if !booking.CheckOut.After(booking.CheckIn) {
		return nil, fmt.Errorf("check-out must be after check-in")
	}

	listing, err := s.listings.GetListingByID(ctx, booking.ListingID)
	if err != nil {
		return nil, fmt.Errorf("listing not found: %v", err)
	}
	if listing.OwnerID == booking.GuestID {
		return nil, fmt.Errorf("cannot book your own listing")
	}

	booking.Status = models.BookingPending
	created, err := s.repo.CreateBooking(ctx, booking)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create booking")
		return nil, fmt.Errorf("failed to create booking: %v", err)
	}

	_, err = s.activities.Record(ctx, created.GuestID, models.ActivityBookingMade,
		created.ID, models.TargetBooking, bson.M{
			"listingTitle": listing.Title,
			"checkIn":      created.CheckIn,
			"checkOut":     created.CheckOut,
		})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to record booking_made activity")
	}

	err = s.notifications.Notify(ctx, listing.OwnerID, "new_booking",
		"New Booking Request",
		fmt.Sprintf("You have a new booking request for %s", listing.Title),
		bson.M{"booking_id": created.ID, "listing_id": listing.ID})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to notify host of new booking")
	}

	return created, nil
}

// UpdateBookingStatus transitions a booking. Only the listing's host may
// confirm or cancel a pending booking. Saving the same status again is a
// no-op and records no activity.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID, callerID primitive.ObjectID, status string) (*models.Booking, error) {
	if status != models.BookingConfirmed && status != models.BookingCancelled {
		return nil, fmt.Errorf("unsupported status %q", status)
	}

	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking not found: %v", err)
	}

	listing, err := s.listings.GetListingByID(ctx, booking.ListingID)
	if err != nil {
		return nil, fmt.Errorf("listing not found: %v", err)
	}
	if listing.OwnerID != callerID {
		return nil, fmt.Errorf("only the host can update this booking")
	}

	if booking.Status == status {
		return booking, nil
	}

	if err := s.repo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		logger.Log.WithError(err).Error("Service failed to update booking status")
		return nil, fmt.Errorf("failed to update booking: %v", err)
	}
	booking.Status = status

	s.recordStatusActivity(ctx, booking, listing, status)
	s.notifyGuest(ctx, booking, listing, status)

	return booking, nil
}

// recordStatusActivity records the single activity for a confirmed or
// cancelled transition. The actor is the host.
func (s *BookingService) recordStatusActivity(ctx context.Context, booking *models.Booking, listing *models.Listing, status string) {
	activityType := models.ActivityBookingConfirmed
	if status == models.BookingCancelled {
		activityType = models.ActivityBookingCancelled
	}

	// Guest name is display metadata only; fall back rather than abort.
	guestName := "a guest"
	if guest, err := s.users.GetUserByID(ctx, booking.GuestID); err == nil && guest.FullName != "" {
		guestName = guest.FullName
	}

	metadata := bson.M{
		"listingTitle": listing.Title,
		"guestName":    guestName,
	}
	if status == models.BookingCancelled {
		metadata["reason"] = "Booking cancelled"
	}

	_, err := s.activities.Record(ctx, listing.OwnerID, activityType,
		booking.ID, models.TargetBooking, metadata)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to record %s activity", activityType)
	}
}

// notifyGuest delivers the status-change notification and a best-effort
// confirmation email.
func (s *BookingService) notifyGuest(ctx context.Context, booking *models.Booking, listing *models.Listing, status string) {
	title := "Booking Confirmed"
	message := fmt.Sprintf("Your booking for %s has been confirmed", listing.Title)
	if status == models.BookingCancelled {
		title = "Booking Cancelled"
		message = fmt.Sprintf("Your booking for %s has been cancelled", listing.Title)
	}

	err := s.notifications.Notify(ctx, booking.GuestID, "booking_"+status, title, message,
		bson.M{"booking_id": booking.ID, "listing_id": listing.ID})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to notify guest of booking status change")
	}

	guest, err := s.users.GetUserByID(ctx, booking.GuestID)
	if err != nil {
		return
	}
	go func() {
		body := fmt.Sprintf("%s\n\nCheck-in: %s\nCheck-out: %s\n",
			message,
			booking.CheckIn.Format(time.DateOnly),
			booking.CheckOut.Format(time.DateOnly))
		if err := email.SendEmail(guest.Email, title, body); err != nil {
			logger.Log.WithError(err).Warn("Failed to send booking email")
		}
	}()
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %v", err)
	}
	return s.repo.GetBookingByID(ctx, objID)
}

// GetBookingsByGuest returns a guest's bookings.
func (s *BookingService) GetBookingsByGuest(ctx context.Context, guestID primitive.ObjectID) ([]models.Booking, error) {
	return s.repo.GetBookingsByGuest(ctx, guestID)
}

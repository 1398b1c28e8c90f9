package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/aidostt/wanderstay/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewService encapsulates the review workflow. Posting a review records
// the review_posted activity; a host response only notifies the author, it
// is not a feed event.
type ReviewService struct {
	repo          repository.ReviewStore
	bookings      repository.BookingStore
	listings      repository.ListingStore
	activities    *ActivityService
	notifications *NotificationService
}

// NewReviewService creates a new instance of ReviewService.
func NewReviewService(
	repo repository.ReviewStore,
	bookings repository.BookingStore,
	listings repository.ListingStore,
	activities *ActivityService,
	notifications *NotificationService,
) *ReviewService {
	return &ReviewService{
		repo:          repo,
		bookings:      bookings,
		listings:      listings,
		activities:    activities,
		notifications: notifications,
	}
}

// CreateReview stores a review for a completed stay, records the
// review_posted activity and notifies the host.
func (s *ReviewService) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	booking, err := s.bookings.GetBookingByID(ctx, review.BookingID)
	if err != nil {
		return nil, fmt.Errorf("booking not found: %v", err)
	}
	if booking.GuestID != review.AuthorID {
		return nil, fmt.Errorf("only the guest of the booking can review it")
	}

	created, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create review")
		return nil, fmt.Errorf("failed to create review: %v", err)
	}

	// Metadata enrichment is best-effort: a failed listing lookup falls back
	// to a literal instead of aborting the review.
	listingTitle := "a listing"
	var host primitive.ObjectID
	listing, err := s.listings.GetListingByID(ctx, booking.ListingID)
	if err == nil {
		listingTitle = listing.Title
		host = listing.OwnerID
	} else {
		logger.Log.WithError(err).Warn("Failed to enrich review activity metadata")
	}

	_, err = s.activities.Record(ctx, created.AuthorID, models.ActivityReviewPosted,
		created.ID, models.TargetReview, bson.M{
			"listingTitle": listingTitle,
			"rating":       created.Rating,
		})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to record review_posted activity")
	}

	if !host.IsZero() {
		err = s.notifications.Notify(ctx, host, "new_review",
			"New Review",
			fmt.Sprintf("Your listing %q received a new review", listingTitle),
			bson.M{"review_id": created.ID, "listing_id": booking.ListingID})
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to notify host of new review")
		}
	}

	return created, nil
}

// RespondToReview attaches the host's response and notifies the author.
func (s *ReviewService) RespondToReview(ctx context.Context, reviewID, hostID primitive.ObjectID, response string) error {
	if response == "" {
		return fmt.Errorf("response is required")
	}

	review, err := s.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("review not found: %v", err)
	}

	booking, err := s.bookings.GetBookingByID(ctx, review.BookingID)
	if err != nil {
		return fmt.Errorf("booking not found: %v", err)
	}
	listing, err := s.listings.GetListingByID(ctx, booking.ListingID)
	if err != nil {
		return fmt.Errorf("listing not found: %v", err)
	}
	if listing.OwnerID != hostID {
		return fmt.Errorf("only the host can respond to this review")
	}

	hostResponse := &models.HostResponse{
		Response:    response,
		RespondedAt: time.Now(),
		RespondedBy: hostID,
	}
	if err := s.repo.SetHostResponse(ctx, reviewID, hostResponse); err != nil {
		return fmt.Errorf("failed to save response: %v", err)
	}

	err = s.notifications.Notify(ctx, review.AuthorID, "review_response",
		"Review Response",
		"The host has responded to your review",
		bson.M{"review_id": reviewID})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to notify author of review response")
	}

	return nil
}

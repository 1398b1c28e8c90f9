package services

import (
	"context"
	"fmt"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/aidostt/wanderstay/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingService encapsulates the listing workflow. Creating a listing is an
// activity call site: the activity is recorded after the listing write
// commits and a failure there never fails the creation.
type ListingService struct {
	repo       repository.ListingStore
	activities *ActivityService
}

// NewListingService creates a new instance of ListingService.
func NewListingService(repo repository.ListingStore, activities *ActivityService) *ListingService {
	return &ListingService{repo: repo, activities: activities}
}

// CreateListing stores a new listing and records the listing_created
// activity.
func (s *ListingService) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if listing.Title == "" || listing.Location == "" || listing.Country == "" {
		return nil, fmt.Errorf("title, location and country are required")
	}
	if listing.Price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}

	created, err := s.repo.CreateListing(ctx, listing)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create listing")
		return nil, fmt.Errorf("failed to create listing: %v", err)
	}

	_, err = s.activities.Record(ctx, created.OwnerID, models.ActivityListingCreated,
		created.ID, models.TargetListing, bson.M{
			"listingTitle": created.Title,
		})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to record listing_created activity")
	}

	return created, nil
}

// GetListing retrieves a listing by ID.
func (s *ListingService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID: %v", err)
	}
	return s.repo.GetListingByID(ctx, objID)
}

// GetListingsByOwner returns a host's listings.
func (s *ListingService) GetListingsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Listing, error) {
	return s.repo.GetListingsByOwner(ctx, ownerID)
}

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

// WishlistService encapsulates the wishlist workflow. Adding a listing is an
// activity call site; the activity targets the LISTING that was added, with
// the wishlist name carried as metadata. Removals record nothing.
type WishlistService struct {
	repo       repository.WishlistStore
	listings   repository.ListingStore
	activities *ActivityService
}

// NewWishlistService creates a new instance of WishlistService.
func NewWishlistService(repo repository.WishlistStore, listings repository.ListingStore, activities *ActivityService) *WishlistService {
	return &WishlistService{repo: repo, listings: listings, activities: activities}
}

// CreateWishlist stores a new, empty wishlist.
func (s *WishlistService) CreateWishlist(ctx context.Context, wishlist *models.Wishlist) (*models.Wishlist, error) {
	if wishlist.Name == "" {
		return nil, fmt.Errorf("wishlist name is required")
	}
	return s.repo.CreateWishlist(ctx, wishlist)
}

// GetWishlist retrieves a wishlist and checks ownership.
func (s *WishlistService) GetWishlist(ctx context.Context, id, userID primitive.ObjectID) (*models.Wishlist, error) {
	wishlist, err := s.repo.GetWishlistByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wishlist.UserID != userID && wishlist.IsPrivate {
		return nil, fmt.Errorf("wishlist is private")
	}
	return wishlist, nil
}

// GetWishlistsByUser returns a user's own wishlists.
func (s *WishlistService) GetWishlistsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error) {
	return s.repo.GetWishlistsByUser(ctx, userID)
}

// AddListing adds a listing to the user's wishlist. The wishlist_added
// activity is recorded only when the listing was actually added; re-adding
// one already present is a no-op end to end.
func (s *WishlistService) AddListing(ctx context.Context, wishlistID, userID, listingID primitive.ObjectID) error {
	wishlist, err := s.repo.GetWishlistByID(ctx, wishlistID)
	if err != nil {
		return fmt.Errorf("wishlist not found: %v", err)
	}
	if wishlist.UserID != userID {
		return fmt.Errorf("only the owner can modify this wishlist")
	}

	for _, id := range wishlist.Listings {
		if id == listingID {
			return nil
		}
	}

	listing, err := s.listings.GetListingByID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("listing not found: %v", err)
	}

	added, err := s.repo.AddListing(ctx, wishlistID, listingID)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	_, err = s.activities.Record(ctx, userID, models.ActivityWishlistAdded,
		listingID, models.TargetListing, bson.M{
			"listingTitle": listing.Title,
			"wishlistName": wishlist.Name,
		})
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to record wishlist_added activity")
	}

	return nil
}

// RemoveListing removes a listing from the user's wishlist.
func (s *WishlistService) RemoveListing(ctx context.Context, wishlistID, userID, listingID primitive.ObjectID) error {
	wishlist, err := s.repo.GetWishlistByID(ctx, wishlistID)
	if err != nil {
		return fmt.Errorf("wishlist not found: %v", err)
	}
	if wishlist.UserID != userID {
		return fmt.Errorf("only the owner can modify this wishlist")
	}

	return s.repo.RemoveListing(ctx, wishlistID, listingID)
}

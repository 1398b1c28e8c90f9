package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WishlistRepository handles database operations related to wishlists.
type WishlistRepository struct {
	collection *mongo.Collection
}

// NewWishlistRepository creates a new instance of WishlistRepository.
func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{
		collection: db.Collection("wishlists"),
	}
}

// CreateWishlist inserts a new wishlist.
func (r *WishlistRepository) CreateWishlist(ctx context.Context, wishlist *models.Wishlist) (*models.Wishlist, error) {
	wishlist.CreatedAt = time.Now()
	wishlist.UpdatedAt = time.Now()
	if wishlist.Listings == nil {
		wishlist.Listings = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, wishlist)
	if err != nil {
		return nil, fmt.Errorf("failed to insert wishlist: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	wishlist.ID = insertedID

	return wishlist, nil
}

// GetWishlistByID retrieves a wishlist by its ID.
func (r *WishlistRepository) GetWishlistByID(ctx context.Context, id primitive.ObjectID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&wishlist)
	if err != nil {
		return nil, fmt.Errorf("failed to find wishlist: %v", err)
	}
	return &wishlist, nil
}

// GetWishlistsByUser returns all wishlists belonging to a user.
func (r *WishlistRepository) GetWishlistsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wishlists: %v", err)
	}
	defer cursor.Close(ctx)

	var wishlists []models.Wishlist
	if err := cursor.All(ctx, &wishlists); err != nil {
		return nil, fmt.Errorf("failed to decode wishlists: %v", err)
	}
	return wishlists, nil
}

// AddListing adds a listing to a wishlist. Returns true when the listing was
// actually added, false when it was already present, so the caller can decide
// whether an activity should be recorded. The membership check lives in the
// filter; filtering on _id alone would let the updated_at bump count a
// duplicate add as a modification.
func (r *WishlistRepository) AddListing(ctx context.Context, wishlistID, listingID primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":      wishlistID,
			"listings": bson.M{"$ne": listingID},
		},
		bson.M{
			"$addToSet": bson.M{"listings": listingID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add listing to wishlist: %v", err)
	}

	// MatchedCount == 0 means the listing is already there: the caller has
	// verified the wishlist itself exists before getting here.
	return result.MatchedCount > 0, nil
}

// RemoveListing removes a listing from a wishlist.
func (r *WishlistRepository) RemoveListing(ctx context.Context, wishlistID, listingID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": wishlistID},
		bson.M{
			"$pull": bson.M{"listings": listingID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove listing from wishlist: %v", err)
	}
	return nil
}

// GetWishlistSummaries fetches the feed projection for a batch of wishlists.
func (r *WishlistRepository) GetWishlistSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.WishlistSummary, error) {
	if len(ids) == 0 {
		return []models.WishlistSummary{}, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wishlist summaries: %v", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.WishlistSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist summaries: %v", err)
	}
	return summaries, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListingRepository handles database operations related to listings.
type ListingRepository struct {
	collection *mongo.Collection
}

// NewListingRepository creates a new instance of ListingRepository.
func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection("listings"),
	}
}

// CreateListing inserts a new listing.
func (r *ListingRepository) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert listing")
		return nil, fmt.Errorf("failed to insert listing: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	listing.ID = insertedID

	return listing, nil
}

// GetListingByID retrieves a listing by its ID.
func (r *ListingRepository) GetListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	var listing models.Listing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		return nil, fmt.Errorf("failed to find listing: %v", err)
	}
	return &listing, nil
}

// GetListingsByOwner returns all listings owned by a host.
func (r *ListingRepository) GetListingsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %v", err)
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %v", err)
	}
	return listings, nil
}

// GetListingSummaries fetches the feed projection for a batch of listings.
func (r *ListingRepository) GetListingSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.ListingSummary, error) {
	if len(ids) == 0 {
		return []models.ListingSummary{}, nil
	}

	opts := options.Find().SetProjection(bson.M{
		"title":    1,
		"image":    1,
		"location": 1,
		"country":  1,
	})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing summaries: %v", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.ListingSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode listing summaries: %v", err)
	}
	return summaries, nil
}

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
)

// ReviewRepository handles database operations related to reviews.
type ReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{
		collection: db.Collection("reviews"),
	}
}

// CreateReview inserts a new review.
func (r *ReviewRepository) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	review.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert review")
		return nil, fmt.Errorf("failed to insert review: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	review.ID = insertedID

	return review, nil
}

// GetReviewByID retrieves a review by its ID.
func (r *ReviewRepository) GetReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %v", err)
	}
	return &review, nil
}

// SetHostResponse attaches the host's reply to a review.
func (r *ReviewRepository) SetHostResponse(ctx context.Context, id primitive.ObjectID, response *models.HostResponse) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"host_response": response}},
	)
	if err != nil {
		return fmt.Errorf("failed to set host response: %v", err)
	}
	return nil
}

// GetReviewSummaries fetches the feed projection for a batch of reviews:
// the rating plus the reviewed listing's id and title, resolved through the
// review's booking in one aggregation.
func (r *ReviewRepository) GetReviewSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.ReviewSummary, error) {
	if len(ids) == 0 {
		return []models.ReviewSummary{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": ids}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "bookings",
			"localField":   "booking_id",
			"foreignField": "_id",
			"as":           "booking",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$booking", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "listings",
			"localField":   "booking.listing_id",
			"foreignField": "_id",
			"as":           "listing",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$listing", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"rating":        1,
			"listing_id":    "$listing._id",
			"listing_title": "$listing.title",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review summaries: %v", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.ReviewSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode review summaries: %v", err)
	}
	return summaries, nil
}

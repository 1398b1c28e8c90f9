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

// BookingRepository handles database operations related to bookings.
type BookingRepository struct {
	collection *mongo.Collection
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		collection: db.Collection("bookings"),
	}
}

// CreateBooking inserts a new booking.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()
	if booking.Status == "" {
		booking.Status = models.BookingPending
	}

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert booking")
		return nil, fmt.Errorf("failed to insert booking: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	booking.ID = insertedID

	return booking, nil
}

// GetBookingByID retrieves a booking by its ID.
func (r *BookingRepository) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %v", err)
	}
	return &booking, nil
}

// UpdateBookingStatus sets the booking's status.
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %v", err)
	}
	return nil
}

// GetBookingsByGuest returns all bookings made by a guest, newest first.
func (r *BookingRepository) GetBookingsByGuest(ctx context.Context, guestID primitive.ObjectID) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %v", err)
	}
	return bookings, nil
}

// GetBookingSummaries fetches the feed projection for a batch of bookings,
// joining in the listing title in a single aggregation.
func (r *BookingRepository) GetBookingSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.BookingSummary, error) {
	if len(ids) == 0 {
		return []models.BookingSummary{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": ids}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "listings",
			"localField":   "listing_id",
			"foreignField": "_id",
			"as":           "listing",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$listing", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"listing_id":    1,
			"listing_title": "$listing.title",
			"check_in":      1,
			"check_out":     1,
			"status":        1,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking summaries: %v", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.BookingSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode booking summaries: %v", err)
	}
	return summaries, nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking is a guest's reservation of a listing.
type Booking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GuestID    primitive.ObjectID `bson:"guest_id" json:"guest_id"`
	ListingID  primitive.ObjectID `bson:"listing_id" json:"listing_id"`
	CheckIn    time.Time          `bson:"check_in" json:"check_in"`
	CheckOut   time.Time          `bson:"check_out" json:"check_out"`
	Guests     int                `bson:"guests" json:"guests"`
	TotalPrice float64            `bson:"total_price" json:"total_price"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

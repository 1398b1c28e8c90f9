package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HostResponse is a host's reply to a review.
type HostResponse struct {
	Response    string             `bson:"response" json:"response"`
	RespondedAt time.Time          `bson:"responded_at" json:"responded_at"`
	RespondedBy primitive.ObjectID `bson:"responded_by" json:"responded_by"`
}

// Review is a guest's review of a completed stay, linked to its booking.
type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID     primitive.ObjectID `bson:"author_id" json:"author_id"`
	BookingID    primitive.ObjectID `bson:"booking_id" json:"booking_id"`
	Comment      string             `bson:"comment" json:"comment"`
	Rating       int                `bson:"rating" json:"rating"`
	HostResponse *HostResponse      `bson:"host_response,omitempty" json:"host_response,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

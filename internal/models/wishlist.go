package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wishlist is a named collection of listings saved by a user.
type Wishlist struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Name      string               `bson:"name" json:"name"`
	Listings  []primitive.ObjectID `bson:"listings" json:"listings"`
	IsPrivate bool                 `bson:"is_private" json:"is_private"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

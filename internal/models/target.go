package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Minimal per-kind projections carried by resolved feed items. Only the
// fields needed to render a feed entry, never the full documents.

type ListingSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	Location string             `bson:"location" json:"location"`
	Country  string             `bson:"country" json:"country"`
}

type BookingSummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	ListingID    primitive.ObjectID `bson:"listing_id" json:"listing_id"`
	ListingTitle string             `bson:"listing_title" json:"listing_title"`
	CheckIn      time.Time          `bson:"check_in" json:"check_in"`
	CheckOut     time.Time          `bson:"check_out" json:"check_out"`
	Status       string             `bson:"status" json:"status"`
}

type ReviewSummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Rating       int                `bson:"rating" json:"rating"`
	ListingID    primitive.ObjectID `bson:"listing_id" json:"listing_id"`
	ListingTitle string             `bson:"listing_title" json:"listing_title"`
}

type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

type WishlistSummary struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

type MessageSummary struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`
}

// ResolvedTarget is a tagged union over the six target kinds. Exactly one of
// the pointers is set when Missing is false. A target deleted after its
// activity was recorded resolves with Missing set, never an error.
type ResolvedTarget struct {
	Kind     TargetKind       `json:"kind"`
	Missing  bool             `json:"missing"`
	Listing  *ListingSummary  `json:"listing,omitempty"`
	Booking  *BookingSummary  `json:"booking,omitempty"`
	Review   *ReviewSummary   `json:"review,omitempty"`
	User     *UserSummary     `json:"user,omitempty"`
	Wishlist *WishlistSummary `json:"wishlist,omitempty"`
	Message  *MessageSummary  `json:"message,omitempty"`
}

// MissingTarget builds the sentinel for a target that no longer exists.
func MissingTarget(kind TargetKind) ResolvedTarget {
	return ResolvedTarget{Kind: kind, Missing: true}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType is the closed set of user actions the feed records.
type ActivityType string

const (
	ActivityListingCreated   ActivityType = "listing_created"
	ActivityReviewPosted     ActivityType = "review_posted"
	ActivityBookingMade      ActivityType = "booking_made"
	ActivityBookingConfirmed ActivityType = "booking_confirmed"
	ActivityBookingCancelled ActivityType = "booking_cancelled"
	ActivityUserFollowed     ActivityType = "user_followed"
	ActivityWishlistAdded    ActivityType = "wishlist_added"
	ActivityMessageSent      ActivityType = "message_sent"
)

// TargetKind tags which collection an activity's target resolves against.
type TargetKind string

const (
	TargetListing  TargetKind = "Listing"
	TargetBooking  TargetKind = "Booking"
	TargetReview   TargetKind = "Review"
	TargetUser     TargetKind = "User"
	TargetWishlist TargetKind = "Wishlist"
	TargetMessage  TargetKind = "Message"
)

// kindForType pins each activity type to the kind its target must carry.
// wishlist_added targets the listing that was added, not the wishlist.
var kindForType = map[ActivityType]TargetKind{
	ActivityListingCreated:   TargetListing,
	ActivityReviewPosted:     TargetReview,
	ActivityBookingMade:      TargetBooking,
	ActivityBookingConfirmed: TargetBooking,
	ActivityBookingCancelled: TargetBooking,
	ActivityUserFollowed:     TargetUser,
	ActivityWishlistAdded:    TargetListing,
	ActivityMessageSent:      TargetMessage,
}

// KindForType returns the target kind implied by an activity type, and
// whether the type is a member of the closed enumeration.
func KindForType(t ActivityType) (TargetKind, bool) {
	kind, ok := kindForType[t]
	return kind, ok
}

// Valid reports whether the kind is a member of the closed enumeration.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetListing, TargetBooking, TargetReview, TargetUser, TargetWishlist, TargetMessage:
		return true
	}
	return false
}

// Activity is an immutable record of a user action with a polymorphic
// reference to the entity the action concerns. Rows are created exactly once
// by the producing workflow and never updated.
type Activity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActorID    primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	Type       ActivityType       `bson:"type" json:"type"`
	TargetID   primitive.ObjectID `bson:"target_id" json:"target_id"`
	TargetKind TargetKind         `bson:"target_kind" json:"target_kind"`
	// Metadata holds denormalized display fields captured at write time
	// (listing title, guest name, rating) so rendering does not always need
	// the resolved target.
	Metadata  bson.M    `bson:"metadata" json:"metadata"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// TargetRef identifies one polymorphic target to resolve.
type TargetRef struct {
	ID   primitive.ObjectID
	Kind TargetKind
}

package repository

import (
	"context"

	"github.com/aidostt/wanderstay/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the service layer. Services depend on these
// rather than the concrete repositories so unit tests can substitute mocks.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetUserSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error
	AdjustFollowCounts(ctx context.Context, id primitive.ObjectID, followersDelta, followingDelta int) error
}

type ListingStore interface {
	CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	GetListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	GetListingsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Listing, error)
	GetListingSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.ListingSummary, error)
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status string) error
	GetBookingsByGuest(ctx context.Context, guestID primitive.ObjectID) ([]models.Booking, error)
	GetBookingSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.BookingSummary, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, review *models.Review) (*models.Review, error)
	GetReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	SetHostResponse(ctx context.Context, id primitive.ObjectID, response *models.HostResponse) error
	GetReviewSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.ReviewSummary, error)
}

type WishlistStore interface {
	CreateWishlist(ctx context.Context, wishlist *models.Wishlist) (*models.Wishlist, error)
	GetWishlistByID(ctx context.Context, id primitive.ObjectID) (*models.Wishlist, error)
	GetWishlistsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error)
	AddListing(ctx context.Context, wishlistID, listingID primitive.ObjectID) (bool, error)
	RemoveListing(ctx context.Context, wishlistID, listingID primitive.ObjectID) error
	GetWishlistSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.WishlistSummary, error)
}

type ChatStore interface {
	FindConversation(ctx context.Context, userA, userB, listingID primitive.ObjectID) (*models.Conversation, error)
	CreateConversation(ctx context.Context, conv *models.Conversation) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	GetConversationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)
	InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetMessages(ctx context.Context, conversationID primitive.ObjectID, limit int64) ([]models.Message, error)
	GetMessageSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.MessageSummary, error)
}

// FollowGraph is the read-only view of the social graph used by feed fan-out
// and the privacy filter. Implemented by FollowRepository and, when Redis is
// configured, by the caching wrapper in internal/cache.
type FollowGraph interface {
	GetFolloweeIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	IsFollowing(ctx context.Context, followerID, followingID primitive.ObjectID) (bool, error)
}

type FollowStore interface {
	FollowGraph
	CreateFollow(ctx context.Context, follow *models.Follow) (*models.Follow, error)
	DeleteFollow(ctx context.Context, followerID, followingID primitive.ObjectID) error
	GetFollowerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type ActivityStore interface {
	InsertActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	GetActivitiesByActors(ctx context.Context, actorIDs []primitive.ObjectID, skip, limit int64) ([]models.Activity, error)
	GetActivitiesByActor(ctx context.Context, actorID primitive.ObjectID, skip, limit int64) ([]models.Activity, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	DeleteNotification(ctx context.Context, id primitive.ObjectID) error
	DeleteExpiredNotifications(ctx context.Context) error
}

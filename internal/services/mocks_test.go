package services

import (
	"context"
	"os"
	"testing"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

// Function-field mocks for the store interfaces. Tests set only the fields
// they need; calling an unset field panics, which surfaces unexpected calls.

type mockActivityStore struct {
	InsertActivityFn        func(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	GetActivitiesByActorsFn func(ctx context.Context, actorIDs []primitive.ObjectID, skip, limit int64) ([]models.Activity, error)
	GetActivitiesByActorFn  func(ctx context.Context, actorID primitive.ObjectID, skip, limit int64) ([]models.Activity, error)
}

func (m *mockActivityStore) InsertActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	return m.InsertActivityFn(ctx, activity)
}

func (m *mockActivityStore) GetActivitiesByActors(ctx context.Context, actorIDs []primitive.ObjectID, skip, limit int64) ([]models.Activity, error) {
	return m.GetActivitiesByActorsFn(ctx, actorIDs, skip, limit)
}

func (m *mockActivityStore) GetActivitiesByActor(ctx context.Context, actorID primitive.ObjectID, skip, limit int64) ([]models.Activity, error) {
	return m.GetActivitiesByActorFn(ctx, actorID, skip, limit)
}

type mockFollowStore struct {
	GetFolloweeIDsFn func(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	IsFollowingFn    func(ctx context.Context, followerID, followingID primitive.ObjectID) (bool, error)
	CreateFollowFn   func(ctx context.Context, follow *models.Follow) (*models.Follow, error)
	DeleteFollowFn   func(ctx context.Context, followerID, followingID primitive.ObjectID) error
	GetFollowerIDsFn func(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

func (m *mockFollowStore) GetFolloweeIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return m.GetFolloweeIDsFn(ctx, userID)
}

func (m *mockFollowStore) IsFollowing(ctx context.Context, followerID, followingID primitive.ObjectID) (bool, error) {
	return m.IsFollowingFn(ctx, followerID, followingID)
}

func (m *mockFollowStore) CreateFollow(ctx context.Context, follow *models.Follow) (*models.Follow, error) {
	return m.CreateFollowFn(ctx, follow)
}

func (m *mockFollowStore) DeleteFollow(ctx context.Context, followerID, followingID primitive.ObjectID) error {
	return m.DeleteFollowFn(ctx, followerID, followingID)
}

func (m *mockFollowStore) GetFollowerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return m.GetFollowerIDsFn(ctx, userID)
}

type mockUserStore struct {
	CreateUserFn         func(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmailFn     func(ctx context.Context, email string) (*models.User, error)
	GetUserByIDFn        func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDsFn      func(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetUserSummariesFn   func(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error)
	UpdateUserFn         func(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error
	AdjustFollowCountsFn func(ctx context.Context, id primitive.ObjectID, followersDelta, followingDelta int) error
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return m.CreateUserFn(ctx, user)
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetUserByEmailFn(ctx, email)
}

func (m *mockUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.GetUserByIDFn(ctx, id)
}

func (m *mockUserStore) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return m.GetUsersByIDsFn(ctx, ids)
}

func (m *mockUserStore) GetUserSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	return m.GetUserSummariesFn(ctx, ids)
}

func (m *mockUserStore) UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	return m.UpdateUserFn(ctx, id, update)
}

func (m *mockUserStore) AdjustFollowCounts(ctx context.Context, id primitive.ObjectID, followersDelta, followingDelta int) error {
	return m.AdjustFollowCountsFn(ctx, id, followersDelta, followingDelta)
}

type mockListingStore struct {
	CreateListingFn       func(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	GetListingByIDFn      func(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	GetListingsByOwnerFn  func(ctx context.Context, ownerID primitive.ObjectID) ([]models.Listing, error)
	GetListingSummariesFn func(ctx context.Context, ids []primitive.ObjectID) ([]models.ListingSummary, error)
}

func (m *mockListingStore) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	return m.CreateListingFn(ctx, listing)
}

func (m *mockListingStore) GetListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	return m.GetListingByIDFn(ctx, id)
}

func (m *mockListingStore) GetListingsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Listing, error) {
	return m.GetListingsByOwnerFn(ctx, ownerID)
}

func (m *mockListingStore) GetListingSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.ListingSummary, error) {
	return m.GetListingSummariesFn(ctx, ids)
}

type mockBookingStore struct {
	CreateBookingFn       func(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetBookingByIDFn      func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	UpdateBookingStatusFn func(ctx context.Context, id primitive.ObjectID, status string) error
	GetBookingsByGuestFn  func(ctx context.Context, guestID primitive.ObjectID) ([]models.Booking, error)
	GetBookingSummariesFn func(ctx context.Context, ids []primitive.ObjectID) ([]models.BookingSummary, error)
}

func (m *mockBookingStore) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	return m.CreateBookingFn(ctx, booking)
}

func (m *mockBookingStore) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	return m.GetBookingByIDFn(ctx, id)
}

func (m *mockBookingStore) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return m.UpdateBookingStatusFn(ctx, id, status)
}

func (m *mockBookingStore) GetBookingsByGuest(ctx context.Context, guestID primitive.ObjectID) ([]models.Booking, error) {
	return m.GetBookingsByGuestFn(ctx, guestID)
}

func (m *mockBookingStore) GetBookingSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.BookingSummary, error) {
	return m.GetBookingSummariesFn(ctx, ids)
}

type mockReviewStore struct {
	CreateReviewFn       func(ctx context.Context, review *models.Review) (*models.Review, error)
	GetReviewByIDFn      func(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	SetHostResponseFn    func(ctx context.Context, id primitive.ObjectID, response *models.HostResponse) error
	GetReviewSummariesFn func(ctx context.Context, ids []primitive.ObjectID) ([]models.ReviewSummary, error)
}

func (m *mockReviewStore) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	return m.CreateReviewFn(ctx, review)
}

func (m *mockReviewStore) GetReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return m.GetReviewByIDFn(ctx, id)
}

func (m *mockReviewStore) SetHostResponse(ctx context.Context, id primitive.ObjectID, response *models.HostResponse) error {
	return m.SetHostResponseFn(ctx, id, response)
}

func (m *mockReviewStore) GetReviewSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.ReviewSummary, error) {
	return m.GetReviewSummariesFn(ctx, ids)
}

type mockWishlistStore struct {
	CreateWishlistFn       func(ctx context.Context, wishlist *models.Wishlist) (*models.Wishlist, error)
	GetWishlistByIDFn      func(ctx context.Context, id primitive.ObjectID) (*models.Wishlist, error)
	GetWishlistsByUserFn   func(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error)
	AddListingFn           func(ctx context.Context, wishlistID, listingID primitive.ObjectID) (bool, error)
	RemoveListingFn        func(ctx context.Context, wishlistID, listingID primitive.ObjectID) error
	GetWishlistSummariesFn func(ctx context.Context, ids []primitive.ObjectID) ([]models.WishlistSummary, error)
}

func (m *mockWishlistStore) CreateWishlist(ctx context.Context, wishlist *models.Wishlist) (*models.Wishlist, error) {
	return m.CreateWishlistFn(ctx, wishlist)
}

func (m *mockWishlistStore) GetWishlistByID(ctx context.Context, id primitive.ObjectID) (*models.Wishlist, error) {
	return m.GetWishlistByIDFn(ctx, id)
}

func (m *mockWishlistStore) GetWishlistsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error) {
	return m.GetWishlistsByUserFn(ctx, userID)
}

func (m *mockWishlistStore) AddListing(ctx context.Context, wishlistID, listingID primitive.ObjectID) (bool, error) {
	return m.AddListingFn(ctx, wishlistID, listingID)
}

func (m *mockWishlistStore) RemoveListing(ctx context.Context, wishlistID, listingID primitive.ObjectID) error {
	return m.RemoveListingFn(ctx, wishlistID, listingID)
}

func (m *mockWishlistStore) GetWishlistSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.WishlistSummary, error) {
	return m.GetWishlistSummariesFn(ctx, ids)
}

type mockChatStore struct {
	FindConversationFn       func(ctx context.Context, userA, userB, listingID primitive.ObjectID) (*models.Conversation, error)
	CreateConversationFn     func(ctx context.Context, conv *models.Conversation) (*models.Conversation, error)
	GetConversationByIDFn    func(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	GetConversationsByUserFn func(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)
	InsertMessageFn          func(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetMessagesFn            func(ctx context.Context, conversationID primitive.ObjectID, limit int64) ([]models.Message, error)
	GetMessageSummariesFn    func(ctx context.Context, ids []primitive.ObjectID) ([]models.MessageSummary, error)
}

func (m *mockChatStore) FindConversation(ctx context.Context, userA, userB, listingID primitive.ObjectID) (*models.Conversation, error) {
	return m.FindConversationFn(ctx, userA, userB, listingID)
}

func (m *mockChatStore) CreateConversation(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	return m.CreateConversationFn(ctx, conv)
}

func (m *mockChatStore) GetConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	return m.GetConversationByIDFn(ctx, id)
}

func (m *mockChatStore) GetConversationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	return m.GetConversationsByUserFn(ctx, userID)
}

func (m *mockChatStore) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	return m.InsertMessageFn(ctx, msg)
}

func (m *mockChatStore) GetMessages(ctx context.Context, conversationID primitive.ObjectID, limit int64) ([]models.Message, error) {
	return m.GetMessagesFn(ctx, conversationID, limit)
}

func (m *mockChatStore) GetMessageSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.MessageSummary, error) {
	return m.GetMessageSummariesFn(ctx, ids)
}

type mockNotificationStore struct {
	CreateNotificationFn         func(ctx context.Context, notif *models.Notification) error
	GetUserNotificationsFn       func(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsReadFn                 func(ctx context.Context, id primitive.ObjectID) error
	DeleteNotificationFn         func(ctx context.Context, id primitive.ObjectID) error
	DeleteExpiredNotificationsFn func(ctx context.Context) error
}

func (m *mockNotificationStore) CreateNotification(ctx context.Context, notif *models.Notification) error {
	return m.CreateNotificationFn(ctx, notif)
}

func (m *mockNotificationStore) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return m.GetUserNotificationsFn(ctx, userID)
}

func (m *mockNotificationStore) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	return m.MarkAsReadFn(ctx, id)
}

func (m *mockNotificationStore) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	return m.DeleteNotificationFn(ctx, id)
}

func (m *mockNotificationStore) DeleteExpiredNotifications(ctx context.Context) error {
	return m.DeleteExpiredNotificationsFn(ctx)
}

type mockTargetResolver struct {
	ResolveBatchFn func(ctx context.Context, refs []models.TargetRef) map[models.TargetRef]models.ResolvedTarget
}

func (m *mockTargetResolver) ResolveBatch(ctx context.Context, refs []models.TargetRef) map[models.TargetRef]models.ResolvedTarget {
	return m.ResolveBatchFn(ctx, refs)
}

// passthroughResolver marks every ref found with an empty target, for feed
// tests that do not care about target contents.
func passthroughResolver() *mockTargetResolver {
	return &mockTargetResolver{
		ResolveBatchFn: func(ctx context.Context, refs []models.TargetRef) map[models.TargetRef]models.ResolvedTarget {
			out := make(map[models.TargetRef]models.ResolvedTarget, len(refs))
			for _, ref := range refs {
				out[ref] = models.ResolvedTarget{Kind: ref.Kind}
			}
			return out
		},
	}
}

// recordingActivityStore captures every insert, for workflow tests that only
// care that an activity was (or was not) recorded.
func recordingActivityStore(recorded *[]models.Activity) *mockActivityStore {
	return &mockActivityStore{
		InsertActivityFn: func(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
			*recorded = append(*recorded, *activity)
			return activity, nil
		},
	}
}

// silentNotifications builds a NotificationService whose store accepts
// everything, so workflow tests can ignore the notification side effects.
func silentNotifications() *NotificationService {
	return NewNotificationService(&mockNotificationStore{
		CreateNotificationFn: func(ctx context.Context, notif *models.Notification) error {
			return nil
		},
	}, nil)
}

package services

import (
	"context"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetResolver resolves a page of polymorphic activity targets into their
// render projections.
type TargetResolver interface {
	ResolveBatch(ctx context.Context, refs []models.TargetRef) map[models.TargetRef]models.ResolvedTarget
}

// targetResolver dispatches on target kind to the owning collection. One
// batched lookup per kind present in the page, never one query per activity.
type targetResolver struct {
	listings  repository.ListingStore
	bookings  repository.BookingStore
	reviews   repository.ReviewStore
	users     repository.UserStore
	wishlists repository.WishlistStore
	messages  repository.ChatStore

	// batchTimeout bounds each per-kind lookup; a slow kind degrades its
	// subset to missing instead of stalling the whole feed page.
	batchTimeout time.Duration
}

// NewTargetResolver creates a resolver over the six target collections.
func NewTargetResolver(
	listings repository.ListingStore,
	bookings repository.BookingStore,
	reviews repository.ReviewStore,
	users repository.UserStore,
	wishlists repository.WishlistStore,
	messages repository.ChatStore,
	batchTimeout time.Duration,
) TargetResolver {
	return &targetResolver{
		listings:     listings,
		bookings:     bookings,
		reviews:      reviews,
		users:        users,
		wishlists:    wishlists,
		messages:     messages,
		batchTimeout: batchTimeout,
	}
}

// ResolveBatch resolves every ref to its projection or to the missing
// sentinel. It never returns an error: a failed or timed-out batch, an
// unknown kind, or a deleted target all become missing entries, and the feed
// renders them degraded.
func (r *targetResolver) ResolveBatch(ctx context.Context, refs []models.TargetRef) map[models.TargetRef]models.ResolvedTarget {
	resolved := make(map[models.TargetRef]models.ResolvedTarget, len(refs))

	// Group targets by kind, dropping duplicates.
	byKind := make(map[models.TargetKind][]primitive.ObjectID)
	seen := make(map[models.TargetRef]struct{})
	for _, ref := range refs {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		// Everything starts missing; found targets overwrite below.
		resolved[ref] = models.MissingTarget(ref.Kind)

		if !ref.Kind.Valid() {
			logrus.Warnf("Activity with unknown target kind %q, rendering as missing", ref.Kind)
			continue
		}
		byKind[ref.Kind] = append(byKind[ref.Kind], ref.ID)
	}

	for kind, ids := range byKind {
		batchCtx, cancel := context.WithTimeout(ctx, r.batchTimeout)
		if err := r.resolveKind(batchCtx, kind, ids, resolved); err != nil {
			logrus.WithError(err).Warnf("Target batch for kind %s failed, rendering %d targets as missing", kind, len(ids))
		}
		cancel()
	}

	return resolved
}

func (r *targetResolver) resolveKind(ctx context.Context, kind models.TargetKind, ids []primitive.ObjectID, resolved map[models.TargetRef]models.ResolvedTarget) error {
	switch kind {
	case models.TargetListing:
		summaries, err := r.listings.GetListingSummaries(ctx, ids)
		if err != nil {
			return err
		}
		for i := range summaries {
			s := summaries[i]
			resolved[models.TargetRef{ID: s.ID, Kind: kind}] = models.ResolvedTarget{Kind: kind, Listing: &s}
		}

	case models.TargetBooking:
		summaries, err := r.bookings.GetBookingSummaries(ctx, ids)
		if err != nil {
			return err
		}
		for i := range summaries {
			s := summaries[i]
			resolved[models.TargetRef{ID: s.ID, Kind: kind}] = models.ResolvedTarget{Kind: kind, Booking: &s}
		}

	case models.TargetReview:
		summaries, err := r.reviews.GetReviewSummaries(ctx, ids)
		if err != nil {
			return err
		}
		for i := range summaries {
			s := summaries[i]
			resolved[models.TargetRef{ID: s.ID, Kind: kind}] = models.ResolvedTarget{Kind: kind, Review: &s}
		}

	case models.TargetUser:
		summaries, err := r.users.GetUserSummaries(ctx, ids)
		if err != nil {
			return err
		}
		for i := range summaries {
			s := summaries[i]
			resolved[models.TargetRef{ID: s.ID, Kind: kind}] = models.ResolvedTarget{Kind: kind, User: &s}
		}

	case models.TargetWishlist:
		summaries, err := r.wishlists.GetWishlistSummaries(ctx, ids)
		if err != nil {
			return err
		}
		for i := range summaries {
			s := summaries[i]
			resolved[models.TargetRef{ID: s.ID, Kind: kind}] = models.ResolvedTarget{Kind: kind, Wishlist: &s}
		}

	case models.TargetMessage:
		summaries, err := r.messages.GetMessageSummaries(ctx, ids)
		if err != nil {
			return err
		}
		for i := range summaries {
			s := summaries[i]
			resolved[models.TargetRef{ID: s.ID, Kind: kind}] = models.ResolvedTarget{Kind: kind, Message: &s}
		}
	}

	return nil
}

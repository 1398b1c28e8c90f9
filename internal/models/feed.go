package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedItem is one rendered feed entry: the activity, its actor's display
// fields and its resolved (possibly missing) target.
type FeedItem struct {
	ID        primitive.ObjectID `json:"id"`
	Type      ActivityType       `json:"type"`
	Actor     UserSummary        `json:"actor"`
	Target    ResolvedTarget     `json:"target"`
	Metadata  bson.M             `json:"metadata"`
	CreatedAt time.Time          `json:"created_at"`
}

// FeedPage is one page of a viewer's feed. HasMore is computed from the raw
// pre-privacy-filter row count: a page whose rows were all filtered away
// still reports HasMore when the raw query was full.
type FeedPage struct {
	Items   []FeedItem `json:"items"`
	Page    int        `json:"page"`
	HasMore bool       `json:"has_more"`
}

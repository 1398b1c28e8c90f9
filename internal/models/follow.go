package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow is a directed edge in the social graph: follower follows following.
// The (follower, following) pair is unique; self-follows are rejected by the
// follow workflow before the edge is written.
type Follow struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FollowerID  primitive.ObjectID `bson:"follower_id" json:"follower_id"`
	FollowingID primitive.ObjectID `bson:"following_id" json:"following_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

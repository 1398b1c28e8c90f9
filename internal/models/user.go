package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account on the marketplace. FollowersCount and
// FollowingCount are denormalized counters maintained by the follow workflow.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	FullName       string             `bson:"full_name" json:"full_name"`
	Avatar         string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Role           string             `bson:"role" json:"role"`
	IsPrivate      bool               `bson:"is_private" json:"is_private"`
	FollowersCount int64              `bson:"followers_count" json:"followers_count"`
	FollowingCount int64              `bson:"following_count" json:"following_count"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the profile shape exposed to other users.
type PublicUser struct {
	ID             primitive.ObjectID `json:"id"`
	FullName       string             `json:"full_name"`
	Avatar         string             `json:"avatar,omitempty"`
	Bio            string             `json:"bio,omitempty"`
	IsPrivate      bool               `json:"is_private"`
	FollowersCount int64              `json:"followers_count"`
	FollowingCount int64              `json:"following_count"`
}

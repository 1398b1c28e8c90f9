package services

import (
	"context"
	"fmt"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/aidostt/wanderstay/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService encapsulates account management.
type UserService struct {
	repo repository.UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo repository.UserStore) *UserService {
	return &UserService{repo: repo}
}

// RegisterUser creates a new account with a hashed password.
func (s *UserService) RegisterUser(ctx context.Context, email, fullName, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:          email,
		FullName:       fullName,
		HashedPassword: string(hashed),
		Role:           "user",
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to register user")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	return created, nil
}

// AuthenticateUser checks credentials and returns the account on success.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logger.Log.WithField("email", email).Warn("Failed login attempt")
		return nil, fmt.Errorf("invalid credentials")
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}
	return s.repo.GetUserByID(ctx, objID)
}

// UpdateProfile applies a partial profile update. The is_private flag lives
// here; flipping it changes how the privacy filter treats the user's
// existing activities on the next feed read.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error {
	allowed := map[string]bool{
		"full_name":  true,
		"avatar":     true,
		"bio":        true,
		"is_private": true,
	}
	for field := range update {
		if !allowed[field] {
			return fmt.Errorf("field %q cannot be updated", field)
		}
	}
	if len(update) == 0 {
		return fmt.Errorf("nothing to update")
	}

	if err := s.repo.UpdateUser(ctx, id, update); err != nil {
		logger.Log.WithError(err).Error("Service failed to update profile")
		return fmt.Errorf("failed to update profile: %v", err)
	}
	return nil
}

// PublicProfile projects a user into the shape shown to others.
func PublicProfile(user *models.User) models.PublicUser {
	return models.PublicUser{
		ID:             user.ID,
		FullName:       user.FullName,
		Avatar:         user.Avatar,
		Bio:            user.Bio,
		IsPrivate:      user.IsPrivate,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
	}
}

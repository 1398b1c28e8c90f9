package services

import (
	"context"
	"time"

	"github.com/aidostt/wanderstay/internal/models"
	"github.com/aidostt/wanderstay/internal/realtime"
	"github.com/aidostt/wanderstay/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService persists notifications and pushes them through the
// injected realtime publisher. The publisher is a collaborator, not a global:
// delivery failures never affect the stored notification.
type NotificationService struct {
	repo      repository.NotificationStore
	publisher realtime.Publisher
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationStore, publisher realtime.Publisher) *NotificationService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	return &NotificationService{repo: repo, publisher: publisher}
}

// Notify stores a notification for a user and pushes it to their live
// connection if one exists.
func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, data bson.M) error {
	notif := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    data,
		Read:    false,
	}

	if err := s.repo.CreateNotification(ctx, notif); err != nil {
		return err
	}

	s.publisher.Publish(userID.Hex(), realtime.Event{
		Type: "notification",
		Payload: map[string]interface{}{
			"type":    notifType,
			"title":   title,
			"message": message,
			"data":    data,
		},
		CreatedAt: time.Now(),
	})

	return nil
}

// GetUserNotifications returns all unexpired notifications for a user.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead sets the "read" status of a notification to true.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, notifID primitive.ObjectID) error {
	return s.repo.MarkAsRead(ctx, notifID)
}

// DeleteNotification deletes a specific notification.
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID primitive.ObjectID) error {
	return s.repo.DeleteNotification(ctx, notifID)
}

// DeleteExpiredNotifications is called periodically by the cron sweep.
func (s *NotificationService) DeleteExpiredNotifications(ctx context.Context) error {
	err := s.repo.DeleteExpiredNotifications(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete expired notifications")
	}
	return err
}

package notification

import (
	"context"
	"fmt"
	"time"

	"groundbook/database/repository"
	"groundbook/models"
	"groundbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	repo   repository.NotificationRepository
	users  TokenSource
	pusher Pusher
	now    func() time.Time
}

// NewDefaultNotificationService wires the store, the token lookup and the push channel.
// users and pusher may be nil, in which case nothing is pushed.
func NewDefaultNotificationService(repo repository.NotificationRepository, users TokenSource, pusher Pusher) (*DefaultNotificationService, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification service initialization error: repository is nil")
	}
	return &DefaultNotificationService{
		repo:   repo,
		users:  users,
		pusher: pusher,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *DefaultNotificationService) DispatchStatusChange(ctx context.Context, b *models.Booking, status models.BookingStatus, comment string) error {
	n, ok := ComposeStatusNotification(b, status, comment)
	if !ok {
		return nil
	}
	if err := s.store(ctx, &n); err != nil {
		return utils.NotificationDispatchError{BookingID: b.ID, Err: err}
	}
	s.push(ctx, &n)
	return nil
}

func (s *DefaultNotificationService) SendReminder(ctx context.Context, b *models.Booking) error {
	n := ComposeReminder(b)
	if err := s.store(ctx, &n); err != nil {
		return utils.NotificationDispatchError{BookingID: b.ID, Err: err}
	}
	s.push(ctx, &n)
	return nil
}

func (s *DefaultNotificationService) store(ctx context.Context, n *models.Notification) error {
	now := s.now()
	n.ID = uuid.New().String()
	n.IsRead = false
	n.CreatedAt = now
	n.UpdatedAt = now
	return s.repo.Create(ctx, n)
}

// push is best effort: the notification is already stored, so failures are only logged.
func (s *DefaultNotificationService) push(ctx context.Context, n *models.Notification) {
	if s.pusher == nil || s.users == nil {
		return
	}
	logger := utils.GetLogger().With(zap.String("userID", n.UserID), zap.String("notificationID", n.ID))

	profile, err := s.users.GetByID(ctx, n.UserID)
	if err != nil {
		logger.Warn("Push skipped: could not load recipient", zap.Error(err))
		return
	}
	if profile.FCMToken == "" {
		logger.Debug("Push skipped: recipient has no FCM token")
		return
	}

	data := map[string]string{
		"type":            string(n.Type),
		"notification_id": n.ID,
		"booking_id":      n.BookingID,
	}
	if err := s.pusher.Push(ctx, profile.FCMToken, n.Title, n.Message, data); err != nil {
		logger.Warn("Push notification failed", zap.Error(err))
	}
}

func (s *DefaultNotificationService) ListUserNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *DefaultNotificationService) MarkNotificationRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *DefaultNotificationService) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *DefaultNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

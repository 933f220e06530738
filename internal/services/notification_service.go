package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/events"
	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

type notificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	db        *gorm.DB
	logger    *slog.Logger
}

func NewNotificationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, publisher events.EventPublisher) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		db:        db,
		logger:    logger,
	}
}

// ===== DELIVERY =====

func (s *notificationService) NotifyUser(ctx context.Context, userID uint, title, message string, notificationType models.NotificationType, metadata map[string]interface{}) error {
	notification, err := buildNotification(userID, title, message, notificationType, metadata)
	if err != nil {
		return err
	}

	if err := s.repo.Notification().Create(ctx, s.db, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.publishCreated(ctx, notification)
	return nil
}

func (s *notificationService) NotifyRole(ctx context.Context, role models.UserRole, title, message string, notificationType models.NotificationType, metadata map[string]interface{}) error {
	userIDs, err := s.repo.User().ListIDsByRole(ctx, s.db, role)
	if err != nil {
		return fmt.Errorf("failed to list %s users: %w", role, err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	notifications := make([]*models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notification, err := buildNotification(userID, title, message, notificationType, metadata)
		if err != nil {
			return err
		}
		notifications = append(notifications, notification)
	}

	if err := s.repo.Notification().CreateBatch(ctx, s.db, notifications); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	s.logger.Info("Role notification delivered", "role", role, "recipients", len(notifications), "title", title)

	for _, notification := range notifications {
		s.publishCreated(ctx, notification)
	}
	return nil
}

// ===== INBOX =====

func (s *notificationService) List(ctx context.Context, userID uint, filters repositories.NotificationFilters) (*NotificationListResponse, error) {
	notifications, total, err := s.repo.Notification().ListByUser(ctx, s.db, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.Notification().CountUnread(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, userID uint) error {
	if err := s.repo.Notification().MarkRead(ctx, s.db, id, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.repo.Notification().MarkAllRead(ctx, s.db, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// ===== HELPERS =====

func buildNotification(userID uint, title, message string, notificationType models.NotificationType, metadata map[string]interface{}) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notificationType,
	}

	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(raw)
	}

	return notification, nil
}

// publishCreated mirrors the persisted notification onto the event bus so
// downstream channels (mail, push) can pick it up. Best-effort.
func (s *notificationService) publishCreated(ctx context.Context, notification *models.Notification) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.TypeNotificationCreated, events.NotificationCreatedEvent{
		NotificationID: notification.ID,
		UserID:         notification.UserID,
		Type:           string(notification.Type),
		Title:          notification.Title,
	})
	if err := s.publisher.Publish(ctx, events.TopicNotifications, event); err != nil {
		s.logger.Warn("Failed to publish notification event", "notification_id", notification.ID, "error", err)
	}
}

package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
)

// NotificationRepository interface for notification persistence
type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	CreateBatch(ctx context.Context, tx *gorm.DB, notifications []*models.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Notification, error)

	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters NotificationFilters) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)

	MarkRead(ctx context.Context, tx *gorm.DB, id uint, userID uint) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID uint) error
}

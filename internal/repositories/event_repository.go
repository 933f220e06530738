package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
)

// EventRepository interface for event catalogue operations
type EventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.Event) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)
	Update(ctx context.Context, tx *gorm.DB, event *models.Event) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters EventFilters) ([]*models.Event, int64, error)
	ExistsByTitleAndDate(ctx context.Context, tx *gorm.DB, title string, startDate time.Time) (bool, error)
}

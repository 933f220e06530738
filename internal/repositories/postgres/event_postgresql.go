package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/cache"
	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

type EventPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewEventPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EventRepository {
	return &EventPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (e *EventPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *EventPostgreSQL) Create(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Create(event).Error; err != nil {
		return err
	}
	_ = e.cacheManager.InvalidateEvent(ctx, event.ID)
	return nil
}

func (e *EventPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	db := e.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var event models.Event

	err := e.cacheManager.Event.CacheOrExecute(ctx, cacheKey, &event, cache.EventCacheConfig.TTL, func() (interface{}, error) {
		var dbEvent models.Event
		if err := db.WithContext(ctx).Preload("Poster").First(&dbEvent, id).Error; err != nil {
			return nil, err
		}
		return &dbEvent, nil
	})
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (e *EventPostgreSQL) Update(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Save(event).Error; err != nil {
		return err
	}
	_ = e.cacheManager.InvalidateEvent(ctx, event.ID)
	return nil
}

func (e *EventPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Event{}, id).Error; err != nil {
		return err
	}
	_ = e.cacheManager.InvalidateEvent(ctx, id)
	return nil
}

func (e *EventPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	db := e.getDB(tx)
	var events []*models.Event
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.Event{})
	query = e.helpers.ApplyEventFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = e.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Poster").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (e *EventPostgreSQL) ExistsByTitleAndDate(ctx context.Context, tx *gorm.DB, title string, startDate time.Time) (bool, error) {
	db := e.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Event{}).
		Where("title = ? AND start_date = ?", title, startDate).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

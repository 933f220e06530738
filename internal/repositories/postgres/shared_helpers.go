package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// CountParticipationsByStudent counts submissions by a student
func (h *SharedHelpers) CountParticipationsByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

// CountParticipationsByStatus counts submissions in a given status
func (h *SharedHelpers) CountParticipationsByStatus(ctx context.Context, status models.ParticipationStatus) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// ApplyParticipationFilters applies common filters to participation queries
func (h *SharedHelpers) ApplyParticipationFilters(query *gorm.DB, filters repositories.ParticipationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.EventID != nil {
		query = query.Where("event_id = ?", *filters.EventID)
	}
	if filters.SubmittedFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.SubmittedFrom)
	}
	if filters.SubmittedTo != nil {
		query = query.Where("submitted_at <= ?", *filters.SubmittedTo)
	}
	return query
}

// ApplyEventFilters applies common filters to event queries
func (h *SharedHelpers) ApplyEventFilters(query *gorm.DB, filters repositories.EventFilters) *gorm.DB {
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.PostedBy != nil {
		query = query.Where("posted_by = ?", *filters.PostedBy)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.DateFrom != nil {
		query = query.Where("start_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("start_date <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"id":           true,
		"title":        true,
		"event_name":   true,
		"status":       true,
		"category":     true,
		"start_date":   true,
		"submitted_at": true,
	}

	// Validate and set sort column
	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	// Validate and set sort order
	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	return applyPagination(query, limit, offset)
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== DASHBOARD COUNTS =====

func (r *dashboardRepository) GetTotalStudents(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Student{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total students: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalEvents(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Event{}).
		Where("deleted_at IS NULL").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total events: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetTotalParticipations(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Participation{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to get total participations: %w", err)
	}

	return count, nil
}

func (r *dashboardRepository) GetParticipationCountByStatus(ctx context.Context, tx *gorm.DB, status models.ParticipationStatus) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count participations by status: %w", err)
	}

	return count, nil
}

// ===== DISTRIBUTION =====

func (r *dashboardRepository) GetParticipationDistribution(ctx context.Context, tx *gorm.DB) ([]repositories.ParticipationDistributionData, error) {
	db := r.getDB(tx)

	var rows []struct {
		Category string
		Count    int64
	}

	// Free-form submissions carry no catalogue link; they land in "other".
	if err := db.WithContext(ctx).
		Model(&models.Participation{}).
		Select("COALESCE(events.category, 'other') AS category, COUNT(*) as count").
		Joins("LEFT JOIN events ON events.id = participations.event_id").
		Group("COALESCE(events.category, 'other')").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get participation distribution: %w", err)
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}

	result := make([]repositories.ParticipationDistributionData, len(rows))
	for i, row := range rows {
		percentage := 0.0
		if total > 0 {
			percentage = float64(row.Count) / float64(total) * 100
		}
		result[i] = repositories.ParticipationDistributionData{
			Category:   row.Category,
			Count:      row.Count,
			Percentage: percentage,
		}
	}

	return result, nil
}

// ===== RECENT SUBMISSIONS =====

func (r *dashboardRepository) GetRecentSubmissions(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.RecentSubmissionData, error) {
	db := r.getDB(tx)

	if limit <= 0 {
		limit = 10
	}

	var rows []repositories.RecentSubmissionData
	if err := db.WithContext(ctx).
		Model(&models.Participation{}).
		Select(`participations.id,
			participations.student_id,
			users.first_name || ' ' || users.last_name AS student_name,
			students.usn AS student_usn,
			participations.event_name,
			participations.status,
			participations.submitted_at`).
		Joins("JOIN students ON students.id = participations.student_id").
		Joins("JOIN users ON users.id = students.user_id").
		Order("participations.submitted_at DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent submissions: %w", err)
	}

	return rows, nil
}

// ===== DEPARTMENT ACTIVITY =====

func (r *dashboardRepository) GetDepartmentActivity(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.DepartmentActivityData, error) {
	db := r.getDB(tx)

	if limit <= 0 {
		limit = 10
	}

	var rows []repositories.DepartmentActivityData
	if err := db.WithContext(ctx).
		Model(&models.Student{}).
		Select(`students.department,
			COUNT(DISTINCT students.id) AS students,
			COUNT(participations.id) AS submissions,
			COUNT(participations.id) FILTER (WHERE participations.status = ?) AS pending_review`,
			models.ParticipationPending).
		Joins("LEFT JOIN participations ON participations.student_id = students.id").
		Group("students.department").
		Order("submissions DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get department activity: %w", err)
	}

	return rows, nil
}

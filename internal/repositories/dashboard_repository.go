package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
)

// DashboardRepository interface for dashboard analytics operations
type DashboardRepository interface {
	// Dashboard counts
	GetTotalStudents(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalEvents(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalParticipations(ctx context.Context, tx *gorm.DB) (int64, error)
	GetParticipationCountByStatus(ctx context.Context, tx *gorm.DB, status models.ParticipationStatus) (int64, error)

	// Breakdown by event type
	GetParticipationDistribution(ctx context.Context, tx *gorm.DB) ([]ParticipationDistributionData, error)

	// Recent submissions feed
	GetRecentSubmissions(ctx context.Context, tx *gorm.DB, limit int) ([]RecentSubmissionData, error)

	// Per-department review load
	GetDepartmentActivity(ctx context.Context, tx *gorm.DB, limit int) ([]DepartmentActivityData, error)
}

// Data structures for dashboard responses

type ParticipationDistributionData struct {
	Category   string  `json:"category"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type RecentSubmissionData struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	StudentUSN  string    `json:"student_usn"`
	EventName   string    `json:"event_name"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type DepartmentActivityData struct {
	Department    string `json:"department"`
	Students      int64  `json:"students"`
	Submissions   int64  `json:"submissions"`
	PendingReview int64  `json:"pending_review"`
}

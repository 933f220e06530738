package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

type DashboardStatsResponse struct {
	Overview     DashboardOverview                     `json:"overview"`
	Distribution []ParticipationDistributionResponse   `json:"distribution"`
	Recent       []repositories.RecentSubmissionData   `json:"recent_submissions"`
	Departments  []repositories.DepartmentActivityData `json:"department_activity"`
}

type DashboardOverview struct {
	TotalStudents       int64 `json:"total_students"`
	TotalEvents         int64 `json:"total_events"`
	TotalParticipations int64 `json:"total_participations"`
	PendingReview       int64 `json:"pending_review"`
	Approved            int64 `json:"approved"`
	Rejected            int64 `json:"rejected"`
}

type ParticipationDistributionResponse struct {
	Category   string  `json:"category"`
	Name       string  `json:"name"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ===== SERVICE INTERFACE =====

type DashboardService interface {
	// Core dashboard endpoints
	GetDashboardStats(ctx context.Context) (*DashboardStatsResponse, error)
	GetRecentSubmissions(ctx context.Context, limit int) ([]repositories.RecentSubmissionData, error)
	GetDepartmentActivity(ctx context.Context, limit int) ([]repositories.DepartmentActivityData, error)
}

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStatsResponse, error) {
	s.logger.Info("Getting dashboard stats")

	totalStudents, err := s.repo.Dashboard().GetTotalStudents(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total students: %w", err)
	}

	totalEvents, err := s.repo.Dashboard().GetTotalEvents(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total events: %w", err)
	}

	totalParticipations, err := s.repo.Dashboard().GetTotalParticipations(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total participations: %w", err)
	}

	overview := DashboardOverview{
		TotalStudents:       totalStudents,
		TotalEvents:         totalEvents,
		TotalParticipations: totalParticipations,
	}

	statusCounts := []struct {
		status models.ParticipationStatus
		target *int64
	}{
		{models.ParticipationPending, &overview.PendingReview},
		{models.ParticipationApproved, &overview.Approved},
		{models.ParticipationRejected, &overview.Rejected},
	}
	for _, sc := range statusCounts {
		count, err := s.repo.Dashboard().GetParticipationCountByStatus(ctx, nil, sc.status)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s participations: %w", sc.status, err)
		}
		*sc.target = count
	}

	distribution, err := s.repo.Dashboard().GetParticipationDistribution(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get participation distribution: %w", err)
	}

	distributionResponse := make([]ParticipationDistributionResponse, len(distribution))
	for i, dist := range distribution {
		distributionResponse[i] = ParticipationDistributionResponse{
			Category:   dist.Category,
			Name:       categoryName(dist.Category),
			Count:      dist.Count,
			Percentage: roundFloat(dist.Percentage, 1),
		}
	}

	recent, err := s.GetRecentSubmissions(ctx, 10)
	if err != nil {
		return nil, err
	}

	departments, err := s.GetDepartmentActivity(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &DashboardStatsResponse{
		Overview:     overview,
		Distribution: distributionResponse,
		Recent:       recent,
		Departments:  departments,
	}, nil
}

func (s *dashboardService) GetRecentSubmissions(ctx context.Context, limit int) ([]repositories.RecentSubmissionData, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	recent, err := s.repo.Dashboard().GetRecentSubmissions(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent submissions: %w", err)
	}
	return recent, nil
}

func (s *dashboardService) GetDepartmentActivity(ctx context.Context, limit int) ([]repositories.DepartmentActivityData, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	departments, err := s.repo.Dashboard().GetDepartmentActivity(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get department activity: %w", err)
	}
	return departments, nil
}

// ===== HELPER FUNCTIONS =====

func roundFloat(val float64, precision int) float64 {
	ratio := 1.0
	for i := 0; i < precision; i++ {
		ratio *= 10
	}
	return float64(int(val*ratio+0.5)) / ratio
}

func categoryName(category string) string {
	names := map[string]string{
		"hackathon":   "Hackathon",
		"workshop":    "Workshop",
		"conference":  "Conference",
		"competition": "Competition",
		"seminar":     "Seminar",
		"cultural":    "Cultural",
		"sports":      "Sports",
		"other":       "Other",
	}

	if name, ok := names[category]; ok {
		return name
	}
	return category
}

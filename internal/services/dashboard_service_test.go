package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

type mockDashboardRepo struct {
	totalStudents       int64
	totalEvents         int64
	totalParticipations int64
	statusCounts        map[models.ParticipationStatus]int64
	distribution        []repositories.ParticipationDistributionData
	recent              []repositories.RecentSubmissionData
	departments         []repositories.DepartmentActivityData

	recentLimit int
}

func (m *mockDashboardRepo) GetTotalStudents(ctx context.Context, tx *gorm.DB) (int64, error) {
	return m.totalStudents, nil
}
func (m *mockDashboardRepo) GetTotalEvents(ctx context.Context, tx *gorm.DB) (int64, error) {
	return m.totalEvents, nil
}
func (m *mockDashboardRepo) GetTotalParticipations(ctx context.Context, tx *gorm.DB) (int64, error) {
	return m.totalParticipations, nil
}
func (m *mockDashboardRepo) GetParticipationCountByStatus(ctx context.Context, tx *gorm.DB, status models.ParticipationStatus) (int64, error) {
	return m.statusCounts[status], nil
}
func (m *mockDashboardRepo) GetParticipationDistribution(ctx context.Context, tx *gorm.DB) ([]repositories.ParticipationDistributionData, error) {
	return m.distribution, nil
}
func (m *mockDashboardRepo) GetRecentSubmissions(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.RecentSubmissionData, error) {
	m.recentLimit = limit
	return m.recent, nil
}
func (m *mockDashboardRepo) GetDepartmentActivity(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.DepartmentActivityData, error) {
	return m.departments, nil
}

type dashboardMockRepository struct {
	*mockRepository
	dashboard *mockDashboardRepo
}

func (m *dashboardMockRepository) Dashboard() repositories.DashboardRepository {
	return m.dashboard
}

func TestDashboardService_GetDashboardStats(t *testing.T) {
	dashboardRepo := &mockDashboardRepo{
		totalStudents:       120,
		totalEvents:         8,
		totalParticipations: 45,
		statusCounts: map[models.ParticipationStatus]int64{
			models.ParticipationPending:  12,
			models.ParticipationApproved: 28,
			models.ParticipationRejected: 5,
		},
		distribution: []repositories.ParticipationDistributionData{
			{Category: "hackathon", Count: 20, Percentage: 44.44},
			{Category: "workshop", Count: 25, Percentage: 55.55},
		},
		recent: []repositories.RecentSubmissionData{
			{ID: 1, StudentName: "Asha Rao", StudentUSN: "1CR18CS001", EventName: "Hackathon 2024", Status: "pending", SubmittedAt: time.Now().UTC()},
		},
		departments: []repositories.DepartmentActivityData{
			{Department: "Computer Science", Students: 60, Submissions: 30, PendingReview: 8},
		},
	}
	repo := &dashboardMockRepository{mockRepository: newTestRepository(), dashboard: dashboardRepo}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := &dashboardService{repo: repo, logger: logger}

	stats, err := service.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}

	if stats.Overview.TotalStudents != 120 {
		t.Errorf("Expected 120 students, got %d", stats.Overview.TotalStudents)
	}
	if stats.Overview.PendingReview != 12 || stats.Overview.Approved != 28 || stats.Overview.Rejected != 5 {
		t.Errorf("Unexpected status counts: %+v", stats.Overview)
	}

	if len(stats.Distribution) != 2 {
		t.Fatalf("Expected 2 distribution rows, got %d", len(stats.Distribution))
	}
	if stats.Distribution[0].Name != "Hackathon" {
		t.Errorf("Expected display name 'Hackathon', got %q", stats.Distribution[0].Name)
	}
	if stats.Distribution[0].Percentage != 44.4 {
		t.Errorf("Expected percentage rounded to 44.4, got %v", stats.Distribution[0].Percentage)
	}

	if len(stats.Recent) != 1 {
		t.Errorf("Expected 1 recent submission, got %d", len(stats.Recent))
	}
	if len(stats.Departments) != 1 {
		t.Errorf("Expected 1 department row, got %d", len(stats.Departments))
	}
}

func TestDashboardService_GetRecentSubmissions_LimitClamped(t *testing.T) {
	dashboardRepo := &mockDashboardRepo{}
	repo := &dashboardMockRepository{mockRepository: newTestRepository(), dashboard: dashboardRepo}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := &dashboardService{repo: repo, logger: logger}

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "zero uses default", limit: 0, wantLimit: 10},
		{name: "negative uses default", limit: -3, wantLimit: 10},
		{name: "oversized uses default", limit: 500, wantLimit: 10},
		{name: "in range passes through", limit: 25, wantLimit: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.GetRecentSubmissions(context.Background(), tt.limit); err != nil {
				t.Fatalf("GetRecentSubmissions failed: %v", err)
			}
			if dashboardRepo.recentLimit != tt.wantLimit {
				t.Errorf("Expected limit %d, got %d", tt.wantLimit, dashboardRepo.recentLimit)
			}
		})
	}
}

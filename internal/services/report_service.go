package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

// ===== SERVICE INTERFACE =====

type ReportService interface {
	// ExportParticipations renders the filtered participation list as an
	// .xlsx workbook. Returns the file content and a suggested filename.
	ExportParticipations(ctx context.Context, filters repositories.ParticipationFilters, callerID uint) (*bytes.Buffer, string, error)
}

// ===== SERVICE IMPLEMENTATION =====

type reportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

const reportSheet = "Participations"

var reportHeaders = []string{"ID", "Student", "USN", "Department", "Event", "Role", "Duration (days)", "Achievement", "Status", "Feedback", "Submitted At", "Reviewed At"}

func (s *reportService) ExportParticipations(ctx context.Context, filters repositories.ParticipationFilters, callerID uint) (*bytes.Buffer, string, error) {
	s.logger.Info("Exporting participation report", "caller_id", callerID)

	caller, err := s.repo.User().GetByID(ctx, s.db, callerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to get caller: %w", err)
	}
	if caller.Role != models.RoleProctor && caller.Role != models.RoleAdmin {
		return nil, "", NewPermissionError(callerID, 0, "report", "export", "proctor or admin role required")
	}

	// Reports are bounded snapshots, not streaming exports
	if filters.Limit <= 0 || filters.Limit > 10000 {
		filters.Limit = 10000
	}

	participations, _, err := s.repo.Participation().List(ctx, s.db, filters)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list participations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportSheet, cell, header)
		f.SetCellStyle(reportSheet, cell, cell, headerStyle)
	}
	f.SetColWidth(reportSheet, "B", "B", 24)
	f.SetColWidth(reportSheet, "E", "E", 32)
	f.SetColWidth(reportSheet, "J", "J", 40)
	f.SetColWidth(reportSheet, "K", "L", 20)

	for row, p := range participations {
		values := []interface{}{
			p.ID,
			p.Student.User.FullName(),
			p.Student.USN,
			p.Student.Department,
			p.EventName,
			p.Role,
			p.DurationDays,
			derefString(p.Achievement),
			string(p.Status),
			derefString(p.ProctorFeedback),
			p.SubmittedAt.Format("2006-01-02 15:04"),
			formatReviewedAt(p.ReviewedAt),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(reportSheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate report: %w", err)
	}

	filename := fmt.Sprintf("participations-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	return buf, filename, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatReviewedAt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

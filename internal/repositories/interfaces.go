package repositories

import (
	"time"

	"github.com/campustrack/participation-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ParticipationFilters struct {
	Status        *models.ParticipationStatus `json:"status"`
	StudentID     *uint                       `json:"student_id"`
	EventID       *uint                       `json:"event_id"`
	SubmittedFrom *time.Time                  `json:"submitted_from"`
	SubmittedTo   *time.Time                  `json:"submitted_to"`
	Limit         int                         `json:"limit"`
	Offset        int                         `json:"offset"`
	SortBy        string                      `json:"sort_by"`    // "submitted_at", "event_name"
	SortOrder     string                      `json:"sort_order"` // "asc", "desc"
}

type EventFilters struct {
	Category  *models.EventCategory `json:"category"`
	PostedBy  *uint                 `json:"posted_by"`
	IsActive  *bool                 `json:"is_active"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type NotificationFilters struct {
	Type   *models.NotificationType `json:"type"`
	Unread *bool                    `json:"unread"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type StudentFilters struct {
	Department *string `json:"department"`
	Year       *int    `json:"year"`
	Query      string  `json:"query"` // matches USN or user name
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"` // matches username, name or email
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

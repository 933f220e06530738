package validator

import (
	"time"

	"github.com/campustrack/participation-service/internal/models"
)

// ParticipationCreateRequest represents a student submitting a participation claim.
// EventName may be omitted only when EventID references a catalogued event; the
// event title is then copied onto the record server-side.
type ParticipationCreateRequest struct {
	EventID      *uint          `json:"event_id"`
	EventName    string         `json:"event_name" validate:"required_without=EventID,omitempty,event_title"`
	Role         string         `json:"role" validate:"required,max=100"`
	DurationDays int            `json:"duration_days" validate:"omitempty,min=1,max=60"`
	Achievement  *string        `json:"achievement" validate:"omitempty,max=2000"`
	Description  *string        `json:"description" validate:"omitempty,max=2000"`
	Proofs       []ProofRequest `json:"proofs" validate:"required,min=1,max=10,dive"`
}

// ProofRequest represents one uploaded proof file reference
type ProofRequest struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	FileURL  string `json:"file_url" validate:"required,url,max=500"`
	FileType string `json:"file_type" validate:"required,max=100"`
	FileSize int64  `json:"file_size" validate:"required,min=1"`
}

// ParticipationReviewRequest represents a proctor or admin review decision
type ParticipationReviewRequest struct {
	Status   models.ParticipationStatus `json:"status" validate:"required,review_status"`
	Feedback *string                    `json:"feedback" validate:"omitempty,max=2000"`
}

// EventCreateRequest represents an admin or proctor publishing a campus event
type EventCreateRequest struct {
	Title       string               `json:"title" validate:"required,event_title"`
	Description *string              `json:"description" validate:"omitempty,max=2000"`
	Category    models.EventCategory `json:"category" validate:"required,event_category"`
	StartDate   time.Time            `json:"start_date" validate:"required"`
	EndDate     time.Time            `json:"end_date" validate:"required,gtfield=StartDate"`
	Venue       *string              `json:"venue" validate:"omitempty,max=200"`
	IsPinned    bool                 `json:"is_pinned"`
	BannerURL   *string              `json:"banner_url" validate:"omitempty,url,max=500"`
}

// EventUpdateRequest represents a partial event update
type EventUpdateRequest struct {
	Title       *string               `json:"title" validate:"omitempty,event_title"`
	Description *string               `json:"description" validate:"omitempty,max=2000"`
	Category    *models.EventCategory `json:"category" validate:"omitempty,event_category"`
	StartDate   *time.Time            `json:"start_date"`
	EndDate     *time.Time            `json:"end_date"`
	Venue       *string               `json:"venue" validate:"omitempty,max=200"`
	IsPinned    *bool                 `json:"is_pinned"`
	IsActive    *bool                 `json:"is_active"`
	BannerURL   *string               `json:"banner_url" validate:"omitempty,url,max=500"`
}

// UserCreateRequest represents an admin creating a user account
type UserCreateRequest struct {
	Username  string          `json:"username" validate:"required,min=3,max=100"`
	Password  string          `json:"password" validate:"required,min=8,max=72"`
	Role      models.UserRole `json:"role" validate:"required,user_role"`
	FirstName string          `json:"first_name" validate:"required,max=100"`
	LastName  string          `json:"last_name" validate:"required,max=100"`
	Email     string          `json:"email" validate:"required,email,max=255"`
	Phone     *string         `json:"phone" validate:"omitempty,max=20"`
}

// StudentCreateRequest represents an admin attaching a student profile to a user
type StudentCreateRequest struct {
	UserID          uint    `json:"user_id" validate:"required"`
	USN             string  `json:"usn" validate:"required,max=50"`
	Department      string  `json:"department" validate:"required,max=100"`
	Year            int     `json:"year" validate:"required,min=1,max=6"`
	Semester        int     `json:"semester" validate:"required,min=1,max=8"`
	Batch           *string `json:"batch" validate:"omitempty,max=20"`
	ProctorID       *uint   `json:"proctor_id"`
	ProfilePhotoURL *string `json:"profile_photo_url" validate:"omitempty,url,max=500"`
}

// ProctorCreateRequest represents an admin attaching a proctor profile to a user
type ProctorCreateRequest struct {
	UserID      uint   `json:"user_id" validate:"required"`
	EmployeeID  string `json:"employee_id" validate:"required,max=50"`
	Department  string `json:"department" validate:"required,max=100"`
	Designation string `json:"designation" validate:"required,max=100"`
}

package models

import (
	"time"
)

type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationApproved ParticipationStatus = "approved"
	ParticipationRejected ParticipationStatus = "rejected"
)

func (s ParticipationStatus) Valid() bool {
	switch s {
	case ParticipationPending, ParticipationApproved, ParticipationRejected:
		return true
	}
	return false
}

// TerminalReviewStatus reports whether s is a status a reviewer may set.
// A review can only move a record out of pending, never back into it.
func TerminalReviewStatus(s ParticipationStatus) bool {
	return s == ParticipationApproved || s == ParticipationRejected
}

type Participation struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;index"`
	// EventID links to a catalogued event when the participation was submitted
	// against one; free-form submissions leave it nil.
	EventID *uint `json:"event_id" gorm:"index"`

	// EventName is a denormalized copy of the event title captured at
	// submission time, so deleting the catalogue entry cannot orphan the record.
	EventName    string  `json:"event_name" gorm:"not null;size:200"`
	Role         string  `json:"role" gorm:"not null;size:100"` // Participant, Organizer, Volunteer, ...
	DurationDays int     `json:"duration_days" gorm:"not null;default:1"`
	Achievement  *string `json:"achievement" gorm:"type:text"`
	Description  *string `json:"description" gorm:"type:text"`

	// Review
	Status          ParticipationStatus `json:"status" gorm:"not null;default:pending;size:20;index"`
	ProctorFeedback *string             `json:"proctor_feedback" gorm:"type:text"`
	ReviewedBy      *uint               `json:"reviewed_by"`
	ReviewedAt      *time.Time          `json:"reviewed_at"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Student  Student              `json:"student" gorm:"foreignKey:StudentID"`
	Event    *Event               `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Reviewer *User                `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
	Proofs   []ParticipationProof `json:"proofs" gorm:"foreignKey:ParticipationID"`
}

func (Participation) TableName() string {
	return "participations"
}

type ParticipationProof struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ParticipationID uint      `json:"participation_id" gorm:"not null;index"`
	FileName        string    `json:"file_name" gorm:"not null;size:255"`
	FileURL         string    `json:"file_url" gorm:"not null;size:500"`
	FileType        string    `json:"file_type" gorm:"not null;size:100"`
	FileSize        int64     `json:"file_size" gorm:"not null;default:0"`
	UploadedAt      time.Time `json:"uploaded_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (ParticipationProof) TableName() string {
	return "participation_proofs"
}

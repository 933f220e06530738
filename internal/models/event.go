package models

import (
	"time"

	"gorm.io/gorm"
)

type EventCategory string

const (
	EventCategoryHackathon   EventCategory = "hackathon"
	EventCategoryWorkshop    EventCategory = "workshop"
	EventCategoryConference  EventCategory = "conference"
	EventCategoryCompetition EventCategory = "competition"
	EventCategorySeminar     EventCategory = "seminar"
	EventCategoryCultural    EventCategory = "cultural"
	EventCategorySports      EventCategory = "sports"
	EventCategoryOther       EventCategory = "other"
)

func (c EventCategory) Valid() bool {
	switch c {
	case EventCategoryHackathon, EventCategoryWorkshop, EventCategoryConference,
		EventCategoryCompetition, EventCategorySeminar, EventCategoryCultural,
		EventCategorySports, EventCategoryOther:
		return true
	}
	return false
}

type Event struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null;size:200"`
	Description *string       `json:"description" gorm:"type:text"`
	Category    EventCategory `json:"category" gorm:"not null;size:30;index"`
	StartDate   time.Time     `json:"start_date" gorm:"not null;index"`
	// EndDate must be strictly after StartDate.
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	Venue     *string   `json:"venue" gorm:"size:200"`
	PostedBy  uint      `json:"posted_by" gorm:"not null;index"`
	IsPinned  bool      `json:"is_pinned" gorm:"not null;default:false"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true;index"`
	BannerURL *string   `json:"banner_url" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Poster User `json:"poster" gorm:"foreignKey:PostedBy"`
}

func (Event) TableName() string {
	return "events"
}

// DurationDays derives the inclusive day span of the event.
func (e *Event) DurationDays() int {
	days := int(e.EndDate.Sub(e.StartDate).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

package events

import "time"

// Topics
const (
	TopicParticipations = "participation.events"
	TopicNotifications  = "notification.events"
)

// Event types
const (
	TypeParticipationSubmitted = "participation.submitted"
	TypeParticipationReviewed  = "participation.reviewed"
	TypeEventCreated           = "event.created"
	TypeNotificationCreated    = "notification.created"
)

// ParticipationSubmittedEvent is emitted when a student files a new claim
type ParticipationSubmittedEvent struct {
	ParticipationID uint      `json:"participation_id"`
	StudentID       uint      `json:"student_id"`
	EventName       string    `json:"event_name"`
	Role            string    `json:"role"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// ParticipationReviewedEvent is emitted when a reviewer settles a claim
type ParticipationReviewedEvent struct {
	ParticipationID uint      `json:"participation_id"`
	StudentID       uint      `json:"student_id"`
	Status          string    `json:"status"`
	ReviewedBy      uint      `json:"reviewed_by"`
	ReviewedAt      time.Time `json:"reviewed_at"`
}

// EventCreatedEvent is emitted when a campus event is published
type EventCreatedEvent struct {
	EventID   uint      `json:"event_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	StartDate time.Time `json:"start_date"`
	PostedBy  uint      `json:"posted_by"`
}

// NotificationCreatedEvent is emitted alongside every persisted notification
type NotificationCreatedEvent struct {
	NotificationID uint   `json:"notification_id"`
	UserID         uint   `json:"user_id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
}

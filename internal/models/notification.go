package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationEvent      NotificationType = "event"
	NotificationSubmission NotificationType = "submission"
	NotificationAlert      NotificationType = "alert"
)

type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	UserID  uint             `json:"user_id" gorm:"not null;index"`
	Title   string           `json:"title" gorm:"not null;size:200"`
	Message string           `json:"message" gorm:"not null;type:text"`
	Type    NotificationType `json:"type" gorm:"not null;size:30;index"`
	Read    bool             `json:"read" gorm:"not null;default:false;index"`

	// Metadata carries type-specific payload (event id, participation id, ...)
	Metadata datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string {
	return "notifications"
}

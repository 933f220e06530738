package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleProctor UserRole = "proctor"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleProctor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	Username  string   `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Password  string   `json:"-" gorm:"not null;size:255"` // bcrypt hash, never serialized
	Role      UserRole `json:"role" gorm:"not null;size:20;index"`
	FirstName string   `json:"first_name" gorm:"not null;size:100"`
	LastName  string   `json:"last_name" gorm:"not null;size:100"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Phone     *string  `json:"phone" gorm:"size:20"`
	IsActive  bool     `json:"is_active" gorm:"not null;default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Student is the role profile for a user with RoleStudent. A user account may
// exist without one; participation submission requires it.
type Student struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	UserID     uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	USN        string  `json:"usn" gorm:"uniqueIndex;not null;size:50"` // university seat number
	Department string  `json:"department" gorm:"not null;size:100"`
	Year       int     `json:"year" gorm:"not null"`
	Semester   int     `json:"semester" gorm:"not null"`
	Batch      *string `json:"batch" gorm:"size:20"`

	// ProctorID assigns the reviewer who gets notified on submission. Optional.
	ProctorID       *uint   `json:"proctor_id" gorm:"index"`
	ProfilePhotoURL *string `json:"profile_photo_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User    User     `json:"user" gorm:"foreignKey:UserID"`
	Proctor *Proctor `json:"proctor,omitempty" gorm:"foreignKey:ProctorID"`
}

func (Student) TableName() string {
	return "students"
}

type Proctor struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	EmployeeID  string `json:"employee_id" gorm:"uniqueIndex;not null;size:50"`
	Department  string `json:"department" gorm:"not null;size:100"`
	Designation string `json:"designation" gorm:"not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}

func (Proctor) TableName() string {
	return "proctors"
}

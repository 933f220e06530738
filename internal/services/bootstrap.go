package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

// SeedDemoData provisions a small demo dataset for local development:
// one admin, one proctor with profile, one student with profile and a
// sample event. Safe to call on every startup; existing accounts are
// left untouched.
func SeedDemoData(ctx context.Context, repo repositories.Repository, db *gorm.DB, logger *slog.Logger) error {
	admin, err := ensureUser(ctx, repo, db, &models.User{
		Username:  "admin",
		Role:      models.RoleAdmin,
		FirstName: "Campus",
		LastName:  "Administrator",
		Email:     "admin@campus.local",
		IsActive:  true,
	}, "admin123")
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	proctorUser, err := ensureUser(ctx, repo, db, &models.User{
		Username:  "proctor",
		Role:      models.RoleProctor,
		FirstName: "Default",
		LastName:  "Proctor",
		Email:     "proctor@campus.local",
		IsActive:  true,
	}, "proctor123")
	if err != nil {
		return fmt.Errorf("failed to seed proctor: %w", err)
	}

	if _, err := repo.Proctor().GetByUserID(ctx, db, proctorUser.ID); err != nil {
		if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to check proctor profile: %w", err)
		}
		proctor := &models.Proctor{
			UserID:      proctorUser.ID,
			EmployeeID:  "EMP001",
			Department:  "Computer Science",
			Designation: "Assistant Professor",
		}
		if err := repo.Proctor().Create(ctx, db, proctor); err != nil {
			return fmt.Errorf("failed to seed proctor profile: %w", err)
		}
	}

	studentUser, err := ensureUser(ctx, repo, db, &models.User{
		Username:  "student",
		Role:      models.RoleStudent,
		FirstName: "Demo",
		LastName:  "Student",
		Email:     "student@campus.local",
		IsActive:  true,
	}, "student123")
	if err != nil {
		return fmt.Errorf("failed to seed student: %w", err)
	}

	if _, err := repo.Student().GetByUserID(ctx, db, studentUser.ID); err != nil {
		if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to check student profile: %w", err)
		}
		proctorProfile, err := repo.Proctor().GetByUserID(ctx, db, proctorUser.ID)
		if err != nil {
			return fmt.Errorf("failed to resolve seed proctor: %w", err)
		}
		student := &models.Student{
			UserID:     studentUser.ID,
			USN:        "1CR18CS001",
			Department: "Computer Science",
			Year:       3,
			Semester:   5,
			ProctorID:  &proctorProfile.ID,
		}
		if err := repo.Student().Create(ctx, db, student); err != nil {
			return fmt.Errorf("failed to seed student profile: %w", err)
		}
	}

	eventDate := time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)
	exists, err := repo.Event().ExistsByTitleAndDate(ctx, db, "Hackathon 2024", eventDate)
	if err != nil {
		return fmt.Errorf("failed to check seed event: %w", err)
	}
	if !exists {
		description := "Annual 48-hour campus hackathon."
		venue := "Main Auditorium"
		event := &models.Event{
			Title:       "Hackathon 2024",
			Description: &description,
			Category:    models.EventCategoryHackathon,
			StartDate:   eventDate,
			EndDate:     eventDate.AddDate(0, 0, 2),
			Venue:       &venue,
			PostedBy:    admin.ID,
			IsActive:    true,
		}
		if err := repo.Event().Create(ctx, db, event); err != nil {
			return fmt.Errorf("failed to seed event: %w", err)
		}
	}

	logger.Info("Demo data seeded", "admin", admin.Username, "proctor", proctorUser.Username, "student", studentUser.Username)
	return nil
}

func ensureUser(ctx context.Context, repo repositories.Repository, db *gorm.DB, user *models.User, password string) (*models.User, error) {
	existing, err := repo.User().GetByUsername(ctx, db, user.Username)
	if err == nil {
		return existing, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	if err := repo.User().Create(ctx, db, user); err != nil {
		return nil, err
	}
	return user, nil
}

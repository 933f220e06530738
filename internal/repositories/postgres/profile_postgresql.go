package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

// StudentPostgreSQL persists student role profiles.
type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

func (s *StudentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Create(student).Error
}

func (s *StudentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	db := s.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).Preload("User").First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error) {
	db := s.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) GetByUSN(ctx context.Context, tx *gorm.DB, usn string) (*models.Student, error) {
	db := s.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).Where("usn = ?", usn).Preload("User").First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Save(student).Error
}

func (s *StudentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	db := s.getDB(tx)
	var students []*models.Student
	var total int64

	query := db.WithContext(ctx).Model(&models.Student{})
	if filters.Department != nil {
		query = query.Where("department = ?", *filters.Department)
	}
	if filters.Year != nil {
		query = query.Where("year = ?", *filters.Year)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.
			Joins("JOIN users ON users.id = students.user_id").
			Where("students.usn ILIKE ? OR users.first_name ILIKE ? OR users.last_name ILIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filters.Limit, filters.Offset).Order("students.created_at DESC")

	if err := query.Preload("User").Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (s *StudentPostgreSQL) ExistsByUSN(ctx context.Context, tx *gorm.DB, usn string) (bool, error) {
	db := s.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("usn = ?", usn).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProctorPostgreSQL persists proctor role profiles.
type ProctorPostgreSQL struct {
	db *gorm.DB
}

func NewProctorPostgreSQL(db *gorm.DB) repositories.ProctorRepository {
	return &ProctorPostgreSQL{db: db}
}

func (p *ProctorPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *ProctorPostgreSQL) Create(ctx context.Context, tx *gorm.DB, proctor *models.Proctor) error {
	db := p.getDB(tx)
	return db.WithContext(ctx).Create(proctor).Error
}

func (p *ProctorPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Proctor, error) {
	db := p.getDB(tx)
	var proctor models.Proctor
	if err := db.WithContext(ctx).Preload("User").First(&proctor, id).Error; err != nil {
		return nil, err
	}
	return &proctor, nil
}

func (p *ProctorPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Proctor, error) {
	db := p.getDB(tx)
	var proctor models.Proctor
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&proctor).Error; err != nil {
		return nil, err
	}
	return &proctor, nil
}

func (p *ProctorPostgreSQL) Update(ctx context.Context, tx *gorm.DB, proctor *models.Proctor) error {
	db := p.getDB(tx)
	return db.WithContext(ctx).Save(proctor).Error
}

func (p *ProctorPostgreSQL) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.Proctor, int64, error) {
	db := p.getDB(tx)
	var proctors []*models.Proctor
	var total int64

	query := db.WithContext(ctx).Model(&models.Proctor{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, limit, offset).Order("created_at DESC")

	if err := query.Preload("User").Find(&proctors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list proctors: %w", err)
	}

	return proctors, total, nil
}

func (p *ProctorPostgreSQL) ExistsByEmployeeID(ctx context.Context, tx *gorm.DB, employeeID string) (bool, error) {
	db := p.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Proctor{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

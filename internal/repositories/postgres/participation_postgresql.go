package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/cache"
	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

type ParticipationPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewParticipationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ParticipationRepository {
	return &ParticipationPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (p *ParticipationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *ParticipationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, participation *models.Participation) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Create(participation).Error; err != nil {
		return err
	}
	cache.InvalidateParticipationCache(ctx, p.cacheManager, participation.ID, participation.StudentID)
	return nil
}

func (p *ParticipationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Participation, error) {
	db := p.getDB(tx)
	var participation models.Participation
	if err := db.WithContext(ctx).First(&participation, id).Error; err != nil {
		return nil, err
	}
	return &participation, nil
}

func (p *ParticipationPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Participation, error) {
	db := p.getDB(tx)
	var participation models.Participation
	if err := db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Preload("Event").
		Preload("Reviewer").
		Preload("Proofs").
		First(&participation, id).Error; err != nil {
		return nil, err
	}
	return &participation, nil
}

func (p *ParticipationPostgreSQL) Update(ctx context.Context, tx *gorm.DB, participation *models.Participation) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Save(participation).Error; err != nil {
		return err
	}
	cache.InvalidateParticipationCache(ctx, p.cacheManager, participation.ID, participation.StudentID)
	return nil
}

func (p *ParticipationPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := p.getDB(tx)
	return db.WithContext(ctx).Delete(&models.Participation{}, id).Error
}

func (p *ParticipationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ParticipationFilters) ([]*models.Participation, int64, error) {
	db := p.getDB(tx)
	var participations []*models.Participation
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.Participation{})
	query = p.helpers.ApplyParticipationFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = p.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Student").Preload("Student.User").Preload("Event").Find(&participations).Error; err != nil {
		return nil, 0, err
	}

	// Fetch proofs for the whole page in one query instead of per row
	if err := p.attachProofs(ctx, db, participations); err != nil {
		return nil, 0, err
	}

	return participations, total, nil
}

func (p *ParticipationPostgreSQL) GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters repositories.ParticipationFilters) ([]*models.Participation, int64, error) {
	filters.StudentID = &studentID
	return p.List(ctx, tx, filters)
}

func (p *ParticipationPostgreSQL) UpdateStatusIfPending(ctx context.Context, tx *gorm.DB, id uint, status models.ParticipationStatus, feedback *string, reviewerID uint, reviewedAt time.Time) (int64, error) {
	db := p.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("id = ? AND status = ?", id, models.ParticipationPending).
		Updates(map[string]interface{}{
			"status":           status,
			"proctor_feedback": feedback,
			"reviewed_by":      reviewerID,
			"reviewed_at":      reviewedAt,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update participation status: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		cache.SafeDelete(ctx, p.cacheManager.Participation,
			fmt.Sprintf("id:%d", id),
			fmt.Sprintf("details:%d", id))
		cache.SafeInvalidatePattern(ctx, p.cacheManager.Participation, "list:*")
		cache.SafeInvalidatePattern(ctx, p.cacheManager.Stats, "dashboard:*")
	}

	return result.RowsAffected, nil
}

func (p *ParticipationPostgreSQL) CreateProofs(ctx context.Context, tx *gorm.DB, proofs []*models.ParticipationProof) error {
	if len(proofs) == 0 {
		return nil
	}
	db := p.getDB(tx)
	return db.WithContext(ctx).Create(proofs).Error
}

func (p *ParticipationPostgreSQL) GetProofsByParticipationIDs(ctx context.Context, tx *gorm.DB, participationIDs []uint) (map[uint][]models.ParticipationProof, error) {
	db := p.getDB(tx)
	result := make(map[uint][]models.ParticipationProof, len(participationIDs))
	if len(participationIDs) == 0 {
		return result, nil
	}

	var proofs []models.ParticipationProof
	if err := db.WithContext(ctx).
		Where("participation_id IN ?", participationIDs).
		Order("id ASC").
		Find(&proofs).Error; err != nil {
		return nil, fmt.Errorf("failed to get proofs: %w", err)
	}

	for _, proof := range proofs {
		result[proof.ParticipationID] = append(result[proof.ParticipationID], proof)
	}

	return result, nil
}

func (p *ParticipationPostgreSQL) attachProofs(ctx context.Context, db *gorm.DB, participations []*models.Participation) error {
	if len(participations) == 0 {
		return nil
	}

	ids := make([]uint, len(participations))
	for i, participation := range participations {
		ids[i] = participation.ID
	}

	proofsByID, err := p.GetProofsByParticipationIDs(ctx, db, ids)
	if err != nil {
		return err
	}

	for _, participation := range participations {
		participation.Proofs = proofsByID[participation.ID]
	}
	return nil
}

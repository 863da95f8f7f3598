package repositories

import (
	"context"

	"jobh_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) error
	Save(ctx context.Context, resume *models.Resume) error

	FindByOwner(ctx context.Context, ownerID string) (*models.Resume, error)
	FindByOwnerForUpdate(ctx context.Context, ownerID string) (*models.Resume, error)

	ListAdmin(ctx context.Context, page Page) ([]models.Resume, int64, error)
}

type ResumeRepositoryImpl struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &ResumeRepositoryImpl{db: db}
}

// Create: второе живое резюме владельца отбивает ux_resumes_owner_alive
func (r *ResumeRepositoryImpl) Create(ctx context.Context, resume *models.Resume) error {
	if err := dbFrom(ctx, r.db).Create(resume).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrResumeAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ResumeRepositoryImpl) Save(ctx context.Context, resume *models.Resume) error {
	return dbFrom(ctx, r.db).Save(resume).Error
}

func (r *ResumeRepositoryImpl) FindByOwner(ctx context.Context, ownerID string) (*models.Resume, error) {
	var resume models.Resume
	err := dbFrom(ctx, r.db).Where("owner_id = ? AND is_deleted = false", ownerID).First(&resume).Error
	if err != nil {
		return nil, notFound(err, ErrResumeNotFound)
	}
	return &resume, nil
}

func (r *ResumeRepositoryImpl) FindByOwnerForUpdate(ctx context.Context, ownerID string) (*models.Resume, error) {
	var resume models.Resume
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ? AND is_deleted = false", ownerID).
		First(&resume).Error
	if err != nil {
		return nil, notFound(err, ErrResumeNotFound)
	}
	return &resume, nil
}

func (r *ResumeRepositoryImpl) ListAdmin(ctx context.Context, page Page) ([]models.Resume, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.Resume{}).Where("is_deleted = false")

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var resumes []models.Resume
	err := query.Session(&gorm.Session{}).
		Order("created_at DESC, id ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&resumes).Error
	return resumes, total, err
}

package repositories

import (
	"context"

	"jobh_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModerationLogRepository interface {
	Create(ctx context.Context, entry *models.ModerationLog) error
	List(ctx context.Context, filter ModerationLogFilter) ([]models.ModerationLog, int64, error)
}

type ModerationLogFilter struct {
	EntityType models.AuditEntity
	EntityID   string
	Page       Page
}

type ModerationLogRepositoryImpl struct {
	db *gorm.DB
}

func NewModerationLogRepository(db *gorm.DB) ModerationLogRepository {
	return &ModerationLogRepositoryImpl{db: db}
}

func (r *ModerationLogRepositoryImpl) Create(ctx context.Context, entry *models.ModerationLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return dbFrom(ctx, r.db).Create(entry).Error
}

func (r *ModerationLogRepositoryImpl) List(ctx context.Context, filter ModerationLogFilter) ([]models.ModerationLog, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.ModerationLog{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var entries []models.ModerationLog
	err := query.Session(&gorm.Session{}).
		Order("created_at DESC, id ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&entries).Error
	return entries, total, err
}

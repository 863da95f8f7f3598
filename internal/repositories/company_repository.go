package repositories

import (
	"context"

	"jobh_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	Save(ctx context.Context, company *models.Company) error

	FindByID(ctx context.Context, id string) (*models.Company, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Company, error)
	FindByOwner(ctx context.Context, ownerID string) (*models.Company, error)
	FindByOwnerForUpdate(ctx context.Context, ownerID string) (*models.Company, error)
	FindPublicByID(ctx context.Context, id string) (*models.Company, error)

	ListPublic(ctx context.Context, filter CompanyFilter) ([]models.Company, int64, error)
	ListAdmin(ctx context.Context, status *models.CompanyStatus, page Page) ([]models.Company, int64, error)
	CountByStatus(ctx context.Context) (map[models.CompanyStatus]int64, error)
}

// CompanyFilter - публичный поиск компаний
type CompanyFilter struct {
	Query string
	City  string
	Page  Page
}

type CompanyRepositoryImpl struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &CompanyRepositoryImpl{db: db}
}

func (r *CompanyRepositoryImpl) Create(ctx context.Context, company *models.Company) error {
	if err := dbFrom(ctx, r.db).Create(company).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCompanyAlreadyExists
		}
		return err
	}
	return nil
}

func (r *CompanyRepositoryImpl) Save(ctx context.Context, company *models.Company) error {
	return dbFrom(ctx, r.db).Omit(clause.Associations).Save(company).Error
}

func (r *CompanyRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := dbFrom(ctx, r.db).Where("id = ? AND is_deleted = false", id).First(&company).Error
	if err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) FindByIDForUpdate(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_deleted = false", id).
		First(&company).Error
	if err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) FindByOwner(ctx context.Context, ownerID string) (*models.Company, error) {
	var company models.Company
	err := dbFrom(ctx, r.db).Where("owner_id = ? AND is_deleted = false", ownerID).First(&company).Error
	if err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) FindByOwnerForUpdate(ctx context.Context, ownerID string) (*models.Company, error) {
	var company models.Company
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ? AND is_deleted = false", ownerID).
		First(&company).Error
	if err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) FindPublicByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := dbFrom(ctx, r.db).
		Where("id = ? AND is_deleted = false AND is_active = true AND status = ?", id, models.CompanyStatusApproved).
		First(&company).Error
	if err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) ListPublic(ctx context.Context, filter CompanyFilter) ([]models.Company, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.Company{}).
		Where("is_deleted = false AND is_active = true AND status = ?", models.CompanyStatusApproved)

	if filter.Query != "" {
		query = query.Where("name ILIKE ?", containsPattern(filter.Query))
	}
	if filter.City != "" {
		query = query.Where("location ILIKE ?", containsPattern(filter.City))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var companies []models.Company
	err := query.Session(&gorm.Session{}).
		Order("name ASC, id ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&companies).Error
	return companies, total, err
}

func (r *CompanyRepositoryImpl) ListAdmin(ctx context.Context, status *models.CompanyStatus, page Page) ([]models.Company, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.Company{}).Where("is_deleted = false")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var companies []models.Company
	err := query.Session(&gorm.Session{}).
		Order("created_at DESC, id ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&companies).Error
	return companies, total, err
}

func (r *CompanyRepositoryImpl) CountByStatus(ctx context.Context) (map[models.CompanyStatus]int64, error) {
	var rows []struct {
		Status models.CompanyStatus
		Count  int64
	}
	err := dbFrom(ctx, r.db).Model(&models.Company{}).
		Select("status, COUNT(*) AS count").
		Where("is_deleted = false").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.CompanyStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

package repositories

import (
	"context"
	"errors"
	"time"

	"jobh_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VacancyRepository interface {
	Create(ctx context.Context, vacancy *models.Vacancy) error
	Save(ctx context.Context, vacancy *models.Vacancy) error

	FindByID(ctx context.Context, id string) (*models.Vacancy, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Vacancy, error)
	FindPublicByID(ctx context.Context, id string) (*models.Vacancy, error)

	Search(ctx context.Context, filter VacancySearchFilter) ([]models.Vacancy, int64, error)
	SuggestTitles(ctx context.Context, query string, limit int) ([]string, error)
	SuggestCities(ctx context.Context, query string, limit int) ([]string, error)

	ListByCompany(ctx context.Context, filter VacancyListFilter) ([]models.Vacancy, int64, error)
	ListAdmin(ctx context.Context, status *models.VacancyStatus, page Page) ([]models.Vacancy, int64, error)

	CountByStatus(ctx context.Context) (map[models.VacancyStatus]int64, error)
	CountActivePremium(ctx context.Context, now time.Time) (int64, error)
}

// VacancyListFilter - вакансии одной компании для кабинета работодателя
type VacancyListFilter struct {
	CompanyID      string
	Query          string
	City           string
	EmploymentType models.EmploymentType
	Page           Page
}

type VacancyRepositoryImpl struct {
	db *gorm.DB
}

func NewVacancyRepository(db *gorm.DB) VacancyRepository {
	return &VacancyRepositoryImpl{db: db}
}

func (r *VacancyRepositoryImpl) Create(ctx context.Context, vacancy *models.Vacancy) error {
	return dbFrom(ctx, r.db).Omit(clause.Associations).Create(vacancy).Error
}

func (r *VacancyRepositoryImpl) Save(ctx context.Context, vacancy *models.Vacancy) error {
	return dbFrom(ctx, r.db).Omit(clause.Associations).Save(vacancy).Error
}

func (r *VacancyRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Vacancy, error) {
	var vacancy models.Vacancy
	err := dbFrom(ctx, r.db).Preload("Company").
		Where("id = ? AND is_deleted = false", id).
		First(&vacancy).Error
	if err != nil {
		return nil, notFound(err, ErrVacancyNotFound)
	}
	return &vacancy, nil
}

// FindByIDForUpdate блокирует строку вакансии до конца транзакции.
// Компания подгружается отдельным запросом без блокировки.
func (r *VacancyRepositoryImpl) FindByIDForUpdate(ctx context.Context, id string) (*models.Vacancy, error) {
	db := dbFrom(ctx, r.db)

	var vacancy models.Vacancy
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_deleted = false", id).
		First(&vacancy).Error
	if err != nil {
		return nil, notFound(err, ErrVacancyNotFound)
	}

	var company models.Company
	if err := db.Where("id = ?", vacancy.CompanyID).First(&company).Error; err == nil {
		vacancy.Company = &company
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &vacancy, nil
}

func (r *VacancyRepositoryImpl) FindPublicByID(ctx context.Context, id string) (*models.Vacancy, error) {
	var vacancy models.Vacancy
	vis := visibleCondition()
	err := dbFrom(ctx, r.db).Preload("Company").
		Joins(companyAliveJoin).
		Where("vacancies.id = ?", id).
		Where(vis.SQL, vis.Args...).
		First(&vacancy).Error
	if err != nil {
		return nil, notFound(err, ErrVacancyNotFound)
	}
	return &vacancy, nil
}

func (r *VacancyRepositoryImpl) Search(ctx context.Context, filter VacancySearchFilter) ([]models.Vacancy, int64, error) {
	query := applyConditions(
		dbFrom(ctx, r.db).Model(&models.Vacancy{}).Joins(companyAliveJoin),
		searchConditions(filter),
	)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var vacancies []models.Vacancy
	err := query.Session(&gorm.Session{}).
		Preload("Company").
		Order(rankingOrder(filter.Now)).
		Limit(page.Limit).Offset(page.Offset()).
		Find(&vacancies).Error
	return vacancies, total, err
}

func (r *VacancyRepositoryImpl) SuggestTitles(ctx context.Context, query string, limit int) ([]string, error) {
	return r.suggest(ctx, "vacancies.title", query, limit)
}

func (r *VacancyRepositoryImpl) SuggestCities(ctx context.Context, query string, limit int) ([]string, error) {
	return r.suggest(ctx, "vacancies.city", query, limit)
}

// suggest - DISTINCT по колонке среди видимых вакансий
func (r *VacancyRepositoryImpl) suggest(ctx context.Context, column, query string, limit int) ([]string, error) {
	vis := visibleCondition()
	var values []string
	err := dbFrom(ctx, r.db).Model(&models.Vacancy{}).
		Joins(companyAliveJoin).
		Where(vis.SQL, vis.Args...).
		Where(column+" IS NOT NULL AND "+column+" ILIKE ?", containsPattern(query)).
		Distinct(column).
		Order(column + " ASC").
		Limit(limit).
		Pluck(column, &values).Error
	return values, err
}

func (r *VacancyRepositoryImpl) ListByCompany(ctx context.Context, filter VacancyListFilter) ([]models.Vacancy, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.Vacancy{}).
		Where("company_id = ? AND is_deleted = false", filter.CompanyID)

	if filter.Query != "" {
		query = query.Where("title ILIKE ?", containsPattern(filter.Query))
	}
	if filter.City != "" {
		query = query.Where("city ILIKE ?", containsPattern(filter.City))
	}
	if filter.EmploymentType != "" {
		query = query.Where("employment_type = ?", filter.EmploymentType)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var vacancies []models.Vacancy
	err := query.Session(&gorm.Session{}).
		Order("created_at DESC, id ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&vacancies).Error
	return vacancies, total, err
}

func (r *VacancyRepositoryImpl) ListAdmin(ctx context.Context, status *models.VacancyStatus, page Page) ([]models.Vacancy, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.Vacancy{}).Where("is_deleted = false")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var vacancies []models.Vacancy
	err := query.Session(&gorm.Session{}).
		Preload("Company").
		Order("created_at DESC, id ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&vacancies).Error
	return vacancies, total, err
}

func (r *VacancyRepositoryImpl) CountByStatus(ctx context.Context) (map[models.VacancyStatus]int64, error) {
	var rows []struct {
		Status models.VacancyStatus
		Count  int64
	}
	err := dbFrom(ctx, r.db).Model(&models.Vacancy{}).
		Select("status, COUNT(*) AS count").
		Where("is_deleted = false").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.VacancyStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (r *VacancyRepositoryImpl) CountActivePremium(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Vacancy{}).
		Where("is_deleted = false AND is_premium = true AND premium_until > ?", now).
		Count(&count).Error
	return count, err
}

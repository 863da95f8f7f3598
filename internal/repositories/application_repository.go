package repositories

import (
	"context"

	"jobh_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	Exists(ctx context.Context, vacancyID, applicantID string) (bool, error)

	FindByID(ctx context.Context, id string) (*models.Application, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error

	ListByApplicant(ctx context.Context, applicantID string, page Page) ([]models.Application, int64, error)
	ListForCompany(ctx context.Context, filter ApplicationFilter) ([]models.Application, int64, error)
	CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error)
}

// ApplicationFilter - отклики на вакансии одной компании
type ApplicationFilter struct {
	CompanyID string
	VacancyID string
	Status    models.ApplicationStatus
	Page      Page
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

// Create полагается на частичный уникальный индекс (vacancy_id, applicant_id)
func (r *ApplicationRepositoryImpl) Create(ctx context.Context, application *models.Application) error {
	if err := dbFrom(ctx, r.db).Omit(clause.Associations).Create(application).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrApplicationAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) Exists(ctx context.Context, vacancyID, applicantID string) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Application{}).
		Where("vacancy_id = ? AND applicant_id = ? AND is_deleted = false", vacancyID, applicantID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Application, error) {
	var application models.Application
	err := dbFrom(ctx, r.db).
		Preload("Vacancy.Company").
		Where("id = ? AND is_deleted = false", id).
		First(&application).Error
	if err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByIDForUpdate(ctx context.Context, id string) (*models.Application, error) {
	db := dbFrom(ctx, r.db)

	var application models.Application
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_deleted = false", id).
		First(&application).Error
	if err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}

	// Владелец определяется цепочкой вакансия -> компания
	var vacancy models.Vacancy
	if err := db.Preload("Company").Where("id = ?", application.VacancyID).First(&vacancy).Error; err != nil {
		return nil, notFound(err, ErrVacancyNotFound)
	}
	application.Vacancy = &vacancy
	return &application, nil
}

func (r *ApplicationRepositoryImpl) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	result := dbFrom(ctx, r.db).Model(&models.Application{}).
		Where("id = ? AND is_deleted = false", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) ListByApplicant(ctx context.Context, applicantID string, page Page) ([]models.Application, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.Application{}).
		Where("applicant_id = ? AND is_deleted = false", applicantID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var applications []models.Application
	err := query.Session(&gorm.Session{}).
		Preload("Vacancy.Company").
		Order("created_at DESC, id ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&applications).Error
	return applications, total, err
}

func (r *ApplicationRepositoryImpl) ListForCompany(ctx context.Context, filter ApplicationFilter) ([]models.Application, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.Application{}).
		Joins("JOIN vacancies ON vacancies.id = applications.vacancy_id").
		Where("vacancies.company_id = ? AND applications.is_deleted = false", filter.CompanyID)

	if filter.VacancyID != "" {
		query = query.Where("applications.vacancy_id = ?", filter.VacancyID)
	}
	if filter.Status != "" {
		query = query.Where("applications.status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var applications []models.Application
	err := query.Session(&gorm.Session{}).
		Preload("Vacancy").
		Preload("Applicant").
		Order("applications.created_at DESC, applications.id ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&applications).Error
	return applications, total, err
}

func (r *ApplicationRepositoryImpl) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		Status models.ApplicationStatus
		Count  int64
	}
	err := dbFrom(ctx, r.db).Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("is_deleted = false").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

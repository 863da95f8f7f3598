package repositories

import (
	"context"

	"jobh_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SavedVacancyRepository interface {
	Save(ctx context.Context, userID, vacancyID string) error
	Delete(ctx context.Context, userID, vacancyID string) error
	ListByUser(ctx context.Context, userID string, page Page) ([]models.SavedVacancy, int64, error)
}

type SavedVacancyRepositoryImpl struct {
	db *gorm.DB
}

func NewSavedVacancyRepository(db *gorm.DB) SavedVacancyRepository {
	return &SavedVacancyRepositoryImpl{db: db}
}

// Save идемпотентен: повторное сохранение ничего не меняет
func (r *SavedVacancyRepositoryImpl) Save(ctx context.Context, userID, vacancyID string) error {
	return dbFrom(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SavedVacancy{UserID: userID, VacancyID: vacancyID}).Error
}

func (r *SavedVacancyRepositoryImpl) Delete(ctx context.Context, userID, vacancyID string) error {
	return dbFrom(ctx, r.db).
		Where("user_id = ? AND vacancy_id = ?", userID, vacancyID).
		Delete(&models.SavedVacancy{}).Error
}

// ListByUser скрывает удаленные вакансии, но не снятые с публикации
func (r *SavedVacancyRepositoryImpl) ListByUser(ctx context.Context, userID string, page Page) ([]models.SavedVacancy, int64, error) {
	query := dbFrom(ctx, r.db).Model(&models.SavedVacancy{}).
		Joins("JOIN vacancies ON vacancies.id = saved_vacancies.vacancy_id AND vacancies.is_deleted = false").
		Where("saved_vacancies.user_id = ?", userID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var saved []models.SavedVacancy
	err := query.Session(&gorm.Session{}).
		Preload("Vacancy.Company").
		Order("saved_vacancies.created_at DESC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&saved).Error
	return saved, total, err
}

package database

import (
	"fmt"
	"time"

	"jobh_backend/internal/config"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect открывает пул postgres с параметрами из конфига
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         logger.NewGormLogger(200 * time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

// Частичные индексы AutoMigrate не строит, создаем их отдельно
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_companies_owner_alive
		ON companies (owner_id) WHERE is_deleted = false`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_applications_vacancy_applicant
		ON applications (vacancy_id, applicant_id) WHERE is_deleted = false`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_resumes_owner_alive
		ON resumes (owner_id) WHERE is_deleted = false`,
	`CREATE INDEX IF NOT EXISTS ix_vacancies_ranking
		ON vacancies (published_at DESC NULLS LAST, id) WHERE is_deleted = false AND status = 'PUBLISHED'`,
}

// AutoMigrate выполняет миграцию всех моделей модуля.
// Таблица users принадлежит identity-сервису и здесь только создается при отсутствии.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Vacancy{},
		&models.Application{},
		&models.SavedVacancy{},
		&models.ModerationLog{},
		&models.Resume{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	logger.Info("database migration completed")
	return nil
}

package repositories

import (
	"context"

	"jobh_backend/internal/models"

	"gorm.io/gorm"
)

// UserRepository - только чтение: пользователями владеет identity-сервис
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := dbFrom(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

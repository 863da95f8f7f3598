package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrCompanyNotFound          = errors.New("company not found")
	ErrCompanyAlreadyExists     = errors.New("company already exists for owner")
	ErrVacancyNotFound          = errors.New("vacancy not found")
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationAlreadyExists = errors.New("application already exists")
	ErrUserNotFound             = errors.New("user not found")
	ErrResumeNotFound           = errors.New("resume not found")
	ErrResumeAlreadyExists      = errors.New("resume already exists for owner")
)

const pgUniqueViolation = "23505"

// isUniqueViolation распознает нарушение уникального индекса postgres
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// notFound подменяет gorm.ErrRecordNotFound доменной ошибкой
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

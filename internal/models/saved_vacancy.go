package models

import "time"

type SavedVacancy struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"userId"`
	VacancyID string    `gorm:"type:uuid;primaryKey" json:"vacancyId"`
	Vacancy   *Vacancy  `gorm:"foreignKey:VacancyID;constraint:OnDelete:CASCADE" json:"vacancy,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

package dto

import "jobh_backend/internal/models"

// DashboardStats - сводка для панели модератора
type DashboardStats struct {
	Companies      map[models.CompanyStatus]int64     `json:"companies"`
	Vacancies      map[models.VacancyStatus]int64     `json:"vacancies"`
	Applications   map[models.ApplicationStatus]int64 `json:"applications"`
	PremiumActive  int64                              `json:"premiumActive"`
	TotalCompanies int64                              `json:"totalCompanies"`
	TotalVacancies int64                              `json:"totalVacancies"`
}

type ModerationLogQuery struct {
	EntityType string `form:"entityType" json:"entityType" validate:"omitempty,oneof=company vacancy application"`
	EntityID   string `form:"entityId" json:"entityId" validate:"omitempty,uuid"`
	PageQuery
}

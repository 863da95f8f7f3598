package dto

type ApplyRequest struct {
	VacancyID   string  `json:"vacancyId" validate:"required,uuid"`
	CoverLetter *string `json:"coverLetter" validate:"omitempty,max=5000"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,application_status"`
}

type EmployerApplicationsQuery struct {
	VacancyID string `form:"vacancyId" json:"vacancyId" validate:"omitempty,uuid"`
	Status    string `form:"status" json:"status" validate:"omitempty,application_status"`
	PageQuery
}

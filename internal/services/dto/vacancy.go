package dto

type CreateVacancyRequest struct {
	Title          string  `json:"title" validate:"required,min=3,max=160"`
	Description    string  `json:"description" validate:"required,max=10000"`
	City           *string `json:"city" validate:"omitempty,max=120"`
	SalaryFrom     *int64  `json:"salaryFrom" validate:"omitempty,min=0"`
	SalaryTo       *int64  `json:"salaryTo" validate:"omitempty,min=0"`
	EmploymentType string  `json:"employmentType" validate:"required,employment_type"`
}

type UpdateVacancyRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=3,max=160"`
	Description    *string `json:"description" validate:"omitempty,max=10000"`
	City           *string `json:"city" validate:"omitempty,max=120"`
	SalaryFrom     *int64  `json:"salaryFrom" validate:"omitempty,min=0"`
	SalaryTo       *int64  `json:"salaryTo" validate:"omitempty,min=0"`
	EmploymentType *string `json:"employmentType" validate:"omitempty,employment_type"`
}

// RejectRequest - причина отказа модератора; пустая заменяется стандартной
type RejectRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=300"`
}

type VerifyRequest struct {
	Value *bool `json:"value" validate:"required"`
}

type PremiumRequest struct {
	Days int `json:"days" validate:"required,min=1,max=365"`
}

// VacancySearchQuery - публичный поиск вакансий.
// Type - синоним EmploymentType из старого клиента.
type VacancySearchQuery struct {
	Q              string `form:"q" json:"q" validate:"omitempty,max=200"`
	City           string `form:"city" json:"city" validate:"omitempty,max=120"`
	EmploymentType string `form:"employmentType" json:"employmentType" validate:"omitempty,employment_type"`
	Type           string `form:"type" json:"type" validate:"omitempty,employment_type"`
	MinSalary      *int64 `form:"minSalary" json:"minSalary" validate:"omitempty,min=0"`
	MaxSalary      *int64 `form:"maxSalary" json:"maxSalary" validate:"omitempty,min=0"`
	Date           string `form:"date" json:"date" validate:"omitempty,recency"`
	PageQuery
}

type MyVacancyQuery struct {
	Q              string `form:"q" json:"q" validate:"omitempty,max=200"`
	City           string `form:"city" json:"city" validate:"omitempty,max=120"`
	EmploymentType string `form:"employmentType" json:"employmentType" validate:"omitempty,employment_type"`
	PageQuery
}

type AdminVacancyListQuery struct {
	Status string `form:"status" json:"status" validate:"omitempty,vacancy_status"`
	PageQuery
}

type AutocompleteQuery struct {
	Q string `form:"q" json:"q" validate:"omitempty,max=100"`
}

package dto

type CreateCompanyRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Website     *string `json:"website" validate:"omitempty,url,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=120"`
}

// UpdateCompanyRequest - частичное обновление, nil значит "не менять"
type UpdateCompanyRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Website     *string `json:"website" validate:"omitempty,url,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=120"`
}

type CompanyListQuery struct {
	Q    string `form:"q" json:"q" validate:"omitempty,max=100"`
	City string `form:"city" json:"city" validate:"omitempty,max=120"`
	PageQuery
}

type AdminCompanyListQuery struct {
	Status string `form:"status" json:"status" validate:"omitempty,company_status"`
	PageQuery
}


package dto

type CreateResumeRequest struct {
	FullName string   `json:"fullName" validate:"required,min=2,max=120"`
	Title    string   `json:"title" validate:"required,min=2,max=120"`
	About    *string  `json:"about" validate:"omitempty,max=5000"`
	City     *string  `json:"city" validate:"omitempty,max=120"`
	Phone    *string  `json:"phone" validate:"omitempty,max=40"`
	Skills   []string `json:"skills" validate:"omitempty,max=50,dive,required,max=60"`
}

// UpdateResumeRequest - частичное обновление, nil значит "не менять"
type UpdateResumeRequest struct {
	FullName *string  `json:"fullName" validate:"omitempty,min=2,max=120"`
	Title    *string  `json:"title" validate:"omitempty,min=2,max=120"`
	About    *string  `json:"about" validate:"omitempty,max=5000"`
	City     *string  `json:"city" validate:"omitempty,max=120"`
	Phone    *string  `json:"phone" validate:"omitempty,max=40"`
	Skills   []string `json:"skills" validate:"omitempty,max=50,dive,required,max=60"`
	IsActive *bool    `json:"isActive"`
}

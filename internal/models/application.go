package models

type Application struct {
	BaseModel
	SoftDeletable
	VacancyID   string            `gorm:"type:uuid;not null;index" json:"vacancyId"`
	Vacancy     *Vacancy          `gorm:"foreignKey:VacancyID;constraint:OnDelete:CASCADE" json:"vacancy,omitempty"`
	ApplicantID string            `gorm:"type:uuid;not null;index" json:"applicantId"`
	Applicant   *User             `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	CoverLetter *string           `gorm:"type:text" json:"coverLetter"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'NEW';index" json:"status"`
}

package models

import "github.com/lib/pq"

// Resume - резюме кандидата, не больше одного живого на владельца
type Resume struct {
	BaseModel
	SoftDeletable
	OwnerID  string         `gorm:"type:uuid;not null;index" json:"ownerId"`
	FullName string         `gorm:"type:varchar(120);not null" json:"fullName"`
	Title    string         `gorm:"type:varchar(120);not null" json:"title"`
	About    *string        `gorm:"type:text" json:"about,omitempty"`
	City     *string        `gorm:"type:varchar(120)" json:"city,omitempty"`
	Phone    *string        `gorm:"type:varchar(40)" json:"phone,omitempty"`
	Skills   pq.StringArray `gorm:"type:text[]" json:"skills"`
	CVFile   *string        `gorm:"type:varchar(255)" json:"cvFile,omitempty"`
	IsActive bool           `gorm:"not null;default:true" json:"isActive"`
}

package models

import "time"

type Company struct {
	BaseModel
	SoftDeletable
	OwnerID        string        `gorm:"type:uuid;not null;index" json:"ownerId"`
	Name           string        `gorm:"type:varchar(120);not null" json:"name"`
	Description    *string       `gorm:"type:text" json:"description,omitempty"`
	Website        *string       `gorm:"type:varchar(255)" json:"website,omitempty"`
	Location       *string       `gorm:"type:varchar(120)" json:"location,omitempty"`
	Logo           *string       `gorm:"type:varchar(255)" json:"logo,omitempty"`
	Status         CompanyStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	RejectedReason *string       `gorm:"type:varchar(300)" json:"rejectedReason"`
	ApprovedAt     *time.Time    `json:"approvedAt"`
	IsVerified     bool          `gorm:"not null;default:false" json:"isVerified"`
	VerifiedAt     *time.Time    `json:"verifiedAt"`
	IsActive       bool          `gorm:"not null;default:true" json:"isActive"`
}

// ResetForReview - любое изменение владельцем возвращает компанию на модерацию
func (c *Company) ResetForReview() {
	c.Status = CompanyStatusPending
	c.RejectedReason = nil
	c.ApprovedAt = nil
}

func (c *Company) Approve(now time.Time) {
	c.Status = CompanyStatusApproved
	c.ApprovedAt = &now
	c.RejectedReason = nil
}

func (c *Company) Reject(reason string) {
	c.Status = CompanyStatusRejected
	c.RejectedReason = &reason
	c.ApprovedAt = nil
}

func (c *Company) SetVerified(value bool, now time.Time) {
	c.IsVerified = value
	if value {
		c.VerifiedAt = &now
	} else {
		c.VerifiedAt = nil
	}
}

package models

import "time"

type Vacancy struct {
	BaseModel
	SoftDeletable
	CompanyID      string         `gorm:"type:uuid;not null;index" json:"companyId"`
	Company        *Company       `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	Title          string         `gorm:"type:varchar(160);not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	City           *string        `gorm:"type:varchar(120);index" json:"city,omitempty"`
	SalaryFrom     *int64         `json:"salaryFrom,omitempty"`
	SalaryTo       *int64         `json:"salaryTo,omitempty"`
	EmploymentType EmploymentType `gorm:"type:varchar(20);not null;default:'FULL_TIME'" json:"employmentType"`
	Status         VacancyStatus  `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	RejectedReason *string        `gorm:"type:varchar(300)" json:"rejectedReason"`
	PublishedAt    *time.Time     `gorm:"index" json:"publishedAt"`
	IsPremium      bool           `gorm:"not null;default:false" json:"isPremium"`
	PremiumUntil   *time.Time     `json:"premiumUntil"`
	IsActive       bool           `gorm:"not null;default:true" json:"isActive"`
}

// ReallyPremium - премиум считается только пока окно не истекло
func (v *Vacancy) ReallyPremium(now time.Time) bool {
	return v.IsPremium && v.PremiumUntil != nil && v.PremiumUntil.After(now)
}

// RanksBefore - порядок публичной выдачи в памяти, тот же, что ORDER BY поиска:
// действующий премиум, затем published_at по убыванию (пустой в конце), затем id
func RanksBefore(a, b *Vacancy, now time.Time) bool {
	if pa, pb := a.ReallyPremium(now), b.ReallyPremium(now); pa != pb {
		return pa
	}
	switch {
	case a.PublishedAt == nil && b.PublishedAt != nil:
		return false
	case a.PublishedAt != nil && b.PublishedAt == nil:
		return true
	case a.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
		return a.PublishedAt.After(*b.PublishedAt)
	}
	return a.ID < b.ID
}

// PubliclyVisible - is_active работает как дополнительный шлюз поверх PUBLISHED
func (v *Vacancy) PubliclyVisible() bool {
	return !v.IsDeleted && v.IsActive && v.Status == VacancyStatusPublished
}

// DemoteForReview снимает публикацию после правки опубликованного текста
func (v *Vacancy) DemoteForReview() {
	v.Status = VacancyStatusPending
	v.RejectedReason = nil
	v.PublishedAt = nil
}

func (v *Vacancy) Publish(now time.Time) {
	v.Status = VacancyStatusPublished
	v.PublishedAt = &now
	v.RejectedReason = nil
}

func (v *Vacancy) Reject(reason string) {
	v.Status = VacancyStatusRejected
	v.RejectedReason = &reason
	v.PublishedAt = nil
}

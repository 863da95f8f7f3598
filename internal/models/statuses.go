package models

import "time"

type UserRole string
type CompanyStatus string
type VacancyStatus string
type ApplicationStatus string
type EmploymentType string

const (
	UserRoleCandidate  UserRole = "CANDIDATE"
	UserRoleEmployer   UserRole = "EMPLOYER"
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleSuperAdmin UserRole = "SUPER_ADMIN"

	CompanyStatusPending  CompanyStatus = "PENDING"
	CompanyStatusApproved CompanyStatus = "APPROVED"
	CompanyStatusRejected CompanyStatus = "REJECTED"

	VacancyStatusDraft     VacancyStatus = "DRAFT"
	VacancyStatusPending   VacancyStatus = "PENDING"
	VacancyStatusPublished VacancyStatus = "PUBLISHED"
	VacancyStatusRejected  VacancyStatus = "REJECTED"
	VacancyStatusArchived  VacancyStatus = "ARCHIVED"

	ApplicationStatusNew      ApplicationStatus = "NEW"
	ApplicationStatusReviewed ApplicationStatus = "REVIEWED"
	ApplicationStatusAccepted ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"

	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
	EmploymentContract EmploymentType = "CONTRACT"
	EmploymentIntern   EmploymentType = "INTERN"
	EmploymentRemote   EmploymentType = "REMOTE"
)

// DefaultRejectReason ставится, если модератор не указал причину
const DefaultRejectReason = "Rejected by moderator"

// IsModerator - ADMIN или SUPER_ADMIN
func (r UserRole) IsModerator() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleCandidate, UserRoleEmployer, UserRoleAdmin, UserRoleSuperAdmin:
		return true
	}
	return false
}

func (s CompanyStatus) Valid() bool {
	switch s {
	case CompanyStatusPending, CompanyStatusApproved, CompanyStatusRejected:
		return true
	}
	return false
}

func (s VacancyStatus) Valid() bool {
	switch s {
	case VacancyStatusDraft, VacancyStatusPending, VacancyStatusPublished, VacancyStatusRejected, VacancyStatusArchived:
		return true
	}
	return false
}

// Terminal - из ARCHIVED нет документированных переходов
func (s VacancyStatus) Terminal() bool {
	return s == VacancyStatusArchived
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusNew, ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// NotifiesByEmail - статусы, о которых кандидату уходит письмо
func (s ApplicationStatus) NotifiesByEmail() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentIntern, EmploymentRemote:
		return true
	}
	return false
}

// Recency - окно свежести публикации в публичном поиске
type Recency string

const (
	RecencyDay       Recency = "1d"
	RecencyThreeDays Recency = "3d"
	RecencyWeek      Recency = "7d"
)

func (r Recency) Window() (time.Duration, bool) {
	switch r {
	case RecencyDay:
		return 24 * time.Hour, true
	case RecencyThreeDays:
		return 3 * 24 * time.Hour, true
	case RecencyWeek:
		return 7 * 24 * time.Hour, true
	}
	return 0, false
}

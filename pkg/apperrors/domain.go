package apperrors

import (
	"fmt"
	"net/http"
)

/*
Фабрики и предопределенные ошибки предметной области:
компании, вакансии, премиум, отклики, резюме.
*/

// ErrIllegalTransition - переход недопустим из текущего статуса (400)
func ErrIllegalTransition(domain string, from interface{}, action string) *AppError {
	return New(
		CodeInvalidStatus,
		domain,
		fmt.Sprintf("Cannot %s from status %v", action, from),
		http.StatusBadRequest,
	).WithDetails(map[string]interface{}{"status": from, "action": action})
}

// ErrPrecondition - не выполнено предусловие операции (400)
func ErrPrecondition(domain, message string) *AppError {
	return New(CodePrecondition, domain, message, http.StatusBadRequest)
}

// ErrInsufficientPermissions - нет права на операцию (403)
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Company ---

var ErrCompanyNotFound = New(
	CodeNotFound,
	"company",
	"Company not found",
	http.StatusNotFound,
)

var ErrNotCompanyOwner = New(
	CodeForbidden,
	"company",
	"Only the company owner can change it",
	http.StatusForbidden,
)

// --- Vacancy ---

var ErrVacancyNotFound = New(
	CodeNotFound,
	"vacancy",
	"Vacancy not found",
	http.StatusNotFound,
)

var ErrCreateCompanyFirst = New(
	CodePrecondition,
	"vacancy",
	"Create company first",
	http.StatusBadRequest,
)

var ErrCompanyNotApproved = New(
	CodePrecondition,
	"vacancy",
	"Company must be approved before vacancies can be submitted",
	http.StatusBadRequest,
)

var ErrNotVacancyOwner = New(
	CodeForbidden,
	"vacancy",
	"Only the owning employer can change this vacancy",
	http.StatusForbidden,
)

// --- Premium ---

var ErrInvalidPremiumDays = New(
	CodeBadRequest,
	"premium",
	"Premium days must be between 1 and 365",
	http.StatusBadRequest,
)

var ErrPremiumRequiresPublished = New(
	CodePrecondition,
	"premium",
	"Premium can be granted to published vacancies only",
	http.StatusBadRequest,
)

// --- Application ---

var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound,
)

var ErrAlreadyApplied = New(
	CodeAlreadyExists,
	"application",
	"You already applied to this vacancy",
	http.StatusConflict,
)

var ErrVacancyNotOpen = New(
	CodePrecondition,
	"application",
	"Vacancy is not accepting applications",
	http.StatusBadRequest,
)

// --- Resume ---

var ErrResumeNotFound = New(
	CodeNotFound,
	"resume",
	"Resume not found",
	http.StatusNotFound,
)

var ErrResumeAlreadyExists = New(
	CodeAlreadyExists,
	"resume",
	"Resume already exists for this user",
	http.StatusConflict,
)

// --- Rate limit ---

var ErrTooManyRequests = New(
	CodeTooManyRequests,
	"rate_limit",
	"Too many requests, try again later",
	http.StatusTooManyRequests,
)

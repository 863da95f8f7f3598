package apperrors

// ErrorCode - машиночитаемый код ошибки
type ErrorCode string

const (
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Четыре класса ошибок бизнес-логики
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeForbidden  ErrorCode = "FORBIDDEN"
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeConflict   ErrorCode = "CONFLICT"

	// Уточнения BadRequest
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodePrecondition     ErrorCode = "PRECONDITION_FAILED"

	// Уточнения Conflict
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	CodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
)

// Kind - укрупненный класс ошибки, который видит клиент ядра
type Kind string

const (
	KindNotFound     Kind = "NotFound"
	KindForbidden    Kind = "Forbidden"
	KindBadRequest   Kind = "BadRequest"
	KindConflict     Kind = "Conflict"
	KindUnauthorized Kind = "Unauthorized"
	KindInternal     Kind = "Internal"
)

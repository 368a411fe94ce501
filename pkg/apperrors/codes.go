package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные ошибки
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeAlreadyExists     ErrorCode = "ALREADY_EXISTS"
	CodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeBadRequest        ErrorCode = "BAD_REQUEST"
	CodeLimitExceeded     ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidOperation  ErrorCode = "INVALID_OPERATION"

	// Аутентификация и авторизация
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

package apperrors

import (
	"net/http"
)

// =========================================================================
// Фабрики
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория должна стать AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные ошибки
// =========================================================================

// --- Auth ---

var ErrMissingToken = New(
	CodeUnauthorized,
	"auth",
	"Authorization header missing or invalid",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrVerifierUnavailable - проверка токенов не настроена, все запросы отклоняются.
var ErrVerifierUnavailable = New(
	CodeUnauthorized,
	"auth",
	"Token verification is not available",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Registration ---

// ErrAlreadyRegistered - повторная регистрация. Клиент считает ее успехом, поэтому 400, а не 409.
var ErrAlreadyRegistered = New(
	CodeAlreadyRegistered,
	"registration",
	"User already registered",
	http.StatusBadRequest,
)

// ErrEmailAlreadyRegistered - email уже занят другим uid
var ErrEmailAlreadyRegistered = New(
	CodeAlreadyExists,
	"registration",
	"Email is already registered to another account",
	http.StatusConflict,
)

var ErrAccountNotRegistered = New(
	CodeNotFound,
	"registration",
	"Account registration is not completed",
	http.StatusNotFound,
)

var ErrAdminRoleNotAssignable = New(
	CodeForbidden,
	"roles",
	"The admin role cannot be self-assigned",
	http.StatusForbidden,
)

// --- Opportunities ---

var ErrEmployerRoleRequired = New(
	CodeForbidden,
	"opportunity",
	"Only employers can manage opportunities",
	http.StatusForbidden,
)

var ErrNotOpportunityOwner = New(
	CodeForbidden,
	"opportunity",
	"Only the owner can modify this opportunity",
	http.StatusForbidden,
)

var ErrTalentAccessDenied = New(
	CodeForbidden,
	"talent",
	"Only employers can browse talent",
	http.StatusForbidden,
)

// --- Applications ---

var ErrJobSeekerRoleRequired = New(
	CodeForbidden,
	"application",
	"Only job seekers can apply",
	http.StatusForbidden,
)

var ErrApplicationExists = New(
	CodeAlreadyExists,
	"application",
	"You have already applied to this opportunity",
	http.StatusConflict,
)

var ErrOpportunityNotAcceptingApplications = New(
	CodeInvalidOperation,
	"application",
	"This opportunity does not accept applications",
	http.StatusBadRequest,
)

// --- Profiles ---

var ErrRoleNotHeld = New(
	CodeForbidden,
	"profile",
	"You do not hold this role",
	http.StatusForbidden,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Rate limit ---

var ErrRateLimited = New(
	CodeLimitExceeded,
	"request",
	"Rate limit exceeded",
	http.StatusTooManyRequests,
)

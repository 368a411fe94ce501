package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"proconnect_backend/internal/identity"
	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/validator"
	"proconnect_backend/pkg/apperrors"
	"proconnect_backend/pkg/contextkeys"
)

// maxJSONBody - предел тела JSON запроса
const maxJSONBody = 1 << 20

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// GetDB извлекает *gorm.DB (пул или транзакцию) из gin.Context.
// Без DBMiddleware приложение собрано неверно, поэтому паника.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// ============================================================================
// 2. Разбор и валидация
// ============================================================================

// DecodeJSON строго разбирает тело: неизвестные поля и неверные типы дают VALIDATION_FAILED.
// Валидацию по тегам не выполняет, это делает сервис.
func (h *BaseHandler) DecodeJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxJSONBody))
	if err != nil {
		logger.CtxWarn(ctx, "Failed to read request body", "error", err.Error(), "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read request body"))
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		appErr := decodeError(err, data, obj)
		logger.CtxWarn(ctx, "Failed to decode JSON body", "error", err.Error(), "path", c.Request.URL.Path)
		apperrors.HandleError(c, appErr)
		return false
	}
	if dec.More() {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Request body must contain a single JSON object"))
		return false
	}
	return true
}

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	if !h.DecodeJSON(c, obj) {
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

// BindAndValidate_Form - multipart формы (загрузка файлов)
func (h *BaseHandler) BindAndValidate_Form(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind form", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid form data: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	err := h.validator.Validate(obj)
	if err == nil {
		return true
	}

	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.ValidationError(vErr.Issues()))
	} else {
		logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
	return false
}

// decodeError переводит ошибку json в ответ с путем поля
func decodeError(err error, data []byte, obj interface{}) *apperrors.AppError {
	vErr := &validator.ValidationError{}

	var typeErr *json.UnmarshalTypeError
	var unknownField *dto.UnknownFieldError
	var fieldType *dto.FieldTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.Is(err, io.EOF):
		return apperrors.NewBadRequestError("Request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.NewBadRequestError("Malformed JSON body")
	case errors.As(err, &unknownField):
		vErr.Add(unknownField.Field, "Unknown field")
	case errors.As(err, &fieldType):
		vErr.Add(fieldType.Field, "Must be a "+fieldType.Expected)
	case errors.As(err, &typeErr):
		path := typeErr.Field
		if path == "" {
			path = "body"
		}
		vErr.Add(path, "Must be a "+jsonKind(typeErr.Type.Kind().String()))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		vErr.Add(unknownFieldPath(data, obj, field), "Unknown field")
	default:
		return apperrors.NewBadRequestError("Invalid request body: " + err.Error())
	}
	return apperrors.ValidationError(vErr.Issues())
}

func jsonKind(kind string) string {
	switch kind {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "array"
	case "map", "struct", "ptr":
		return "object"
	default:
		return "number"
	}
}

// ============================================================================
// 3. Обработчики ошибок
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

// ============================================================================
// 4. Вспомогательные функции
// ============================================================================

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	ctx := c.Request.Context()

	userID := c.GetString(contextkeys.UserIDKey)
	if userID == "" {
		logger.CtxWarn(ctx, "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.ErrMissingToken)
		return "", false
	}
	return userID, true
}

// GetClaims - проверенные claims текущего запроса
func (h *BaseHandler) GetClaims(c *gin.Context) (*identity.Claims, bool) {
	v, exists := c.Get(contextkeys.ClaimsKey)
	claims, ok := v.(*identity.Claims)
	if !exists || !ok || claims == nil {
		apperrors.HandleError(c, apperrors.ErrMissingToken)
		return nil, false
	}
	return claims, true
}

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func ParsePagination(c *gin.Context) (page int, pageSize int) {
	const defaultPage = 1
	const defaultPageSize = 20
	const maxPageSize = 100

	page = ParseQueryInt(c, "page", defaultPage)
	if page <= 0 {
		page = defaultPage
	}

	pageSize = ParseQueryInt(c, "page_size", defaultPageSize)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}

package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке: {error, code, details?}
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    ErrorCode   `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError - основная логика обработки ошибок для Gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	resp := ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}

	if appErr.HTTPCode >= 500 {
		// Клиенту уходит непрозрачное сообщение, причина только в лог
		slog.ErrorContext(c.Request.Context(), "server error",
			"error", appErr.Error(),
			"path", c.Request.URL.Path,
		)
		resp.Error = "Internal server error"
		if !h.Debug {
			resp.Details = nil
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, resp)
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.Mode() == gin.DebugMode}
	handler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

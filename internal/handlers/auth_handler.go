package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proconnect_backend/internal/metrics"
	"proconnect_backend/internal/services"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/pkg/apperrors"
)

// AuthHandler - завершение регистрации и текущий пользователь.
// Учетные данные хранит внешний провайдер, здесь только проверенные claims.
type AuthHandler struct {
	*BaseHandler
	registrationService services.RegistrationService
	metrics             *metrics.Metrics
}

func NewAuthHandler(base *BaseHandler, registrationService services.RegistrationService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		BaseHandler:         base,
		registrationService: registrationService,
		metrics:             m,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, g *Guards) {
	auth := r.Group("/auth")
	auth.Use(g.Auth)
	{
		auth.POST("/complete-registration", g.RateLimit, h.CompleteRegistration)
		auth.GET("/me", h.Me)
	}
}

func (h *AuthHandler) CompleteRegistration(c *gin.Context) {
	claims, ok := h.GetClaims(c)
	if !ok {
		return
	}

	// Повторная регистрация отвечает ALREADY_REGISTERED при любом теле
	if err := h.registrationService.EnsureNotRegistered(h.GetDB(c), claims.Subject); err != nil {
		h.record(registrationOutcome(err))
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CompleteRegistrationRequest
	if !h.DecodeJSON(c, &req) {
		h.record("invalid")
		return
	}

	resp, err := h.registrationService.CompleteRegistration(c.Request.Context(), h.GetDB(c), claims, &req)
	if err != nil {
		h.record(registrationOutcome(err))
		h.HandleServiceError(c, err)
		return
	}

	h.record("created")
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := h.GetClaims(c)
	if !ok {
		return
	}

	resp, err := h.registrationService.Me(c.Request.Context(), h.GetDB(c), claims)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) record(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordRegistration(outcome)
	}
}

func registrationOutcome(err error) string {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return "error"
	}
	switch appErr.Code {
	case apperrors.CodeAlreadyRegistered:
		return "already_registered"
	case apperrors.CodeValidationFailed:
		return "invalid"
	}
	if appErr.HTTPCode >= http.StatusInternalServerError {
		return "error"
	}
	return "rejected"
}

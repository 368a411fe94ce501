package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proconnect_backend/internal/services"
	"proconnect_backend/internal/services/dto"
)

// TalentHandler - каталог специалистов для работодателей.
// Роль работодателя проверяет сервис, чтобы ответ был 403 с понятным сообщением.
type TalentHandler struct {
	*BaseHandler
	talentService services.TalentService
}

func NewTalentHandler(base *BaseHandler, talentService services.TalentService) *TalentHandler {
	return &TalentHandler{
		BaseHandler:   base,
		talentService: talentService,
	}
}

func (h *TalentHandler) RegisterRoutes(r *gin.RouterGroup, g *Guards) {
	r.GET("/talent", g.Auth, h.Browse)
}

func (h *TalentHandler) Browse(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.TalentQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, pageSize := ParsePagination(c)
	resp, err := h.talentService.Browse(h.GetDB(c), userID, &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import "github.com/gin-gonic/gin"

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	UserHandler        *UserHandler
	OpportunityHandler *OpportunityHandler
	ApplicationHandler *ApplicationHandler
	TalentHandler      *TalentHandler
	AdminHandler       *AdminHandler
	ContentHandler     *ContentHandler
	GeoHandler         *GeoHandler
	MembershipHandler  *MembershipHandler
}

// RegisterAll регистрирует маршруты всех хэндлеров в группе /api
func (h *AppHandlers) RegisterAll(api *gin.RouterGroup, g *Guards) {
	h.AuthHandler.RegisterRoutes(api, g)
	h.UserHandler.RegisterRoutes(api, g)
	h.OpportunityHandler.RegisterRoutes(api, g)
	h.ApplicationHandler.RegisterRoutes(api, g)
	h.TalentHandler.RegisterRoutes(api, g)
	h.AdminHandler.RegisterRoutes(api, g)
	h.ContentHandler.RegisterRoutes(api, g)
	h.GeoHandler.RegisterRoutes(api, g)
	h.MembershipHandler.RegisterRoutes(api, g)
}

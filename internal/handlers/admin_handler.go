package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/services"
	"proconnect_backend/internal/services/dto"
)

// AdminHandler - модерация аккаунтов и объявлений
type AdminHandler struct {
	*BaseHandler
	adminService       services.AdminService
	opportunityService services.OpportunityService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService, opportunityService services.OpportunityService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:        base,
		adminService:       adminService,
		opportunityService: opportunityService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, g *Guards) {
	admin := r.Group("/admin", g.Auth, g.Require(models.RoleAdmin))
	{
		admin.GET("/stats", h.GetStats)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PATCH("/users/:id/approval", h.SetUserApproval)
		admin.PUT("/users/:id/roles", h.SetUserRoles)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/opportunities", h.ListOpportunities)
		admin.PATCH("/opportunities/:id/approval", h.SetOpportunityApproval)
	}
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.AdminUserListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, pageSize := ParsePagination(c)
	resp, err := h.adminService.ListUsers(h.GetDB(c), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	resp, err := h.adminService.GetUser(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) SetUserApproval(c *gin.Context) {
	var req dto.SetApprovalStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	account, err := h.adminService.SetApprovalStatus(c.Request.Context(), h.GetDB(c), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AdminHandler) SetUserRoles(c *gin.Context) {
	var req dto.SetRolesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	roles, err := h.adminService.SetRoles(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": dto.RoleSelectionFromSet(roles)})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), h.GetDB(c), adminID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted"})
}

func (h *AdminHandler) ListOpportunities(c *gin.Context) {
	var query dto.ReviewOpportunitiesQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, pageSize := ParsePagination(c)
	resp, err := h.opportunityService.ListForReview(h.GetDB(c), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) SetOpportunityApproval(c *gin.Context) {
	var req dto.SetApprovalStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	opportunity, err := h.opportunityService.SetApprovalStatus(c.Request.Context(), h.GetDB(c), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, opportunity)
}

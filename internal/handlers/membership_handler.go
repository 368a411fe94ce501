package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/services"
	"proconnect_backend/internal/services/dto"
)

type MembershipHandler struct {
	*BaseHandler
	membershipService services.MembershipService
}

func NewMembershipHandler(base *BaseHandler, membershipService services.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		BaseHandler:       base,
		membershipService: membershipService,
	}
}

func (h *MembershipHandler) RegisterRoutes(r *gin.RouterGroup, g *Guards) {
	membership := r.Group("/membership")
	{
		membership.GET("/tiers", h.ListActiveTiers)
		membership.POST("/applications", g.Auth, h.Apply)
		membership.GET("/applications/mine", g.Auth, h.ListMyApplications)
	}

	admin := r.Group("/admin/membership", g.Auth, g.Require(models.RoleAdmin))
	{
		admin.GET("/tiers", h.ListTiers)
		admin.POST("/tiers", h.CreateTier)
		admin.PUT("/tiers/:id", h.UpdateTier)
		admin.DELETE("/tiers/:id", h.DeleteTier)

		admin.GET("/applications", h.ListApplications)
		admin.PATCH("/applications/:id", h.Decide)
	}
}

func (h *MembershipHandler) ListActiveTiers(c *gin.Context) { h.listTiers(c, true) }
func (h *MembershipHandler) ListTiers(c *gin.Context)       { h.listTiers(c, false) }

func (h *MembershipHandler) listTiers(c *gin.Context, activeOnly bool) {
	tiers, err := h.membershipService.ListTiers(h.GetDB(c), activeOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tiers})
}

func (h *MembershipHandler) CreateTier(c *gin.Context) {
	var req dto.MembershipTierRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	tier, err := h.membershipService.CreateTier(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tier)
}

func (h *MembershipHandler) UpdateTier(c *gin.Context) {
	var req dto.MembershipTierRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	tier, err := h.membershipService.UpdateTier(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tier)
}

func (h *MembershipHandler) DeleteTier(c *gin.Context) {
	if err := h.membershipService.DeleteTier(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Tier deleted"})
}

func (h *MembershipHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.MembershipApplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	application, err := h.membershipService.Apply(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

func (h *MembershipHandler) ListMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	items, err := h.membershipService.ListMyApplications(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *MembershipHandler) ListApplications(c *gin.Context) {
	var query dto.MembershipApplicationsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	items, err := h.membershipService.ListApplications(h.GetDB(c), models.ApprovalStatus(query.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *MembershipHandler) Decide(c *gin.Context) {
	var req dto.SetApprovalStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	application, err := h.membershipService.Decide(c.Request.Context(), h.GetDB(c), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

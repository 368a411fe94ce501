package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/middleware"
	"proconnect_backend/internal/services"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/pkg/apperrors"
)

type OpportunityHandler struct {
	*BaseHandler
	opportunityService services.OpportunityService
	policy             services.PostingPolicy
}

func NewOpportunityHandler(base *BaseHandler, opportunityService services.OpportunityService, policy services.PostingPolicy) *OpportunityHandler {
	return &OpportunityHandler{
		BaseHandler:        base,
		opportunityService: opportunityService,
		policy:             policy,
	}
}

func (h *OpportunityHandler) RegisterRoutes(r *gin.RouterGroup, g *Guards) {
	opportunities := r.Group("/opportunities")
	{
		opportunities.GET("", g.OptionalAuth, h.List)
		opportunities.GET("/:id", g.OptionalAuth, h.Get)
		opportunities.POST("", g.Auth, h.Create)
		opportunities.PATCH("/:id", g.Auth, h.Update)
		opportunities.DELETE("/:id", g.Auth, h.Delete)
	}
}

// Create - не-работодатель получает 403 до разбора тела, независимо от его содержимого
func (h *OpportunityHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	db := h.GetDB(c)

	if err := h.opportunityService.EnsureEmployer(db, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CreateOpportunityRequest
	if !h.DecodeJSON(c, &req) {
		return
	}

	opportunity, err := h.opportunityService.Create(c.Request.Context(), db, userID, &req, h.policy)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, opportunity)
}

// List - публичная лента или, с myOpportunities=true, свои объявления в любом статусе
func (h *OpportunityHandler) List(c *gin.Context) {
	var query dto.ListOpportunitiesQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	db := h.GetDB(c)

	if query.MyOpportunities {
		userID := middleware.GetUserID(c)
		if userID == "" {
			apperrors.HandleError(c, apperrors.ErrMissingToken)
			return
		}
		items, err := h.opportunityService.ListMine(db, userID)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
		return
	}

	page, pageSize := ParsePagination(c)
	resp, err := h.opportunityService.ListPublic(db, &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OpportunityHandler) Get(c *gin.Context) {
	opportunity, err := h.opportunityService.Get(h.GetDB(c), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, opportunity)
}

func (h *OpportunityHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateOpportunityRequest
	if !h.DecodeJSON(c, &req) {
		return
	}
	if stripped := req.StrippedFields(); len(stripped) > 0 {
		logger.CtxInfo(c.Request.Context(), "Protected fields ignored in opportunity patch", "fields", stripped, "opportunity_id", c.Param("id"))
	}

	opportunity, err := h.opportunityService.Update(c.Request.Context(), h.GetDB(c), c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, opportunity)
}

func (h *OpportunityHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.opportunityService.Delete(c.Request.Context(), h.GetDB(c), c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Opportunity deleted"})
}

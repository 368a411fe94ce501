package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/services"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/pkg/apperrors"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, g *Guards) {
	users := r.Group("/users")
	users.Use(g.Auth)
	{
		users.POST("/assign-roles", h.AssignRoles)
		users.GET("/me/profile", h.GetProfile)
		users.PUT("/me/profile", h.UpdateProfile)
		users.GET("/me/role-profiles", h.GetRoleProfiles)
		users.PUT("/me/role-profiles/:role", h.SaveRoleProfile)
		users.DELETE("/me/role-profiles/:role", h.DeleteRoleProfile)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.userService.GetProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) AssignRoles(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AssignRolesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	roles, err := h.userService.AssignRoles(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": dto.RoleSelectionFromSet(roles)})
}

func (h *UserHandler) GetRoleProfiles(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.userService.GetProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": resp.Roles, "roleProfiles": resp.RoleProfiles})
}

// SaveRoleProfile - схема тела зависит от роли в пути
func (h *UserHandler) SaveRoleProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	role := models.Role(c.Param("role"))
	input := dto.NewRoleProfileInput(role)
	if input == nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown role profile: "+string(role)))
		return
	}
	if !h.BindAndValidate_JSON(c, input) {
		return
	}

	profile, err := h.userService.SaveRoleProfile(c.Request.Context(), h.GetDB(c), userID, role, input)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) DeleteRoleProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteRoleProfile(h.GetDB(c), userID, models.Role(c.Param("role"))); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Role profile deleted"})
}

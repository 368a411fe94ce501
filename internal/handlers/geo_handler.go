package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/services"
	"proconnect_backend/internal/services/dto"
)

type GeoHandler struct {
	*BaseHandler
	geoService services.GeoService
}

func NewGeoHandler(base *BaseHandler, geoService services.GeoService) *GeoHandler {
	return &GeoHandler{
		BaseHandler: base,
		geoService:  geoService,
	}
}

func (h *GeoHandler) RegisterRoutes(r *gin.RouterGroup, g *Guards) {
	r.GET("/countries", h.ListEnabledCountries)
	r.GET("/countries/:id/cities", h.ListEnabledCities)

	admin := r.Group("/admin", g.Auth, g.Require(models.RoleAdmin))
	{
		admin.GET("/countries", h.ListCountries)
		admin.POST("/countries", h.CreateCountry)
		admin.PATCH("/countries/:id", h.UpdateCountry)
		admin.DELETE("/countries/:id", h.DeleteCountry)

		admin.GET("/countries/:id/cities", h.ListCities)
		admin.POST("/countries/:id/cities", h.CreateCity)
		admin.PATCH("/cities/:id", h.UpdateCity)
		admin.DELETE("/cities/:id", h.DeleteCity)
	}
}

func (h *GeoHandler) ListEnabledCountries(c *gin.Context) { h.listCountries(c, true) }
func (h *GeoHandler) ListCountries(c *gin.Context)        { h.listCountries(c, false) }

func (h *GeoHandler) listCountries(c *gin.Context, enabledOnly bool) {
	countries, err := h.geoService.ListCountries(h.GetDB(c), enabledOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": countries})
}

func (h *GeoHandler) ListEnabledCities(c *gin.Context) {
	cities, err := h.geoService.ListPublicCities(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cities})
}

func (h *GeoHandler) ListCities(c *gin.Context) {
	cities, err := h.geoService.ListCities(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cities})
}

func (h *GeoHandler) CreateCountry(c *gin.Context) {
	var req dto.CountryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	country, err := h.geoService.CreateCountry(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, country)
}

func (h *GeoHandler) UpdateCountry(c *gin.Context) {
	var req dto.UpdateGeoRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	country, err := h.geoService.UpdateCountry(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, country)
}

func (h *GeoHandler) DeleteCountry(c *gin.Context) {
	if err := h.geoService.DeleteCountry(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Country deleted"})
}

func (h *GeoHandler) CreateCity(c *gin.Context) {
	var req dto.CityRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	city, err := h.geoService.CreateCity(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, city)
}

func (h *GeoHandler) UpdateCity(c *gin.Context) {
	var req dto.UpdateGeoRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	city, err := h.geoService.UpdateCity(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

func (h *GeoHandler) DeleteCity(c *gin.Context) {
	if err := h.geoService.DeleteCity(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "City deleted"})
}

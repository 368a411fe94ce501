package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/services"
	"proconnect_backend/internal/services/dto"
)

// ContentHandler - видео, лидеры и галерея: публичное чтение и управление админом
type ContentHandler struct {
	*BaseHandler
	contentService services.ContentService
}

func NewContentHandler(base *BaseHandler, contentService services.ContentService) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    base,
		contentService: contentService,
	}
}

func (h *ContentHandler) RegisterRoutes(r *gin.RouterGroup, g *Guards) {
	r.GET("/videos", h.ListPublishedVideos)
	r.GET("/leaders", h.ListPublishedLeaders)
	r.GET("/gallery", h.ListPublishedGallery)

	admin := r.Group("/admin", g.Auth, g.Require(models.RoleAdmin))
	{
		admin.GET("/videos", h.ListVideos)
		admin.POST("/videos", h.CreateVideo)
		admin.PUT("/videos/:id", h.UpdateVideo)
		admin.DELETE("/videos/:id", h.DeleteVideo)

		admin.GET("/leaders", h.ListLeaders)
		admin.POST("/leaders", h.CreateLeader)
		admin.PUT("/leaders/:id", h.UpdateLeader)
		admin.DELETE("/leaders/:id", h.DeleteLeader)

		admin.GET("/gallery", h.ListGallery)
		admin.POST("/gallery", h.UploadGalleryImage)
		admin.PATCH("/gallery/:id", h.UpdateGalleryImage)
		admin.DELETE("/gallery/:id", h.DeleteGalleryImage)
	}
}

// --- Видео ---

func (h *ContentHandler) ListPublishedVideos(c *gin.Context) { h.listVideos(c, true) }
func (h *ContentHandler) ListVideos(c *gin.Context)          { h.listVideos(c, false) }

func (h *ContentHandler) listVideos(c *gin.Context, publishedOnly bool) {
	videos, err := h.contentService.ListVideos(h.GetDB(c), publishedOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": videos})
}

func (h *ContentHandler) CreateVideo(c *gin.Context) {
	var req dto.VideoRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	video, err := h.contentService.CreateVideo(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (h *ContentHandler) UpdateVideo(c *gin.Context) {
	var req dto.VideoRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	video, err := h.contentService.UpdateVideo(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *ContentHandler) DeleteVideo(c *gin.Context) {
	if err := h.contentService.DeleteVideo(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Video deleted"})
}

// --- Лидеры ---

func (h *ContentHandler) ListPublishedLeaders(c *gin.Context) { h.listLeaders(c, true) }
func (h *ContentHandler) ListLeaders(c *gin.Context)          { h.listLeaders(c, false) }

func (h *ContentHandler) listLeaders(c *gin.Context, publishedOnly bool) {
	leaders, err := h.contentService.ListLeaders(h.GetDB(c), publishedOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": leaders})
}

func (h *ContentHandler) CreateLeader(c *gin.Context) {
	var req dto.LeaderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	leader, err := h.contentService.CreateLeader(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, leader)
}

func (h *ContentHandler) UpdateLeader(c *gin.Context) {
	var req dto.LeaderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	leader, err := h.contentService.UpdateLeader(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, leader)
}

func (h *ContentHandler) DeleteLeader(c *gin.Context) {
	if err := h.contentService.DeleteLeader(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Leader deleted"})
}

// --- Галерея ---

func (h *ContentHandler) ListPublishedGallery(c *gin.Context) { h.listGallery(c, true) }
func (h *ContentHandler) ListGallery(c *gin.Context)          { h.listGallery(c, false) }

func (h *ContentHandler) listGallery(c *gin.Context, publishedOnly bool) {
	images, err := h.contentService.ListGallery(h.GetDB(c), publishedOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": images})
}

func (h *ContentHandler) UploadGalleryImage(c *gin.Context) {
	var req dto.GalleryUploadRequest
	if !h.BindAndValidate_Form(c, &req) {
		return
	}
	image, err := h.contentService.UploadGalleryImage(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

func (h *ContentHandler) UpdateGalleryImage(c *gin.Context) {
	var req dto.UpdateGalleryImageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	image, err := h.contentService.UpdateGalleryImage(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

func (h *ContentHandler) DeleteGalleryImage(c *gin.Context) {
	if err := h.contentService.DeleteGalleryImage(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Image deleted"})
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"proconnect_backend/internal/handlers"
	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/metrics"
)

// Options - служебные маршруты вне /api
type Options struct {
	DB      *gorm.DB
	Metrics *metrics.Metrics
	// UploadsURL/UploadsDir - раздача файлов локального хранилища, пустой UploadsDir выключает ее
	UploadsURL string
	UploadsDir string
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, guards *handlers.Guards, opts Options) {
	ginRouter.GET("/health", healthHandler(opts.DB))

	if opts.Metrics != nil {
		ginRouter.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	if opts.UploadsDir != "" && opts.UploadsURL != "" {
		ginRouter.Static(opts.UploadsURL, opts.UploadsDir)
		logger.Info("Serving local uploads", "url", opts.UploadsURL, "dir", opts.UploadsDir)
	}

	api := ginRouter.Group("/api")
	appHandlers.RegisterAll(api, guards)
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				logger.CtxWithError(c.Request.Context(), "Health check failed", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

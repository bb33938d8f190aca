// Package api assembles the gin router of the form-engine service.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/api/handlers"
	"github.com/goliatone/go-formengine/internal/service"
)

// NewRouter wires the handlers under /api/v1 plus a health endpoint.
func NewRouter(templates *service.TemplateService, assets *service.AssetService, renders *service.RenderService, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	handlers.NewTemplateHandler(templates, log).Register(v1)
	handlers.NewAssetHandler(assets, log).Register(v1)
	if renders != nil {
		handlers.NewPreviewHandler(renders, log).Register(v1)
	}
	return router
}

// requestLogger emits one structured line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/service"
)

// PreviewHandler serves rendered previews of configuration templates.
type PreviewHandler struct {
	renders *service.RenderService
	log     *zap.Logger
}

// NewPreviewHandler creates a PreviewHandler.
func NewPreviewHandler(renders *service.RenderService, log *zap.Logger) *PreviewHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PreviewHandler{renders: renders, log: log}
}

// Register mounts the preview route on the given group.
func (h *PreviewHandler) Register(group *gin.RouterGroup) {
	group.GET("/configurations/:id/preview", h.preview)
}

// preview renders a blank form for the template. The renderer query
// parameter overrides the configured default.
func (h *PreviewHandler) preview(c *gin.Context) {
	out, contentType, err := h.renders.Preview(c.Request.Context(), c.Param("id"), c.Query("renderer"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, contentType, out)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/service"
	"github.com/goliatone/go-formengine/pkg/model"
)

// TemplateHandler exposes the configuration template lifecycle over REST.
type TemplateHandler struct {
	templates *service.TemplateService
	log       *zap.Logger
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(templates *service.TemplateService, log *zap.Logger) *TemplateHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TemplateHandler{templates: templates, log: log}
}

// Register mounts the template routes on the given group.
func (h *TemplateHandler) Register(group *gin.RouterGroup) {
	group.GET("/configurations", h.list)
	group.POST("/configurations", h.create)
	group.GET("/configurations/:id", h.get)
	group.PUT("/configurations/:id", h.update)
	group.PUT("/configurations/:id/toggle", h.toggle)
	group.DELETE("/configurations/:id", h.remove)
}

func (h *TemplateHandler) list(c *gin.Context) {
	summaries, err := h.templates.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *TemplateHandler) get(c *gin.Context) {
	tpl, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *TemplateHandler) create(c *gin.Context) {
	var tpl model.ConfigurationTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		bindError(c, err)
		return
	}
	created, err := h.templates.Create(c.Request.Context(), tpl)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TemplateHandler) update(c *gin.Context) {
	var tpl model.ConfigurationTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		bindError(c, err)
		return
	}
	tpl.ID = c.Param("id")
	updated, err := h.templates.Update(c.Request.Context(), tpl)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type toggleRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *TemplateHandler) toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	toggled, err := h.templates.Toggle(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toggled)
}

func (h *TemplateHandler) remove(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

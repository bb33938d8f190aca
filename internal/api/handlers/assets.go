package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/service"
)

// AssetHandler exposes asset submission over REST.
type AssetHandler struct {
	assets *service.AssetService
	log    *zap.Logger
}

// NewAssetHandler creates an AssetHandler.
func NewAssetHandler(assets *service.AssetService, log *zap.Logger) *AssetHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssetHandler{assets: assets, log: log}
}

// Register mounts the asset routes on the given group.
func (h *AssetHandler) Register(group *gin.RouterGroup) {
	group.GET("/assets", h.list)
	group.POST("/assets", h.create)
	group.GET("/assets/:id", h.get)
	group.PUT("/assets/:id", h.update)
	group.DELETE("/assets/:id", h.remove)
}

// submitRequest is the wire shape of asset create and update calls. Values
// are keyed by field id; image fields carry reference lists. Name is not
// bound as required: the name rule belongs to the validator so empty and
// whitespace-only names report through the same field-error surface.
type submitRequest struct {
	Name            string         `json:"name"`
	Type            string         `json:"type"`
	ConfigurationID string         `json:"configurationId" binding:"required"`
	Description     string         `json:"description"`
	Values          map[string]any `json:"values"`
}

func (r submitRequest) toService() service.SubmitAssetRequest {
	return service.SubmitAssetRequest{
		Name:            r.Name,
		EntityType:      r.Type,
		ConfigurationID: r.ConfigurationID,
		Description:     r.Description,
		Values:          r.Values,
	}
}

func (h *AssetHandler) list(c *gin.Context) {
	records, err := h.assets.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *AssetHandler) get(c *gin.Context) {
	record, err := h.assets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *AssetHandler) create(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	record, err := h.assets.Create(c.Request.Context(), req.toService())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *AssetHandler) update(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	record, err := h.assets.Update(c.Request.Context(), c.Param("id"), req.toService())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *AssetHandler) remove(c *gin.Context) {
	if err := h.assets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/core/apperror"
	"backoffice/internal/metadata"
)

// MetadataHandler serves catalog descriptions.
type MetadataHandler struct {
	*BaseHandler
	registry *metadata.Registry
}

func NewMetadataHandler(base *BaseHandler, registry *metadata.Registry) *MetadataHandler {
	return &MetadataHandler{BaseHandler: base, registry: registry}
}

// ListEntities handles GET /meta.
func (h *MetadataHandler) ListEntities(c *gin.Context) {
	h.OK(c, h.registry.List())
}

// GetEntity handles GET /meta/:name.
func (h *MetadataHandler) GetEntity(c *gin.Context) {
	def, ok := h.registry.Get(c.Param("name"))
	if !ok {
		h.Error(c, apperror.NewNotFound("Catálogo", c.Param("name")))
		return
	}
	h.OK(c, def)
}

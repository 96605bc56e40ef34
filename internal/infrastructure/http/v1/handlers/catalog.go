// Package handlers provides HTTP request handlers.
package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/domain"
	"backoffice/internal/domain/filter"
)

// NextCodeResponse is the body of GET {path}/codigo/next.
type NextCodeResponse struct {
	Codigo int64 `json:"codigo"`
}

// CatalogHandler provides generic HTTP handlers for catalog entities.
type CatalogHandler[T entity.Entity[T]] struct {
	*BaseHandler
	service *domain.CatalogService[T]

	// listFilters are query parameters accepted as equality filters on List
	listFilters []string
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Entity[T]] struct {
	Service     *domain.CatalogService[T]
	ListFilters []string
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Entity[T]](base *BaseHandler, cfg CatalogHandlerConfig[T]) *CatalogHandler[T] {
	return &CatalogHandler[T]{
		BaseHandler: base,
		service:     cfg.Service,
		listFilters: cfg.ListFilters,
	}
}

// HasCounter reports whether the NextCode route applies.
func (h *CatalogHandler[T]) HasCounter() bool {
	return h.service.HasCounter()
}

// List handles GET /{entity}/?estado=activos|inactivos|todos.
func (h *CatalogHandler[T]) List(c *gin.Context) {
	state, err := filter.ParseState(c.Query("estado"))
	if err != nil {
		h.Error(c, apperror.NewValidation(fmt.Sprintf("Estado inválido: '%s'", c.Query("estado"))).
			WithDetail("field", "estado"))
		return
	}

	f := domain.ListFilter{State: state}
	for _, key := range h.listFilters {
		if v, ok := c.GetQuery(key); ok && v != "" {
			f.Items = append(f.Items, filter.Eq(key, v))
		}
	}

	items, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	e, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// Create handles POST /{entity}/. Conflicts on the code are 409s.
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	var req T
	if !h.BindJSON(c, &req, false) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Update handles PATCH /{entity}/:id - partial update.
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	var patch entity.Patch
	if !h.BindJSON(c, &patch, true) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /{entity}/:id - soft delete.
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	if err := h.service.Retire(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// NextCode handles GET /{entity}/codigo/next.
func (h *CatalogHandler[T]) NextCode(c *gin.Context) {
	n, err := h.service.NextCode(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, NextCodeResponse{Codigo: n})
}

// History handles GET /{entity}/:id/historial?limite=N.
func (h *CatalogHandler[T]) History(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limite", 50)
	entries, err := h.service.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}

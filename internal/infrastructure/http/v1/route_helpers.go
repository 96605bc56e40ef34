// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	History(c *gin.Context)
	NextCode(c *gin.Context)
	HasCounter() bool
}

// RegisterCatalogRoutes registers the lifecycle routes of a catalog.
// The collection answers with and without the trailing slash.
//
// Usage:
//
//	handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[rubro.Rubro]{Service: svc.CatalogService})
//	RegisterCatalogRoutes(router.Group(rubro.Path), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.GET("/", handler.List)
	group.POST("", handler.Create)
	group.POST("/", handler.Create)

	if handler.HasCounter() {
		group.GET("/codigo/next", handler.NextCode)
	}

	group.GET("/:id", handler.Get)
	group.PATCH("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.GET("/:id/historial", handler.History)
}

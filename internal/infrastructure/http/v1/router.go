package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/catalogs/taxcondition"
	"backoffice/internal/domain/catalogs/unit"
	"backoffice/internal/infrastructure/http/v1/handlers"
	"backoffice/internal/infrastructure/http/v1/middleware"
	"backoffice/internal/metadata"
	"backoffice/pkg/logger"
)

// Catalogs bundles the catalog services exposed by the API.
type Catalogs struct {
	Rubros        *rubro.Service
	SubRubros     *subrubro.Service
	Units         *unit.Service
	TaxConditions *taxcondition.Service
	Products      *product.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	Catalogs Catalogs

	// Storage is pinged by the readiness check
	Storage       handlers.Pinger
	StorageDriver string

	// Logger for request logging
	Logger *logger.Logger

	// Metrics enables request metrics and GET /metrics when set
	Metrics *middleware.Metrics

	// Metadata enables GET /meta when set
	Metadata *metadata.Registry
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// Keep numbers in PATCH bodies exact until they reach decimal fields.
	binding.EnableDecoderUseNumber = true

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Storage, cfg.StorageDriver)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metadata != nil {
		metaHandler := handlers.NewMetadataHandler(handlers.NewBaseHandler(), cfg.Metadata)
		meta := router.Group("/meta")
		meta.GET("", metaHandler.ListEntities)
		meta.GET("/:name", metaHandler.GetEntity)
	}

	registerCatalogRoutes(router, cfg.Catalogs)

	return router
}

// registerCatalogRoutes registers the catalog endpoints.
func registerCatalogRoutes(router *gin.Engine, cats Catalogs) {
	base := handlers.NewBaseHandler()

	RegisterCatalogRoutes(router.Group(rubro.Path),
		handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[rubro.Rubro]{
			Service: cats.Rubros.CatalogService,
		}))

	RegisterCatalogRoutes(router.Group(subrubro.Path),
		handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[subrubro.SubRubro]{
			Service:     cats.SubRubros.CatalogService,
			ListFilters: []string{subrubro.FieldRubroID},
		}))

	RegisterCatalogRoutes(router.Group(unit.Path),
		handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[unit.Unit]{
			Service: cats.Units.CatalogService,
		}))

	RegisterCatalogRoutes(router.Group(taxcondition.Path),
		handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[taxcondition.TaxCondition]{
			Service: cats.TaxConditions.CatalogService,
		}))

	RegisterCatalogRoutes(router.Group(product.Path),
		handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[product.Product]{
			Service:     cats.Products.CatalogService,
			ListFilters: []string{product.FieldSubRubro, product.FieldTaxCondition, product.FieldUnit},
		}))
}

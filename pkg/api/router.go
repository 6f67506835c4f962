package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/api/handlers"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
)

// Router holds the Gin engine and the gateway facade it dispatches against.
type Router struct {
	engine *gin.Engine
	app    *app.App
}

// NewRouter creates a new API router over a.
func NewRouter(a *app.App) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine: engine,
		app:    a,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes.
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	healthHandler := handlers.NewHealthHandler(r.app)
	r.engine.GET("/health", healthHandler.Health)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		statsHandler := handlers.NewStatsHandler(r.app)
		v1.GET("/stats", statsHandler.GetStats)

		powerHandler := handlers.NewPowerHandler(r.app)
		lpm := v1.Group("/lpm")
		{
			lpm.POST("/enter", powerHandler.EnterLPM)
			lpm.POST("/exit", powerHandler.ExitLPM)
		}
		v1.POST("/descriptors/reprocess", powerHandler.ReprocessDescriptors)

		discoveryHandler := handlers.NewDiscoveryHandler(r.app)
		discovery := v1.Group("/discovery")
		{
			discovery.POST("/start", discoveryHandler.StartDiscovery)
			discovery.POST("/stop", discoveryHandler.StopDiscovery)
			discovery.GET("/events", discoveryHandler.Events)
		}

		devicesHandler := handlers.NewDevicesHandler(r.app)
		devices := v1.Group("/devices")
		{
			devices.GET("", devicesHandler.ListDevices)
			devices.GET("/*uri", devicesHandler.GetDevice)
			devices.DELETE("/*uri", devicesHandler.RemoveDevice)
		}

		resourcesHandler := handlers.NewControlHandler(r.app)
		resources := v1.Group("/resources")
		{
			resources.GET("", resourcesHandler.QueryResources)
			resources.GET("/*uri", resourcesHandler.GetResource)
			resources.PUT("/*uri", resourcesHandler.WriteResource)
			resources.PATCH("/*uri", resourcesHandler.ChangeResourceMode)
		}
		v1.POST("/execute/*uri", resourcesHandler.ExecuteResource)
		v1.GET("/lpm-remaining/:uuid", resourcesHandler.LPMRemaining)

		v1.GET("/metadata", devicesHandler.GetMetadata)
		v1.PUT("/metadata", devicesHandler.SetMetadata)

		propertiesHandler := handlers.NewPropertiesHandler(r.app)
		properties := v1.Group("/properties")
		{
			properties.GET("/:key", propertiesHandler.GetProperty)
			properties.PUT("/:key", propertiesHandler.SetProperty)
		}
	}
}

// Run starts the HTTP server.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

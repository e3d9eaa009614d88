package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/container"
	"github.com/joshua-takyi/devevent/internal/handlers"
	"github.com/joshua-takyi/devevent/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.Metrics())
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "devevent-api",
			})
		})
	}

	eventRoutes := v1.Group("/events")
	{
		eventRoutes.POST("", handlers.CreateEvent(container.EventsService, container.Config.MaxUploadBytes))
		eventRoutes.GET("", handlers.ListEvents(container.EventsService))
		eventRoutes.GET("/:slug", handlers.GetEventBySlug(container.EventsService))
		eventRoutes.GET("/:slug/similar", handlers.GetSimilarEvents(container.EventsService))
		eventRoutes.GET("/:slug/details", handlers.GetEventDetails(container.EventsService))
		eventRoutes.POST("/:slug/bookings", handlers.BookEvent(container.BookingService))
	}

	return r
}

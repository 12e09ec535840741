package routes

import (
	"net/http"

	"Hospitality/cache"
	"Hospitality/config"
	"Hospitality/controllers"
	"Hospitality/handlers"
	"Hospitality/hospital"
	"Hospitality/middlewares"
	"Hospitality/services"
	"Hospitality/session"

	"github.com/gin-gonic/gin"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Create and apply CORS middleware configuration
	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig(config.AllowedOrigins)))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize the upstream client, stores, services, and handlers
	client := hospital.NewClient(config.GetHospitalBaseURL())
	store := session.NewStore(cache)

	appointmentService := services.NewAppointmentService(client)
	rescheduleService := services.NewRescheduleService(client)
	consultationService := services.NewConsultationService(client)
	catalogService := services.NewCatalogService(client, cache)

	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	rescheduleHandler := handlers.NewRescheduleHandler(rescheduleService, appointmentService)
	consultationHandler := handlers.NewConsultationHandler(consultationService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	authHandler := handlers.NewAuthHandler(store)

	// Register routes
	controllers.SetupAppointmentRoutes(
		router,
		store,
		appointmentHandler,
		rescheduleHandler,
		consultationHandler,
		catalogHandler,
	)

	authController := controllers.NewAuthController(authHandler, store)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}

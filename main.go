package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/controllers"
	"github.com/mkowalczyk/prodtrack-api/middleware"
	"github.com/mkowalczyk/prodtrack-api/models"
	"github.com/mkowalczyk/prodtrack-api/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("Starting Production Time Tracking API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.ProductionStage{},
		&models.Order{},
		&models.TimeLog{},
		&models.User{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Seed the default stage list and admin account on a fresh database
	if err := services.SeedDefaults(db, cfg); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires the full API surface. Split out of main so acceptance
// tests can drive the real router.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)

		api.POST("/auth/login", controllers.Login(cfg))

		// Designer panel
		api.GET("/orders", controllers.ListOrders)
		api.POST("/orders", controllers.CreateOrder)
		api.GET("/orders/:id", controllers.GetOrder)
		api.DELETE("/orders/:id", controllers.DeleteOrder)

		// Worker panel
		api.POST("/scan", controllers.ProcessScan)
		api.GET("/worker/active-sessions", controllers.GetActiveSessions)

		// Manager panel
		api.GET("/reports/order-times", controllers.OrderTimesReport)
		api.GET("/reports/worker-productivity", controllers.WorkerProductivityReport)
		api.GET("/reports/stage-efficiency", controllers.StageEfficiencyReport)

		// Stage registry; mutations are admin-only
		api.GET("/stages", controllers.ListStages)
		api.POST("/stages",
			middleware.RequireAuth(cfg),
			middleware.RequireRole(models.RoleAdmin),
			controllers.CreateStage,
		)
		api.DELETE("/stages/:id",
			middleware.RequireAuth(cfg),
			middleware.RequireRole(models.RoleAdmin),
			controllers.DeleteStage,
		)

		// User administration
		users := api.Group("/users",
			middleware.RequireAuth(cfg),
			middleware.RequireRole(models.RoleAdmin),
		)
		{
			users.GET("", controllers.ListUsers)
			users.POST("", controllers.CreateUser)
			users.PUT("/:id/stages", controllers.AssignStages)
			users.PATCH("/:id/active", controllers.SetUserActive)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Production Time Tracking API is running",
	})
}

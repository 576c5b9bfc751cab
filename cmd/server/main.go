package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskflowhq/taskflow-api/internal/config"
	"github.com/taskflowhq/taskflow-api/internal/database"
	"github.com/taskflowhq/taskflow-api/internal/handlers"
	"github.com/taskflowhq/taskflow-api/internal/middleware"
	"github.com/taskflowhq/taskflow-api/internal/repository"
	"github.com/taskflowhq/taskflow-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.MigrateDatabase(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()

	// CORS for the browser client; credentials must be allowed since
	// tokens travel as cookies.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Initialize services
	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.AccessTokenLifetime, cfg.RefreshTokenLifetime)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokenService, cfg.IsProduction())
	taskHandler := handlers.NewTaskHandler(taskService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskflow API is running",
		})
	})

	// API routes. Public endpoints are registered on the bare group;
	// everything else sits behind RequireAuth so no route is open by
	// accident.
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		v1.POST("/register/", authHandler.Register)
		v1.POST("/token/", authHandler.Login)
		v1.POST("/token/refresh/", authHandler.Refresh)

		v1.GET("/me/", middleware.RequireAuth(tokenService), authHandler.GetCurrentUser)

		// Task routes (protected, owner-scoped)
		tasks := v1.Group("/tasks")
		tasks.Use(middleware.RequireAuth(tokenService))
		{
			tasks.GET("/", taskHandler.ListTasks)
			tasks.POST("/", taskHandler.CreateTask)
			tasks.GET("/:id/", middleware.RequireTaskOwnership(), taskHandler.GetTask)
			tasks.PUT("/:id/", middleware.RequireTaskOwnership(), taskHandler.UpdateTask)
			tasks.PATCH("/:id/", middleware.RequireTaskOwnership(), taskHandler.PatchTask)
			tasks.DELETE("/:id/", middleware.RequireTaskOwnership(), taskHandler.DeleteTask)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

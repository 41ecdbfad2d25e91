package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/EhaabShareef/inventory-manage/internal/audit"
	"github.com/EhaabShareef/inventory-manage/internal/database"
	"github.com/EhaabShareef/inventory-manage/internal/handlers"
	"github.com/EhaabShareef/inventory-manage/internal/middleware"
	"github.com/EhaabShareef/inventory-manage/internal/models"
	"github.com/EhaabShareef/inventory-manage/internal/service"
	"github.com/EhaabShareef/inventory-manage/internal/view"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found")
	}

	db := database.Connect(logger)

	recorder := audit.NewRecorder(db, logger)
	views := &view.LogRevalidator{Log: logger}
	svc := service.New(db, logger, recorder, views)
	h := handlers.New(svc)

	r := gin.Default()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", h.Register)
		logger.Warn("registration route is OPEN, disable this in production")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(db))
	{
		// OPEN TO VIEW & MANAGE
		api.POST("/logout", h.Logout)
		api.GET("/dashboard", h.GetDashboard)
		api.GET("/items", h.GetItems)
		api.GET("/items/:id", h.GetItem)
		api.GET("/categories", h.GetCategories)
		api.GET("/clients", h.GetClients)
		api.GET("/clients/by-resort/:resortName", h.GetClientByResortName)
		api.GET("/quotes", h.GetQuotes)
		api.GET("/quotes/:id", h.GetQuote)
		api.GET("/audit-logs", h.GetAuditLogs)
		api.GET("/audit-logs/filters", h.GetAuditLogFilters)
		api.GET("/users", h.GetUsers)

		// MANAGE ONLY
		manage := api.Group("/")
		manage.Use(middleware.RequireRole(models.RoleManage))
		{
			manage.POST("/items", h.CreateItem)
			manage.PUT("/items/:id", h.UpdateItem)
			manage.DELETE("/items/:id", h.DeleteItem)

			manage.POST("/categories", h.CreateCategory)
			manage.PUT("/categories/:id", h.UpdateCategory)
			manage.DELETE("/categories/:id", h.DeleteCategory)

			manage.POST("/clients", h.CreateClient)
			manage.PUT("/clients/:id", h.UpdateClient)
			manage.DELETE("/clients/:id", h.DeleteClient)

			manage.POST("/quotes", h.CreateQuote)
			manage.PUT("/quotes/:id", h.UpdateQuote)
			manage.PUT("/quotes/:id/status", h.UpdateQuoteStatus)
			manage.DELETE("/quotes/:id", h.DeleteQuote)

			manage.POST("/users", h.CreateUser)
			manage.PUT("/users/:id", h.UpdateUser)
			manage.POST("/users/:id/reset-password", h.ResetPassword)
			manage.DELETE("/users/:id", h.DeleteUser)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}

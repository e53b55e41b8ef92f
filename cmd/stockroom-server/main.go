package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mjwalters/stockroom/pkg/stockroom/admin"
	"github.com/mjwalters/stockroom/pkg/stockroom/auth"
	"github.com/mjwalters/stockroom/pkg/stockroom/config"
	"github.com/mjwalters/stockroom/pkg/stockroom/database"
	"github.com/mjwalters/stockroom/pkg/stockroom/export"
	"github.com/mjwalters/stockroom/pkg/stockroom/groupref"
	"github.com/mjwalters/stockroom/pkg/stockroom/groups"
	"github.com/mjwalters/stockroom/pkg/stockroom/items"
	"github.com/mjwalters/stockroom/pkg/stockroom/logger"
	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"github.com/mjwalters/stockroom/pkg/stockroom/uploads"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/mjwalters/stockroom/api/swagger"
)

// @title Stockroom API
// @version 1.0
// @description An inventory tracking API with grouped items and image upload.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load(os.Getenv("STOCKROOM_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.New(cfg.Env)

	auth.Configure(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	if err := database.Connect(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := database.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	lg.Info("database migrations completed", "path", cfg.Database.Path)

	// Create default admin user if no admin exists
	if err := ensureAdminExists(db); err != nil {
		log.Fatalf("Failed to ensure admin user exists: %v", err)
	}

	strategy, err := groupref.ForName(cfg.Consistency)
	if err != nil {
		log.Fatalf("Failed to pick consistency strategy: %v", err)
	}
	lg.Info("group consistency strategy selected", "strategy", strategy.Name())

	store, err := uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		log.Fatalf("Failed to prepare upload dir: %v", err)
	}

	// Set up Gin router
	r := gin.Default()
	r.Use(cors.Default())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded images, served publicly under the configured dir name
	r.Static("/"+cfg.Uploads.Dir, cfg.Uploads.Dir)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		bearer := auth.AuthMiddleware(db)

		// Groups routes (protected)
		groupsHandler := groups.NewHandler(db)
		groupsHandler.RegisterRoutes(api.Group("/groups", bearer))

		// Items routes (protected)
		itemsHandler := items.NewHandler(db, strategy, store)
		itemsHandler.RegisterRoutes(api.Group("/items", bearer))

		// Export routes (protected)
		exportHandler := export.NewHandler(db, strategy)
		exportHandler.RegisterRoutes(api.Group("/export", bearer))

		// Admin routes (admin role required)
		adminHandler := admin.NewHandler(db)
		adminHandler.RegisterRoutes(api.Group("/admin", bearer, auth.Permit(string(models.RoleAdmin))))
	}

	lg.Info("starting server", "addr", cfg.HTTP.Addr)
	if err := r.Run(cfg.HTTP.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists creates a default admin user if no admin exists in the
// database.
func ensureAdminExists(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	adminUser := models.User{
		Username:     "admin",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("Created default admin user: admin (password: changeme)")
	return nil
}

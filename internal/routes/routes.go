package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/example/abstore/internal/config"
	"github.com/example/abstore/internal/handlers"
	"github.com/example/abstore/internal/middleware"
	"github.com/example/abstore/internal/services"
	"github.com/example/abstore/internal/utils"
)

// NewApp builds the fiber app with the shared middleware stack and all routes.
func NewApp(cfg *config.Config, db *gorm.DB, uploads *utils.UploadStore, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ABSTORE Backend",
		BodyLimit:    cfg.MaxUploadBytes,
		ErrorHandler: middleware.ErrorHandler(log, cfg.Debug),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	Register(app, db, uploads, log)
	return app
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, uploads *utils.UploadStore, log *slog.Logger) {
	store := services.NewCatalogStore(db, log)
	users := services.NewUserService(db, log)
	stats := services.NewStatsService(db, log)

	productHandler := handlers.NewProductHandler(store, uploads)
	catalogHandler := handlers.NewCatalogHandler(store)
	authHandler := handlers.NewAuthHandler(users)
	adminHandler := handlers.NewAdminHandler(users, stats)
	healthHandler := handlers.NewHealthHandler(db)

	app.Get("/healthz", healthHandler.Check)
	app.Static("/"+utils.UploadURLPrefix, uploads.Dir())

	api := app.Group("/api")

	products := api.Group("/products")
	productHandler.RegisterProductRoutes(products)

	api.Get("/categories", catalogHandler.ListCategories)

	api.Post("/users", authHandler.Register)
	api.Get("/users", adminHandler.ListUsers)
	api.Post("/login", authHandler.Login)

	api.Get("/stats", adminHandler.DashboardStats)
}

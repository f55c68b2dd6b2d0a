package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/wichananm65/menu-dashboard/internal/auth"
	"github.com/wichananm65/menu-dashboard/internal/category"
	"github.com/wichananm65/menu-dashboard/internal/config"
	"github.com/wichananm65/menu-dashboard/internal/dashboard"
	"github.com/wichananm65/menu-dashboard/internal/database"
	"github.com/wichananm65/menu-dashboard/internal/logger"
	"github.com/wichananm65/menu-dashboard/internal/menu"
	"github.com/wichananm65/menu-dashboard/internal/metrics"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	menuRepo, categoryRepo, closeDB := mustOpenRepositories(cfg, log)
	defer closeDB()

	menuService := menu.NewService(menuRepo)
	// category counts are derived from the menu, so menu writes drop the cached list
	categoryService := category.NewService(categoryRepo, menuService, cfg.CategoryCacheTTL)
	menuService.OnChange(categoryService.Invalidate)

	// stored values must not alias request buffers Fiber reuses
	app := fiber.New(fiber.Config{Immutable: true, DisableStartupMessage: cfg.IsProduction()})
	app.Use(recover.New())
	setupCORS(app)
	app.Use(logger.Middleware(log))

	m := metrics.New()
	app.Use(m.Middleware())
	m.Register(app)

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	menuHandler := menu.NewHandler(menuService, log)
	categoryHandler := category.NewHandler(categoryService, log)
	authHandler := auth.NewHandler(auth.Admin{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash}, cfg.JWTSecret)

	authHandler.RegisterPublicRoutes(app)
	menuHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	dashboard.NewHandler(menuService, categoryService, log).RegisterPublicRoutes(app)

	// everything registered below requires an admin token
	app.Use(auth.Middleware(cfg.JWTSecret))
	menuHandler.RegisterProtectedRoutes(app)
	categoryHandler.RegisterProtectedRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("storage", cfg.Storage))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// mustOpenRepositories returns Postgres-backed repositories, or in-memory ones
// when STORAGE=memory.
func mustOpenRepositories(cfg config.Config, log *zap.Logger) (menu.Repository, category.Repository, func()) {
	if !cfg.UsesPostgres() {
		log.Warn("using in-memory storage; data is lost on restart")
		return menu.NewInMemoryRepository(nil), category.NewInMemoryRepository(category.FromNames(database.DefaultCategories)), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}
	if n, err := database.SeedCategories(ctx, db); err != nil {
		log.Warn("seed categories", zap.Error(err))
	} else if n > 0 {
		log.Info("seeded categories", zap.Int("inserted", n))
	}

	return menu.NewPostgresRepository(db), category.NewPostgresRepository(db), closer(db, log)
}

func closer(db *sql.DB, log *zap.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}
}

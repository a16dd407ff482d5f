package server

import (
	"context"
	"log"

	"image-processing-be/internal/bootstrap"
	"image-processing-be/internal/config"
	"image-processing-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// bodySlack leaves room for multipart boundaries and headers on top of the
// largest accepted file.
const bodySlack = 1024 * 1024

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.Storage.MaxUploadBytes) + bodySlack,
		ErrorHandler: serverutils.NewErrorHandler(container.Logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${status} ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + serverutils.SessionHeader,
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, " + serverutils.SessionHeader,
	}))

	if cfg.App.TracingEnabled {
		app.Use(otelfiber.Middleware())
	}

	app.Get("/metrics", adaptor.HTTPHandler(container.Metrics.Handler()))
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse[any]("OK", nil))
	})

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api", serverutils.SessionMiddleware(serverutils.SessionConfig{
		Repository: c.SessionRepository,
		CookieName: cfg.App.SessionCookieName,
		TTL:        cfg.App.SessionTTL,
		Secure:     cfg.App.Environment == "production",
	}))

	c.SessionController.RegisterRoutes(api)
	c.ImageController.RegisterRoutes(api)
	c.FileController.RegisterRoutes(api)
	c.HistoryController.RegisterRoutes(api, serverutils.AdminGuard(cfg.Auth.AdminJWTSecret))

	c.HistoryFeedHandler.RegisterRoutes(api)
}

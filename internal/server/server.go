package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scan-coin/scan_coin/internal/config"
	"github.com/scan-coin/scan_coin/internal/infra"
	"github.com/scan-coin/scan_coin/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app    *fiber.App
	cfg    config.Config
	stores *infra.Stores
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, stores *infra.Stores, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    cfg.BodyLimitBytes,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Vision.Timeout + 30*time.Second,
		ErrorHandler: jsonErrorHandler,
	})

	if err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: stores.DB, Cache: stores.Cache, Logger: logger}); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, stores: stores}, nil
}

// App exposes the Fiber application, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// jsonErrorHandler renders middleware errors in the {"error": ...} shape the
// handlers use.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	// Bodies over BodyLimit are rejected before the identify handler runs;
	// they get the same reply as an oversized image.
	if code == fiber.StatusRequestEntityTooLarge {
		return c.Status(code).JSON(fiber.Map{"error": "image_too_large", "message": "Please upload a smaller image."})
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

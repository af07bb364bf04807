package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/scan-coin/scan_coin/internal/collection"
	"github.com/scan-coin/scan_coin/internal/config"
	"github.com/scan-coin/scan_coin/internal/identify"
	"github.com/scan-coin/scan_coin/internal/metrics"
	"github.com/scan-coin/scan_coin/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	// Remote overrides the vision client built from Cfg in remote mode.
	Remote identify.Identifier
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	metrics.Register()

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	identifyHandler, err := newIdentifyHandler(d)
	if err != nil {
		return err
	}
	RegisterIdentifyRoutes(app, d, identifyHandler)

	var repo collection.Repository
	switch {
	case d.DB != nil:
		repo = collection.NewPostgresRepository(d.DB)
	case d.Cache != nil:
		repo = collection.NewRedisRepository(d.Cache, "")
	default:
		repo = collection.NewMemoryRepository()
	}
	coins := collection.NewHandler(collection.NewService(repo))

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"mode":       identify.ParseMode(d.Cfg.CoinProvider),
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	RegisterCoinRoutes(api, d, coins)

	return nil
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scan-coin/scan_coin/internal/cache"
	"github.com/scan-coin/scan_coin/internal/identify"
	"github.com/scan-coin/scan_coin/internal/middleware"
	"github.com/scan-coin/scan_coin/internal/vision"
)

// IdentifyPath is the public identification endpoint.
const IdentifyPath = "/api/identify-coin"

func newIdentifyHandler(d Deps) (*identify.Handler, error) {
	mode := identify.ParseMode(d.Cfg.CoinProvider)

	remote := d.Remote
	if mode == identify.ModeRemote && remote == nil {
		provider, err := vision.NewProvider(vision.ProviderConfig{
			Backend: d.Cfg.Vision.Backend,
			APIKey:  d.Cfg.Vision.APIKey(),
			Model:   d.Cfg.Vision.Model(),
			BaseURL: d.Cfg.Vision.BaseURL(),
		})
		if err != nil {
			return nil, err
		}
		client, err := vision.NewClient(provider, vision.Options{
			MaxImageBytes: d.Cfg.Vision.MaxImageBytes,
			Timeout:       d.Cfg.Vision.Timeout,
			Logger:        d.Logger,
		})
		if err != nil {
			return nil, err
		}
		remote = client
	}

	selector, err := identify.NewSelector(mode, remote, identify.NewMock(d.Cfg.MockDelay))
	if err != nil {
		return nil, err
	}

	var results identify.ResultCache
	if d.Cache != nil && mode == identify.ModeRemote {
		results = cache.NewResults(d.Cache, d.Cfg.ResultCacheTTL, d.Logger)
	}
	return identify.NewHandler(selector, mode, results, d.Logger), nil
}

// RegisterIdentifyRoutes wires the identify endpoint. Every method reaches the
// handler so non-POST requests get its 405 body.
func RegisterIdentifyRoutes(app *fiber.App, d Deps, h *identify.Handler) {
	chain := []fiber.Handler{
		middleware.ClientToken(d.Cfg.ClientTokenHash),
		middleware.RateLimit(d.Cache, "identify", d.Cfg.IdentifyRateLimit, d.Logger),
	}
	if d.Cache != nil {
		chain = append(chain, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	chain = append(chain, h.Identify)
	app.All(IdentifyPath, chain...)
}

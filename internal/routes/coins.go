package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scan-coin/scan_coin/internal/collection"
	"github.com/scan-coin/scan_coin/internal/middleware"
)

// RegisterCoinRoutes wires the collection endpoints.
func RegisterCoinRoutes(r fiber.Router, d Deps, h *collection.Handler) {
	group := r.Group("/coins", middleware.ClientToken(d.Cfg.ClientTokenHash))
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	if d.Cache != nil {
		group.Post("/", middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger), h.Save)
	} else {
		group.Post("/", h.Save)
	}
}

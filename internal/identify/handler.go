package identify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scan-coin/scan_coin/internal/coin"
	"github.com/scan-coin/scan_coin/internal/metrics"
	"github.com/scan-coin/scan_coin/internal/vision"
)

// ResultCache remembers successful identifications of identical images.
type ResultCache interface {
	Get(ctx context.Context, in coin.Input) (coin.Result, bool)
	Put(ctx context.Context, in coin.Input, result coin.Result)
}

// Handler exposes the identify-coin endpoint.
type Handler struct {
	identifier Identifier
	mode       string
	cache      ResultCache
	logger     *slog.Logger
}

// NewHandler constructs the handler. cache may be nil.
func NewHandler(identifier Identifier, mode string, cache ResultCache, logger *slog.Logger) *Handler {
	return &Handler{identifier: identifier, mode: ParseMode(mode), cache: cache, logger: logger}
}

type sideRequest struct {
	ImageURI    string `json:"imageUri"`
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// identifyRequest accepts both the two-sided body and the older flat
// {imageBase64, mimeType} body.
type identifyRequest struct {
	Obverse     *sideRequest `json:"obverse"`
	Reverse     *sideRequest `json:"reverse"`
	ImageBase64 string       `json:"imageBase64"`
	MimeType    string       `json:"mimeType"`
}

func (r identifyRequest) input() (coin.Input, bool) {
	obverse := r.Obverse
	if obverse == nil && r.ImageBase64 != "" {
		obverse = &sideRequest{ImageBase64: r.ImageBase64, MimeType: r.MimeType}
	}
	if obverse == nil || strings.TrimSpace(obverse.ImageBase64) == "" {
		return coin.Input{}, false
	}

	in := coin.Input{Obverse: coin.SideImage(*obverse)}
	if r.Reverse != nil && strings.TrimSpace(r.Reverse.ImageBase64) != "" {
		reverse := coin.SideImage(*r.Reverse)
		in.Reverse = &reverse
	}
	return in, true
}

// Identify handles POST /api/identify-coin.
func (h *Handler) Identify(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return h.reply(c, http.StatusMethodNotAllowed, fiber.Map{"error": "Method not allowed"})
	}

	var req identifyRequest
	if err := c.BodyParser(&req); err != nil {
		return h.reply(c, http.StatusBadRequest, fiber.Map{"error": "invalid request body", "message": err.Error()})
	}
	in, ok := req.input()
	if !ok {
		return h.reply(c, http.StatusBadRequest, fiber.Map{"error": "obverse.imageBase64 is required"})
	}

	ctx := c.UserContext()
	if h.cache != nil {
		if cached, hit := h.cache.Get(ctx, in); hit {
			metrics.ResultCacheTotal.WithLabelValues("hit").Inc()
			return h.reply(c, http.StatusOK, cached)
		}
		metrics.ResultCacheTotal.WithLabelValues("miss").Inc()
	}

	result, err := h.identifier.Identify(ctx, in)
	if err != nil {
		status, body := errorResponse(err)
		if h.logger != nil {
			requestID, _ := c.Locals("X-Request-ID").(string)
			h.logger.Warn("identify failed",
				slog.String("request_id", requestID),
				slog.Int("status", status),
				slog.Any("error", err),
			)
		}
		return h.reply(c, status, body)
	}

	if h.cache != nil {
		h.cache.Put(ctx, in, result)
	}
	return h.reply(c, http.StatusOK, result)
}

func (h *Handler) reply(c *fiber.Ctx, status int, body any) error {
	metrics.IdentifyRequestsTotal.WithLabelValues(h.mode, http.StatusText(status)).Inc()
	return c.Status(status).JSON(body)
}

// errorResponse maps the classified identification errors to HTTP replies.
func errorResponse(err error) (int, fiber.Map) {
	switch {
	case errors.Is(err, vision.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, fiber.Map{"error": "image_too_large", "message": "Please upload a smaller image."}
	case errors.Is(err, vision.ErrQuotaExceeded):
		return http.StatusTooManyRequests, fiber.Map{"error": "insufficient_quota", "message": vision.QuotaHint}
	case errors.Is(err, vision.ErrValidation):
		return http.StatusBadRequest, fiber.Map{"error": err.Error()}
	default:
		return http.StatusInternalServerError, fiber.Map{"error": "identify_failed", "message": err.Error()}
	}
}

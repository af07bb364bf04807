package collection

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/scan-coin/scan_coin/internal/coin"
)

// Handler exposes collection HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a collection HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Save stores a new record built from the posted result. The result fields
// are loosely typed and go through the normalizer.
func (h *Handler) Save(c *fiber.Ctx) error {
	var req map[string]any
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	imageURI, _ := req["imageUri"].(string)
	record, err := h.service.Save(c.UserContext(), SaveInput{Result: coin.Normalize(req), ImageURI: imageURI})
	if err != nil {
		if errors.Is(err, ErrInvalidRecord) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(record)
}

// List returns the collection, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	records, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"items": records, "count": len(records)})
}

// Get returns one record.
func (h *Handler) Get(c *fiber.Ctx) error {
	record, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(record)
}

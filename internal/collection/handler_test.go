package collection

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newCollectionApp() *fiber.App {
	app := fiber.New()
	h := NewHandler(NewService(NewMemoryRepository()))
	app.Get("/coins", h.List)
	app.Post("/coins", h.Save)
	app.Get("/coins/:id", h.Get)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, payload
}

func TestHandlerSaveListGet(t *testing.T) {
	app := newCollectionApp()

	status, payload := send(t, app, fiber.MethodPost, "/coins",
		`{"country":"Canada","denomination":"1 Dollar","year":2005,"estimatedValueMin":"1","estimatedValueMax":4,"currency":"cad","confidence":"medium","imageUri":"file:///tmp/c.jpg"}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, payload)
	}
	var saved Record
	if err := json.Unmarshal(payload, &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.Year != "2005" || saved.EstimatedValueMin != 1 || saved.Currency != "CAD" || saved.ImageURI != "file:///tmp/c.jpg" {
		t.Fatalf("unexpected record %+v", saved)
	}

	status, payload = send(t, app, fiber.MethodGet, "/coins", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var list struct {
		Items []Record `json:"items"`
		Count int      `json:"count"`
	}
	if err := json.Unmarshal(payload, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 1 || list.Items[0].ID != saved.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	status, payload = send(t, app, fiber.MethodGet, "/coins/"+saved.ID, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var fetched Record
	if err := json.Unmarshal(payload, &fetched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fetched != saved {
		t.Fatalf("expected %+v got %+v", saved, fetched)
	}
}

func TestHandlerErrors(t *testing.T) {
	app := newCollectionApp()

	if status, _ := send(t, app, fiber.MethodPost, "/coins", `{"country":"Canada"}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 without imageUri, got %d", status)
	}
	if status, _ := send(t, app, fiber.MethodPost, "/coins", `{`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", status)
	}
	if status, _ := send(t, app, fiber.MethodGet, "/coins/"+uuid.NewString(), ""); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

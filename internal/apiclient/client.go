package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scan-coin/scan_coin/internal/coin"
	"github.com/scan-coin/scan_coin/internal/vision"
)

// IdentifyPath is the backend route the client posts to.
const IdentifyPath = "/api/identify-coin"

const (
	DefaultTimeout = 90 * time.Second

	maxResponseBytes = 1 << 20
)

// ErrUnauthorized marks a 401 from the backend.
var ErrUnauthorized = errors.New("backend authentication failed")

// StatusError is a non-2xx reply from the backend, already turned into a
// message fit for the user.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return "Backend authentication failed (401). Check the API token."
	case e.StatusCode == http.StatusRequestEntityTooLarge:
		return "Image too large (413). Try a smaller photo."
	case e.quota():
		return vision.QuotaHint
	case e.StatusCode == http.StatusTooManyRequests:
		return fmt.Sprintf("Too many requests (429): %s", e.Code)
	default:
		return fmt.Sprintf("remote identify failed (%d)", e.StatusCode)
	}
}

// quota reports provider quota exhaustion. A 429 carrying some other error
// code is the backend's own rate limit, not the provider's quota.
func (e *StatusError) quota() bool {
	if strings.Contains(e.Code, "insufficient_quota") || strings.Contains(e.Message, "insufficient_quota") {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests && e.Code == ""
}

// Is lets callers test StatusError against the shared identification
// sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case vision.ErrImageTooLarge:
		return e.StatusCode == http.StatusRequestEntityTooLarge
	case vision.ErrQuotaExceeded:
		return e.quota()
	}
	return false
}

// Client calls a scan_coin backend over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client for baseURL. token is sent as a bearer credential when
// set; httpClient may be nil.
func New(baseURL, token string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: API_BASE_URL is not set", vision.ErrConfiguration)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: baseURL, token: token, http: httpClient}, nil
}

type sidePayload struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

type identifyPayload struct {
	Obverse sidePayload  `json:"obverse"`
	Reverse *sidePayload `json:"reverse,omitempty"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Identify sends the images to the backend and normalizes its answer.
func (c *Client) Identify(ctx context.Context, in coin.Input) (coin.Result, error) {
	if strings.TrimSpace(in.Obverse.ImageBase64) == "" {
		return coin.Result{}, fmt.Errorf("%w: obverse.imageBase64 is required for remote provider", vision.ErrValidation)
	}

	payload := identifyPayload{
		Obverse: sidePayload{ImageBase64: in.Obverse.ImageBase64, MimeType: in.Obverse.MimeTypeOrDefault()},
	}
	if in.Reverse != nil && in.Reverse.ImageBase64 != "" {
		payload.Reverse = &sidePayload{ImageBase64: in.Reverse.ImageBase64, MimeType: in.Reverse.MimeTypeOrDefault()}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return coin.Result{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+IdentifyPath, bytes.NewReader(body))
	if err != nil {
		return coin.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return coin.Result{}, fmt.Errorf("remote identify: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return coin.Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ep errorPayload
		_ = json.Unmarshal(raw, &ep)
		return coin.Result{}, &StatusError{StatusCode: resp.StatusCode, Code: ep.Error, Message: ep.Message}
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return coin.Result{}, fmt.Errorf("%w: decode backend reply: %v", vision.ErrEnvelope, err)
	}
	return coin.Normalize(decoded), nil
}

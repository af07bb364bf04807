package vision

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/scan-coin/scan_coin/internal/coin"
	"github.com/scan-coin/scan_coin/internal/metrics"
)

const (
	// DefaultMaxImageBytes caps the decoded size of each submitted image.
	DefaultMaxImageBytes = 6_000_000
	DefaultTimeout       = 60 * time.Second

	maxEnvelopeBytes = 16 << 20
)

// Options tunes a Client. Zero values select the defaults.
type Options struct {
	MaxImageBytes int
	Timeout       time.Duration
	HTTPClient    *http.Client
	Logger        *slog.Logger
}

// Client identifies coins through a single vision Provider. It holds no
// per-call state and never retries.
type Client struct {
	provider      Provider
	http          *http.Client
	maxImageBytes int
	logger        *slog.Logger
}

// NewClient wires a provider to an HTTP transport.
func NewClient(provider Provider, opts Options) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is required", ErrConfiguration)
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = DefaultMaxImageBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{provider: provider, http: httpClient, maxImageBytes: opts.MaxImageBytes, logger: logger}, nil
}

// Provider returns the backend the client talks to.
func (c *Client) Provider() Provider { return c.provider }

// Identify sends the obverse (and reverse, when present) to the provider and
// returns the normalized answer. Input problems fail before any network call.
func (c *Client) Identify(ctx context.Context, in coin.Input) (coin.Result, error) {
	images, err := c.images(in)
	if err != nil {
		return coin.Result{}, err
	}

	req, err := c.provider.NewRequest(ctx, images)
	if err != nil {
		return coin.Result{}, err
	}

	start := time.Now()
	body, status, err := c.do(req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveUpstream(c.provider.Name(), "network_error", elapsed)
		return coin.Result{}, err
	}

	if status < 200 || status >= 300 {
		terr := &TransportError{Provider: c.provider.Name(), StatusCode: status, Body: string(body)}
		outcome := "transport_error"
		if terr.IsQuota() {
			outcome = "quota_exceeded"
		}
		metrics.ObserveUpstream(c.provider.Name(), outcome, elapsed)
		c.logger.Warn("vision provider rejected request",
			slog.String("provider", c.provider.Name()),
			slog.Int("status", status),
			slog.Bool("quota", terr.IsQuota()),
		)
		return coin.Result{}, terr
	}

	text, err := c.provider.ExtractText(body)
	if err != nil {
		metrics.ObserveUpstream(c.provider.Name(), "envelope_error", elapsed)
		return coin.Result{}, err
	}

	raw, err := coin.ParseModelText(text)
	if err != nil {
		metrics.ObserveUpstream(c.provider.Name(), "envelope_error", elapsed)
		return coin.Result{}, fmt.Errorf("%w: failed to parse JSON from %s model output", ErrEnvelope, c.provider.Name())
	}

	metrics.ObserveUpstream(c.provider.Name(), "ok", elapsed)
	c.logger.Debug("vision provider answered",
		slog.String("provider", c.provider.Name()),
		slog.Int("images", len(images)),
		slog.Duration("duration", elapsed),
	)
	return coin.Normalize(raw), nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send %s request: %w", c.provider.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s response: %w", c.provider.Name(), err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) images(in coin.Input) ([]Image, error) {
	obverse, ok := toImage("obverse", in.Obverse)
	if !ok {
		return nil, fmt.Errorf("%w: obverse.imageBase64 is required", ErrValidation)
	}
	images := []Image{obverse}
	if in.Reverse != nil {
		if reverse, ok := toImage("reverse", *in.Reverse); ok {
			images = append(images, reverse)
		}
	}

	for _, img := range images {
		if ApproxDecodedSize(img.Data) > c.maxImageBytes {
			return nil, fmt.Errorf("%w: %s image exceeds %d bytes", ErrImageTooLarge, img.Side, c.maxImageBytes)
		}
	}
	return images, nil
}

// ApproxDecodedSize estimates the byte size of a base64 payload.
func ApproxDecodedSize(b64 string) int {
	return (len(b64)*3 + 3) / 4
}

// toImage accepts plain base64 or a data URL and reports whether any image
// data is present.
func toImage(side string, s coin.SideImage) (Image, bool) {
	data := strings.TrimSpace(s.ImageBase64)
	mime := s.MimeTypeOrDefault()
	if strings.HasPrefix(data, "data:") {
		if comma := strings.IndexByte(data, ','); comma > 0 {
			header := data[len("data:"):comma]
			if declared, _, found := strings.Cut(header, ";"); found && declared != "" {
				mime = declared
			}
			data = data[comma+1:]
		}
	}
	if data == "" {
		return Image{}, false
	}
	return Image{Side: side, MimeType: mime, Data: data}, true
}

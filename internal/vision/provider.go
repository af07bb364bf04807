package vision

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Backend names accepted by NewProvider.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Image is one inline image sent to a provider.
type Image struct {
	Side     string
	MimeType string
	Data     string // base64, no data: prefix
}

// Provider builds requests for, and reads answers from, one vision backend.
// The prompt and output keys are shared; only the wire format differs.
type Provider interface {
	Name() string
	NewRequest(ctx context.Context, images []Image) (*http.Request, error)
	ExtractText(body []byte) (string, error)
}

// ProviderConfig carries the credentials and endpoint of a backend.
type ProviderConfig struct {
	Backend string
	APIKey  string
	Model   string
	BaseURL string
}

// NewProvider builds the provider variant named by cfg.Backend.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendGemini:
		return NewGeminiProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case BackendOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrConfiguration, cfg.Backend)
	}
}

package vision

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks missing or malformed caller input. No network call
	// is attempted.
	ErrValidation = errors.New("invalid identification input")

	// ErrImageTooLarge marks an image whose payload exceeds the configured cap.
	ErrImageTooLarge = errors.New("image_too_large")

	// ErrQuotaExceeded marks upstream rate-limit or billing exhaustion.
	ErrQuotaExceeded = errors.New("insufficient_quota")

	// ErrEnvelope marks a provider answer without the expected embedded JSON.
	ErrEnvelope = errors.New("unexpected provider response")

	// ErrConfiguration marks a missing credential or endpoint.
	ErrConfiguration = errors.New("vision provider not configured")
)

// QuotaHint is the human-readable advice attached to quota failures.
const QuotaHint = "AI provider quota exceeded. Check API limits/billing."

// TransportError is a non-success HTTP status returned by the provider.
type TransportError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	if e.IsQuota() {
		return fmt.Sprintf("%s error %d: %s", e.Provider, e.StatusCode, QuotaHint)
	}
	return fmt.Sprintf("%s error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// IsQuota reports whether the status or body indicates quota exhaustion.
func (e *TransportError) IsQuota() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	body := strings.ToLower(e.Body)
	return strings.Contains(body, "insufficient_quota") ||
		strings.Contains(body, "resource_exhausted") ||
		strings.Contains(body, "quota")
}

// Is lets errors.Is(err, ErrQuotaExceeded) match quota transport failures.
func (e *TransportError) Is(target error) bool {
	return target == ErrQuotaExceeded && e.IsQuota()
}

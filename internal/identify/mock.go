package identify

import (
	"context"
	"time"

	"github.com/scan-coin/scan_coin/internal/coin"
)

// DefaultMockDelay mimics the latency of a real provider round trip.
const DefaultMockDelay = 900 * time.Millisecond

// reverseBonus shifts the catalog pick when a reverse side is supplied.
const reverseBonus = 17

var mockCatalog = []coin.Result{
	{
		Country:           "United States",
		Denomination:      "Quarter Dollar",
		Year:              "1999",
		EstimatedValueMin: 0.25,
		EstimatedValueMax: 2.5,
		Currency:          "USD",
		Confidence:        coin.ConfidenceMedium,
	},
	{
		Country:           "Canada",
		Denomination:      "1 Dollar (Loonie)",
		Year:              "2005",
		EstimatedValueMin: 1,
		EstimatedValueMax: 4,
		Currency:          "CAD",
		Confidence:        coin.ConfidenceMedium,
	},
	{
		Country:           "Eurozone",
		Denomination:      "2 Euro",
		Year:              "2012",
		EstimatedValueMin: 2,
		EstimatedValueMax: 8,
		Currency:          "EUR",
		Confidence:        coin.ConfidenceLow,
	},
}

// Mock is the offline stand-in used in development and tests. The same
// input always yields the same catalog entry.
type Mock struct {
	delay time.Duration
}

// NewMock builds a stand-in that waits delay before answering. A negative
// delay selects the default.
func NewMock(delay time.Duration) *Mock {
	if delay < 0 {
		delay = DefaultMockDelay
	}
	return &Mock{delay: delay}
}

// Identify picks a canned result from the image references.
func (m *Mock) Identify(ctx context.Context, in coin.Input) (coin.Result, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return coin.Result{}, ctx.Err()
		case <-timer.C:
		}
	}
	return mockCatalog[mockIndex(in)], nil
}

func mockIndex(in coin.Input) int {
	hash := len(reference(in.Obverse))
	if in.HasReverse() {
		hash += reverseBonus
	}
	return hash % len(mockCatalog)
}

// reference is the image URI, or the payload itself when no URI is known
// (requests arriving over HTTP carry only base64).
func reference(s coin.SideImage) string {
	if s.ImageURI != "" {
		return s.ImageURI
	}
	return s.ImageBase64
}

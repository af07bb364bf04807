package collection

import (
	"errors"
	"time"

	"github.com/scan-coin/scan_coin/internal/coin"
)

// CreatedAtLayout is the ISO-8601 form used for Record.CreatedAt.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrNotFound      = errors.New("coin record not found")
	ErrInvalidRecord = errors.New("invalid coin record")
)

// Record is a saved identification. Records are never edited after they are
// appended.
type Record struct {
	ID string `json:"id"`
	coin.Result
	CreatedAt string `json:"createdAt"`
	ImageURI  string `json:"imageUri"`
}

// SaveInput carries what the scan flow hands over when the user keeps a
// result.
type SaveInput struct {
	Result   coin.Result
	ImageURI string
}

func formatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}

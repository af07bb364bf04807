package identify

import (
	"context"
	"fmt"
	"strings"

	"github.com/scan-coin/scan_coin/internal/coin"
)

// Modes accepted by ParseMode.
const (
	ModeMock   = "mock"
	ModeRemote = "remote"
)

// Identifier is the single contract every caller uses to identify a coin.
type Identifier interface {
	Identify(ctx context.Context, in coin.Input) (coin.Result, error)
}

// ParseMode maps a configuration value to a mode. Anything other than
// "remote" selects the offline stand-in.
func ParseMode(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), ModeRemote) {
		return ModeRemote
	}
	return ModeMock
}

// Selector dispatches to the remote identifier or the offline stand-in.
// It adds no error translation: remote failures reach the caller unchanged.
type Selector struct {
	mode   string
	remote Identifier
	mock   Identifier
}

// NewSelector builds a selector for mode. Remote mode requires a remote
// identifier; mock may be nil, in which case a default Mock is used.
func NewSelector(mode string, remote, mock Identifier) (*Selector, error) {
	mode = ParseMode(mode)
	if mode == ModeRemote && remote == nil {
		return nil, fmt.Errorf("remote identifier is required in %s mode", ModeRemote)
	}
	if mock == nil {
		mock = NewMock(DefaultMockDelay)
	}
	return &Selector{mode: mode, remote: remote, mock: mock}, nil
}

// Mode returns the active mode.
func (s *Selector) Mode() string { return s.mode }

// Identify runs the configured backend.
func (s *Selector) Identify(ctx context.Context, in coin.Input) (coin.Result, error) {
	if s.mode == ModeRemote {
		return s.remote.Identify(ctx, in)
	}
	return s.mock.Identify(ctx, in)
}

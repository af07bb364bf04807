package config

import (
	"strings"
	"time"
)

// CLI is the configuration of the scancoin command-line client.
type CLI struct {
	APIBaseURL     string
	CoinProvider   string
	APIToken       string
	CollectionPath string
	MockDelay      time.Duration
	LogLevel       string
}

// LoadCLI reads the client settings. Missing values are resolved later, when
// a command actually needs them, so "scancoin list" works without a backend.
func LoadCLI() (CLI, error) {
	cfg := CLI{
		APIBaseURL:     strings.TrimSpace(getEnv("API_BASE_URL", "")),
		CoinProvider:   strings.ToLower(strings.TrimSpace(getEnv("COIN_PROVIDER", defaultCoinProvider))),
		APIToken:       strings.TrimSpace(getEnv("SCANCOIN_API_TOKEN", "")),
		CollectionPath: strings.TrimSpace(getEnv("SCANCOIN_COLLECTION", "")),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "warn")),
	}
	var err error
	if cfg.MockDelay, err = durationEnv("", "MOCK_DELAY", defaultMockDelay); err != nil {
		return CLI{}, err
	}
	return cfg, nil
}

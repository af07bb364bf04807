package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName          = "ScanCoin"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultResultCacheTTL   = 24 * time.Hour
	defaultVisionTimeout    = 60 * time.Second
	defaultMockDelay        = 900 * time.Millisecond
	defaultMaxImageBytes    = 6_000_000
	defaultBodyLimitBytes   = 16 << 20
	defaultIdentifyPerMin   = 20
	defaultCoinProvider     = "mock"
	defaultVisionBackend    = "gemini"
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
	cacheTTLSecondsEnvVar   = "RESULT_CACHE_TTL_SECONDS"
	cacheTTLDurationEnvVar  = "RESULT_CACHE_TTL"
	visionTimeoutSecsEnvVar = "VISION_TIMEOUT_SECONDS"
	visionTimeoutDurEnvVar  = "VISION_TIMEOUT"
)

// Vision holds the settings of the upstream vision model.
type Vision struct {
	Backend       string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	MaxImageBytes int
	Timeout       time.Duration
}

// APIKey returns the key of the selected backend.
func (v Vision) APIKey() string {
	if v.Backend == "openai" {
		return v.OpenAIAPIKey
	}
	return v.GeminiAPIKey
}

// Model returns the model of the selected backend.
func (v Vision) Model() string {
	if v.Backend == "openai" {
		return v.OpenAIModel
	}
	return v.GeminiModel
}

// BaseURL returns the endpoint override of the selected backend.
func (v Vision) BaseURL() string {
	if v.Backend == "openai" {
		return v.OpenAIBaseURL
	}
	return v.GeminiBaseURL
}

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string
	AppEnv            string
	Port              string
	LogLevel          string
	DatabaseURL       string
	RedisURL          string
	ShutdownPeriod    time.Duration
	IdempotencyTTL    time.Duration
	ResultCacheTTL    time.Duration
	CoinProvider      string
	MockDelay         time.Duration
	IdentifyRateLimit int
	ClientTokenHash   string
	BodyLimitBytes    int
	Vision            Vision
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		AppEnv:          getEnv("APP_ENV", defaultAppEnv),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CoinProvider:    strings.ToLower(strings.TrimSpace(getEnv("COIN_PROVIDER", defaultCoinProvider))),
		ClientTokenHash: strings.TrimSpace(os.Getenv("CLIENT_TOKEN_HASH")),
		Vision: Vision{
			Backend:       strings.ToLower(strings.TrimSpace(getEnv("VISION_BACKEND", defaultVisionBackend))),
			GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
			GeminiModel:   os.Getenv("GEMINI_MODEL"),
			GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
			OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   os.Getenv("OPENAI_MODEL"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.ResultCacheTTL, err = durationEnv(cacheTTLSecondsEnvVar, cacheTTLDurationEnvVar, defaultResultCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.Vision.Timeout, err = durationEnv(visionTimeoutSecsEnvVar, visionTimeoutDurEnvVar, defaultVisionTimeout); err != nil {
		return Config{}, err
	}
	if cfg.MockDelay, err = durationEnv("", "MOCK_DELAY", defaultMockDelay); err != nil {
		return Config{}, err
	}
	if cfg.Vision.MaxImageBytes, err = intEnv("MAX_IMAGE_BYTES", defaultMaxImageBytes); err != nil {
		return Config{}, err
	}
	if cfg.BodyLimitBytes, err = intEnv("BODY_LIMIT_BYTES", defaultBodyLimitBytes); err != nil {
		return Config{}, err
	}
	if cfg.IdentifyRateLimit, err = intEnv("IDENTIFY_RATE_LIMIT", defaultIdentifyPerMin); err != nil {
		return Config{}, err
	}

	switch cfg.CoinProvider {
	case "mock", "remote":
	default:
		return Config{}, fmt.Errorf("COIN_PROVIDER must be mock or remote, got %q", cfg.CoinProvider)
	}
	switch cfg.Vision.Backend {
	case "gemini", "openai":
	default:
		return Config{}, fmt.Errorf("VISION_BACKEND must be gemini or openai, got %q", cfg.Vision.Backend)
	}
	if cfg.CoinProvider == "remote" && cfg.Vision.APIKey() == "" {
		return Config{}, fmt.Errorf("%s_API_KEY must be set when COIN_PROVIDER=remote", strings.ToUpper(cfg.Vision.Backend))
	}
	if cfg.Vision.MaxImageBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	// A base64 body is about 4/3 of the image; two sides must fit.
	if need := cfg.Vision.MaxImageBytes * 8 / 3; cfg.BodyLimitBytes < need {
		return Config{}, fmt.Errorf("BODY_LIMIT_BYTES (%d) cannot hold two images of MAX_IMAGE_BYTES; need at least %d", cfg.BodyLimitBytes, need)
	}

	return cfg, nil
}

// IsDev reports whether the service runs in a local environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// durationEnv reads a whole number of seconds from secondsKey, else a Go
// duration string from durationKey.
func durationEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

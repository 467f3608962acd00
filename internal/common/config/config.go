package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/constants"
)

var (
	ErrMissingRequiredEnv   = errors.New("missing required environment variable")
	ErrInvalidSessionSecret = errors.New("SESSION_SECRET must be at least 32 bytes")
	ErrInvalidEnvValue      = errors.New("invalid environment variable value")
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"

	SessionModeOpaque = "opaque"
	SessionModeSigned = "signed"
)

type APIConfig struct {
	HTTPPort       string
	StorageDriver  string
	DatabaseURL    string
	SQLitePath     string
	SessionMode    string
	SessionSecret  string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	MaxPageSize    int

	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration

	LogDir   string
	LogLevel string
}

func LoadAPIConfig() (APIConfig, error) {
	cfg := APIConfig{
		HTTPPort:                getEnv("API_HTTP_PORT", constants.DefaultAPIHTTPPort),
		StorageDriver:           strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		SQLitePath:              getEnv("SQLITE_PATH", constants.DefaultSQLitePath),
		SessionMode:             strings.ToLower(getEnv("SESSION_MODE", SessionModeOpaque)),
		SessionTTL:              getDurationEnv("SESSION_TTL", constants.DefaultSessionTTL),
		RequestTimeout:          getDurationEnv("API_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		MaxPageSize:             getIntEnv("MAX_PAGE_SIZE", constants.MaxPageSize),
		CircuitBreakerThreshold: int32(getIntEnv("CIRCUIT_BREAKER_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerTimeout:   getDurationEnv("CIRCUIT_BREAKER_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("CIRCUIT_BREAKER_RESET", constants.DefaultCircuitBreakerReset),
		LogDir:                  getEnv("LOG_DIR", ""),
		LogLevel:                getEnv("LOG_LEVEL", "INFO"),
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		databaseURL, err := mustEnv("DATABASE_URL")
		if err != nil {
			return APIConfig{}, err
		}
		cfg.DatabaseURL = databaseURL
	case StorageDriverSQLite:
	default:
		return APIConfig{}, fmt.Errorf("%w: STORAGE_DRIVER=%q", ErrInvalidEnvValue, cfg.StorageDriver)
	}

	switch cfg.SessionMode {
	case SessionModeOpaque:
	case SessionModeSigned:
		secret, err := mustEnv("SESSION_SECRET")
		if err != nil {
			return APIConfig{}, err
		}
		if err := validateSessionSecret(secret); err != nil {
			return APIConfig{}, err
		}
		cfg.SessionSecret = secret
	default:
		return APIConfig{}, fmt.Errorf("%w: SESSION_MODE=%q", ErrInvalidEnvValue, cfg.SessionMode)
	}

	if cfg.MaxPageSize < 1 {
		return APIConfig{}, fmt.Errorf("%w: MAX_PAGE_SIZE=%d", ErrInvalidEnvValue, cfg.MaxPageSize)
	}

	return cfg, nil
}

func validateSessionSecret(secret string) error {
	if len(secret) < constants.SessionSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidSessionSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

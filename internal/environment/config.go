package environment

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the immutable per-invocation configuration of the harness.
// It is constructed once and threaded explicitly into each component.
type Config struct {
	Port int

	ProbeAttemptTimeout time.Duration
	ProbeInterval       time.Duration
	RequestTimeout      time.Duration
	ShutdownGrace       time.Duration
}

func Default() Config {
	return Config{
		Port:                8088,
		ProbeAttemptTimeout: 2 * time.Second,
		ProbeInterval:       1 * time.Second,
		RequestTimeout:      120 * time.Second,
		ShutdownGrace:       5 * time.Second,
	}
}

// BaseURL is the fixed local address the sample under test listens on.
func (c Config) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// ReadEnvConfig returns the default configuration with overrides applied
// from the environment (and an optional .env file in the working directory).
func ReadEnvConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := Default()

	if v := os.Getenv("HARNESS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid HARNESS_PORT, using default", "value", v)
		} else {
			cfg.Port = port
		}
	}

	if v := os.Getenv("HARNESS_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid HARNESS_REQUEST_TIMEOUT, using default", "value", v)
		} else {
			cfg.RequestTimeout = d
		}
	}

	if v := os.Getenv("HARNESS_SHUTDOWN_GRACE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid HARNESS_SHUTDOWN_GRACE, using default", "value", v)
		} else {
			cfg.ShutdownGrace = d
		}
	}

	return cfg
}

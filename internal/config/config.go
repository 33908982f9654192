// Package config provides environment-driven configuration for followgraph.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/persistorai/followgraph/client"
	"github.com/persistorai/followgraph/internal/models"
)

// Config holds all application configuration values.
type Config struct {
	ChallengeURL      string
	Name              string
	RegNo             string
	Email             string
	RetryAttempts     int
	RetryBaseInterval time.Duration
	HTTPTimeout       time.Duration
	LogLevel          string
	LogFormat         string

	SandboxHost            string
	SandboxPort            string
	SandboxCORSOrigins     []string
	SandboxSeed            int64
	SandboxUsers           int
	SandboxFailChallenges  int
	SandboxFailSubmissions int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ChallengeURL: envOrDefault("CHALLENGE_URL", client.DefaultChallengeURL),
		Name:         envOrDefault("CANDIDATE_NAME", ""),
		RegNo:        envOrDefault("REG_NO", ""),
		Email:        envOrDefault("EMAIL", ""),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "text"),
		SandboxHost:  envOrDefault("SANDBOX_HOST", "127.0.0.1"),
		SandboxPort:  envOrDefault("SANDBOX_PORT", "3040"),
	}

	var err error

	if cfg.RetryAttempts, err = envInt("RETRY_ATTEMPTS", client.DefaultAttempts); err != nil {
		return nil, err
	}

	if cfg.RetryBaseInterval, err = envDuration("RETRY_BASE_INTERVAL", client.DefaultBaseInterval); err != nil {
		return nil, err
	}

	if cfg.HTTPTimeout, err = envDuration("HTTP_TIMEOUT", client.DefaultTimeout); err != nil {
		return nil, err
	}

	if cfg.SandboxUsers, err = envInt("SANDBOX_USERS", 12); err != nil {
		return nil, err
	}

	if cfg.SandboxFailChallenges, err = envInt("SANDBOX_FAIL_CHALLENGES", 0); err != nil {
		return nil, err
	}

	if cfg.SandboxFailSubmissions, err = envInt("SANDBOX_FAIL_SUBMISSIONS", 0); err != nil {
		return nil, err
	}

	seed, err := strconv.ParseInt(envOrDefault("SANDBOX_SEED", "1"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("SANDBOX_SEED must be an integer: %w", err)
	}
	cfg.SandboxSeed = seed

	origins := envOrDefault("SANDBOX_CORS_ORIGINS", "http://localhost:3040")
	cfg.SandboxCORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.SandboxCORSOrigins {
		cfg.SandboxCORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Identity returns the registration data sent with the challenge request.
func (c *Config) Identity() models.Identity {
	return models.Identity{Name: c.Name, RegNo: c.RegNo, Email: c.Email}
}

// RetryPolicy returns the attempt budget and backoff shared by fetch and submit.
func (c *Config) RetryPolicy() client.RetryPolicy {
	return client.RetryPolicy{Attempts: c.RetryAttempts, BaseInterval: c.RetryBaseInterval}
}

// SandboxAddr returns the sandbox listen address in host:port format.
func (c *Config) SandboxAddr() string {
	return c.SandboxHost + ":" + c.SandboxPort
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, err := strconv.Atoi(envOrDefault(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback.String()))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 1s, 500ms): %w", key, err)
	}

	return d, nil
}

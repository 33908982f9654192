package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Validate re-checks the configuration after callers have overlaid values
// from flags or a config file.
func (c *Config) Validate() error {
	return c.validate()
}

func (c *Config) validate() error {
	if err := c.validateChallengeURL(); err != nil {
		return err
	}

	if err := c.validateRetry(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateSandbox(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	return nil
}

// ValidateIdentity checks the fields required to request a challenge. It is
// separate from Load because only the run command needs an identity.
func (c *Config) ValidateIdentity() error {
	id := c.Identity()
	if err := id.Validate(); err != nil {
		return fmt.Errorf("identity: %w (set CANDIDATE_NAME, REG_NO and EMAIL or pass flags)", err)
	}

	return nil
}

func (c *Config) validateChallengeURL() error {
	u, err := url.ParseRequestURI(c.ChallengeURL)
	if err != nil {
		return fmt.Errorf("CHALLENGE_URL is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CHALLENGE_URL scheme must be http:// or https://")
	}

	if u.Hostname() == "" {
		return fmt.Errorf("CHALLENGE_URL must include a host")
	}

	if u.Scheme == "http" && !isLocalhost(c.ChallengeURL) {
		return fmt.Errorf("CHALLENGE_URL must use HTTPS for non-localhost hosts")
	}

	return nil
}

func (c *Config) validateRetry() error {
	if c.RetryAttempts < 1 || c.RetryAttempts > 10 {
		return fmt.Errorf("RETRY_ATTEMPTS must be between 1 and 10, got %d", c.RetryAttempts)
	}

	if c.RetryBaseInterval < 0 || c.RetryBaseInterval > time.Minute {
		return fmt.Errorf("RETRY_BASE_INTERVAL must be between 0 and 1m, got %s", c.RetryBaseInterval)
	}

	if c.HTTPTimeout <= 0 || c.HTTPTimeout > 5*time.Minute {
		return fmt.Errorf("HTTP_TIMEOUT must be positive and at most 5m, got %s", c.HTTPTimeout)
	}

	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}

	return nil
}

func (c *Config) validateSandbox() error {
	port, err := strconv.Atoi(c.SandboxPort)
	if err != nil {
		return fmt.Errorf("SANDBOX_PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("SANDBOX_PORT must be between 1 and 65535")
	}

	// The sandbox hands out credentials; keep it off external interfaces
	// unless running in a container where the boundary is enforced outside.
	validHosts := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   true,
		"::":        true,
	}
	if !validHosts[c.SandboxHost] {
		return fmt.Errorf("SANDBOX_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.SandboxHost)
	}

	if c.SandboxUsers < 1 || c.SandboxUsers > 10000 {
		return fmt.Errorf("SANDBOX_USERS must be between 1 and 10000, got %d", c.SandboxUsers)
	}

	if c.SandboxFailChallenges < 0 || c.SandboxFailSubmissions < 0 {
		return fmt.Errorf("SANDBOX_FAIL_CHALLENGES and SANDBOX_FAIL_SUBMISSIONS must not be negative")
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.SandboxCORSOrigins {
		if origin == "*" {
			return fmt.Errorf("SANDBOX_CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("SANDBOX_CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("SANDBOX_CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

// isLocalhost returns true if the given address points to a loopback address.
func isLocalhost(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

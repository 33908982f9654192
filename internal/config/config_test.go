package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/persistorai/followgraph/internal/config"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CANDIDATE_NAME", "John Doe")
	t.Setenv("REG_NO", "REG12347")
	t.Setenv("EMAIL", "john@example.com")
}

func TestLoad_Defaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ChallengeURL != "https://bfhldevapigw.healthrx.co.in/hiring/generateWebhook" {
		t.Errorf("unexpected ChallengeURL default: %s", cfg.ChallengeURL)
	}

	if cfg.RetryAttempts != 4 {
		t.Errorf("expected default retry attempts 4, got %d", cfg.RetryAttempts)
	}

	if cfg.RetryBaseInterval != time.Second {
		t.Errorf("expected default base interval 1s, got %s", cfg.RetryBaseInterval)
	}

	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %s", cfg.HTTPTimeout)
	}

	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected logging defaults: %s/%s", cfg.LogLevel, cfg.LogFormat)
	}

	if cfg.SandboxAddr() != "127.0.0.1:3040" {
		t.Errorf("expected sandbox addr 127.0.0.1:3040, got %s", cfg.SandboxAddr())
	}

	if err := cfg.ValidateIdentity(); err != nil {
		t.Errorf("expected valid identity, got %v", err)
	}

	if p := cfg.RetryPolicy(); p.Attempts != 4 || p.BaseInterval != time.Second {
		t.Errorf("unexpected retry policy: %+v", p)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("CHALLENGE_URL", "http://localhost:3040/hiring/generateWebhook")
	t.Setenv("RETRY_ATTEMPTS", "2")
	t.Setenv("RETRY_BASE_INTERVAL", "250ms")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SANDBOX_CORS_ORIGINS", "http://localhost:3000, http://localhost:3001")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RetryAttempts != 2 || cfg.RetryBaseInterval != 250*time.Millisecond {
		t.Errorf("unexpected retry config: %d %s", cfg.RetryAttempts, cfg.RetryBaseInterval)
	}

	if len(cfg.SandboxCORSOrigins) != 2 || cfg.SandboxCORSOrigins[1] != "http://localhost:3001" {
		t.Errorf("unexpected CORS origins: %v", cfg.SandboxCORSOrigins)
	}
}

func TestLoad_MissingIdentityIsNotALoadError(t *testing.T) {
	t.Setenv("CANDIDATE_NAME", "")
	t.Setenv("REG_NO", "")
	t.Setenv("EMAIL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := cfg.ValidateIdentity(); err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Errorf("expected identity error, got %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "plain http remote", key: "CHALLENGE_URL", value: "http://example.com/x", wantErr: "must use HTTPS"},
		{name: "ftp url", key: "CHALLENGE_URL", value: "ftp://example.com/x", wantErr: "scheme must be"},
		{name: "zero attempts", key: "RETRY_ATTEMPTS", value: "0", wantErr: "between 1 and 10"},
		{name: "too many attempts", key: "RETRY_ATTEMPTS", value: "11", wantErr: "between 1 and 10"},
		{name: "non-integer attempts", key: "RETRY_ATTEMPTS", value: "four", wantErr: "must be an integer"},
		{name: "bad interval", key: "RETRY_BASE_INTERVAL", value: "soon", wantErr: "must be a duration"},
		{name: "zero timeout", key: "HTTP_TIMEOUT", value: "0s", wantErr: "HTTP_TIMEOUT must be positive"},
		{name: "bad level", key: "LOG_LEVEL", value: "loud", wantErr: "LOG_LEVEL"},
		{name: "bad format", key: "LOG_FORMAT", value: "xml", wantErr: "LOG_FORMAT"},
		{name: "bad port", key: "SANDBOX_PORT", value: "70000", wantErr: "between 1 and 65535"},
		{name: "public host", key: "SANDBOX_HOST", value: "10.0.0.5", wantErr: "SANDBOX_HOST"},
		{name: "wildcard cors", key: "SANDBOX_CORS_ORIGINS", value: "*", wantErr: "wildcard"},
		{name: "bad seed", key: "SANDBOX_SEED", value: "x", wantErr: "SANDBOX_SEED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}

			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

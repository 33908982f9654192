package service

import (
	"context"
	"sync"

	"github.com/persistorai/followgraph/client"
	"github.com/persistorai/followgraph/internal/models"
)

// mockChallengeClient records calls and returns configured responses.
type mockChallengeClient struct {
	mu    sync.Mutex
	calls []string

	fetch  func(ctx context.Context, identity models.Identity) (*client.Challenge, error)
	submit func(ctx context.Context, webhookURL string, token client.Token, outcome *models.Outcome) client.SubmitResult

	submitted *models.Outcome
	webhook   string
	token     client.Token
}

func (m *mockChallengeClient) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockChallengeClient) called(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (m *mockChallengeClient) FetchChallenge(ctx context.Context, identity models.Identity) (*client.Challenge, error) {
	m.record("FetchChallenge")
	return m.fetch(ctx, identity)
}

func (m *mockChallengeClient) Submit(ctx context.Context, webhookURL string, token client.Token, outcome *models.Outcome) client.SubmitResult {
	m.record("Submit")
	m.mu.Lock()
	m.submitted, m.webhook, m.token = outcome, webhookURL, token
	m.mu.Unlock()

	if m.submit == nil {
		return client.SubmitResult{Status: client.SubmitSuccess, Attempts: 1, StatusCode: 200}
	}
	return m.submit(ctx, webhookURL, token, outcome)
}

// staticChallenge returns a fetch func that always yields data.
func staticChallenge(data string) func(context.Context, models.Identity) (*client.Challenge, error) {
	return func(context.Context, models.Identity) (*client.Challenge, error) {
		return &client.Challenge{
			Webhook:     "https://example.test/hiring/testWebhook",
			AccessToken: client.Token("tok-123"),
			Data:        []byte(data),
		}, nil
	}
}

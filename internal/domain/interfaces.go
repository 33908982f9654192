// Package domain defines the canonical interfaces shared between the workflow
// runner, the CLI and the sandbox. Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/persistorai/followgraph/client"
	"github.com/persistorai/followgraph/internal/models"
)

// ChallengeFetcher requests a challenge for a candidate identity.
type ChallengeFetcher interface {
	FetchChallenge(ctx context.Context, identity models.Identity) (*client.Challenge, error)
}

// ResultSubmitter posts a computed outcome to a challenge webhook.
type ResultSubmitter interface {
	Submit(ctx context.Context, webhookURL string, token client.Token, outcome *models.Outcome) client.SubmitResult
}

// ChallengeClient is the full remote surface used by a workflow run.
type ChallengeClient interface {
	ChallengeFetcher
	ResultSubmitter
}

// Compile-time check: *client.Client must satisfy ChallengeClient.
var _ ChallengeClient = (*client.Client)(nil)

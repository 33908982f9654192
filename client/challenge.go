package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/followgraph/internal/models"
)

// FetchChallenge requests a challenge for identity. Transport failures and
// non-2xx statuses are retried per the client's RetryPolicy; exhausting it
// returns an error wrapping ErrChallengeUnavailable. A 2xx body missing
// webhook, accessToken or data fails at once with ErrMalformedResponse.
func (c *Client) FetchChallenge(ctx context.Context, identity models.Identity) (*Challenge, error) {
	var challenge *Challenge

	attempts, err := c.withRetry(ctx, "challenge", func(attempt int) error {
		resp, err := c.post(ctx, c.challengeURL, identity, nil)
		if err != nil {
			return attemptError("challenge", attempt, err)
		}

		challenge, err = DecodeChallenge(resp.body)
		return err
	})
	if err != nil {
		if IsTransport(err) {
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrChallengeUnavailable, attempts, err)
		}
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"attempts": attempts,
		"webhook":  challenge.Webhook,
	}).Debug("challenge received")

	return challenge, nil
}

// DecodeChallenge parses a challenge response body, requiring a non-empty
// absolute http(s) webhook, a non-empty accessToken, and non-null data.
func DecodeChallenge(body []byte) (*Challenge, error) {
	var raw struct {
		Webhook     *string         `json:"webhook"`
		AccessToken *string         `json:"accessToken"`
		Data        json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if raw.Webhook == nil || *raw.Webhook == "" {
		return nil, fmt.Errorf("%w: webhook is required", ErrMalformedResponse)
	}

	u, err := url.Parse(*raw.Webhook)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: webhook %q is not an absolute http(s) URL", ErrMalformedResponse, *raw.Webhook)
	}

	if raw.AccessToken == nil || *raw.AccessToken == "" {
		return nil, fmt.Errorf("%w: accessToken is required", ErrMalformedResponse)
	}

	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil, fmt.Errorf("%w: data is required", ErrMalformedResponse)
	}

	return &Challenge{
		Webhook:     *raw.Webhook,
		AccessToken: Token(*raw.AccessToken),
		Data:        raw.Data,
	}, nil
}

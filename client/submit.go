package client

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/followgraph/internal/models"
)

// maxLoggedBody caps the webhook response excerpt kept in a SubmitResult.
const maxLoggedBody = 512

// Submit posts outcome to webhookURL with token in the Authorization header.
// Any 2xx counts as success. Transport failures and non-2xx statuses are
// retried with the same policy as FetchChallenge. Exhausting the budget is
// reported as SubmitFailed, never as a returned error.
func (c *Client) Submit(ctx context.Context, webhookURL string, token Token, outcome *models.Outcome) SubmitResult {
	var result SubmitResult

	attempts, err := c.withRetry(ctx, "submit", func(attempt int) error {
		resp, err := c.post(ctx, webhookURL, outcome, authHeader(token))
		if err != nil {
			return attemptError("submit", attempt, err)
		}

		result.StatusCode = resp.status
		result.Body = truncate(string(resp.body), maxLoggedBody)
		return nil
	})

	result.Attempts = attempts
	if err != nil {
		result.Status = SubmitFailed
		result.Err = err
		if code := StatusCode(err); code != 0 {
			result.StatusCode = code
		}

		c.log.WithError(err).WithFields(logrus.Fields{
			"attempts": attempts,
			"status":   result.StatusCode,
		}).Error("submission failed")

		return result
	}

	result.Status = SubmitSuccess
	c.log.WithFields(logrus.Fields{
		"attempts": attempts,
		"status":   result.StatusCode,
	}).Info("submission accepted")

	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

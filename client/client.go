// Package client talks to the challenge service: it fetches a challenge and
// posts the computed outcome back to the challenge webhook, retrying both on
// transient failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultChallengeURL is the production endpoint that issues challenges.
const DefaultChallengeURL = "https://bfhldevapigw.healthrx.co.in/hiring/generateWebhook"

// DefaultTimeout bounds a single request, connect through body read.
const DefaultTimeout = 30 * time.Second

// maxResponseBody caps how much of any response body is read.
const maxResponseBody = 8 << 20

// Client is the challenge service client.
type Client struct {
	challengeURL string
	httpClient   *http.Client
	retry        RetryPolicy
	log          *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetryPolicy sets the attempt budget and backoff base interval shared by
// challenge fetches and submissions.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithLogger sets the logger used for attempt-level diagnostics.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client that requests challenges from challengeURL.
func New(challengeURL string, opts ...Option) *Client {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	c := &Client{
		challengeURL: challengeURL,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		retry:        DefaultRetryPolicy(),
		log:          quiet,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// RetryPolicy returns the policy in effect.
func (c *Client) RetryPolicy() RetryPolicy {
	return c.retry
}

// response is a completed HTTP exchange with its body already read.
type response struct {
	status int
	body   []byte
}

// errRequestBuild marks failures that happen before anything is sent, such
// as an unparsable webhook URL. Repeating them cannot help.
var errRequestBuild = errors.New("request could not be built")

// attemptError classifies a post failure: anything that reached the network
// (or came back non-2xx) is a retryable TransportError.
func attemptError(op string, attempt int, err error) error {
	if errors.Is(err, errRequestBuild) {
		return err
	}
	return &TransportError{Op: op, Attempt: attempt, Err: err}
}

// post sends body as JSON to url. Network errors and non-2xx statuses come
// back as errors; the caller decides whether they are worth another attempt.
func (c *Client) post(ctx context.Context, url string, body any, header http.Header) (*response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", errRequestBuild, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", errRequestBuild, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	return &response{status: resp.StatusCode, body: respBody}, nil
}

package client

import (
	"encoding/json"
	"net/http"
)

// Token is the opaque credential issued with a challenge. It prints as a
// placeholder so it never lands in logs.
type Token string

// String implements fmt.Stringer, returning a redacted placeholder.
func (t Token) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (t Token) GoString() string { return "[REDACTED]" }

// Value returns the raw credential.
func (t Token) Value() string { return string(t) }

// Challenge is a successfully parsed challenge response.
type Challenge struct {
	Webhook     string          `json:"webhook"`
	AccessToken Token           `json:"-"`
	Data        json.RawMessage `json:"data"`
}

// SubmitStatus is the terminal state of a submission.
type SubmitStatus int

// Submission states.
const (
	SubmitSuccess SubmitStatus = iota + 1
	SubmitFailed
)

// String returns the log/metric label for s.
func (s SubmitStatus) String() string {
	switch s {
	case SubmitSuccess:
		return "success"
	case SubmitFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SubmitResult reports how a submission ended. A failed submission is not a
// Go error: the challenge is already consumed, so callers log it and stop.
type SubmitResult struct {
	Status     SubmitStatus
	Attempts   int
	StatusCode int
	Body       string
	Err        error
}

// OK reports whether the webhook accepted the outcome.
func (r *SubmitResult) OK() bool {
	return r.Status == SubmitSuccess
}

// authHeader carries the credential verbatim, without a scheme prefix.
func authHeader(token Token) http.Header {
	h := make(http.Header, 1)
	h.Set("Authorization", token.Value())
	return h
}

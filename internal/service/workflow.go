// Package service runs the challenge workflow: fetch, select, solve, submit.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/followgraph/client"
	"github.com/persistorai/followgraph/internal/domain"
	"github.com/persistorai/followgraph/internal/metrics"
	"github.com/persistorai/followgraph/internal/models"
	"github.com/persistorai/followgraph/internal/solver"
)

// Report describes one workflow run.
type Report struct {
	RunID      string
	Problem    solver.Problem
	Webhook    string
	Outcome    *models.Outcome
	Users      int
	Edges      int
	Submission client.SubmitResult

	FetchDuration  time.Duration
	SolveDuration  time.Duration
	SubmitDuration time.Duration
}

// Runner executes the workflow for one identity.
type Runner struct {
	client   domain.ChallengeClient
	identity models.Identity
	log      *logrus.Logger
}

// NewRunner creates a Runner.
func NewRunner(c domain.ChallengeClient, identity models.Identity, log *logrus.Logger) *Runner {
	return &Runner{client: c, identity: identity, log: log}
}

// Run fetches a challenge, solves it and submits the outcome. Errors that
// prevent an outcome from being computed are returned. A submission that
// exhausts its retries is logged and recorded in the report, and Run still
// returns nil: the challenge has been consumed either way.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := r.log.WithFields(logrus.Fields{
		"run_id": report.RunID,
		"reg_no": r.identity.RegNo,
	})

	if err := r.identity.Validate(); err != nil {
		return report, r.fail(log, report, "identity", err)
	}

	problem, err := solver.Select(r.identity.RegNo)
	if err != nil {
		return report, r.fail(log, report, "registration_id", err)
	}
	report.Problem = problem
	log = log.WithField("problem", problem.String())

	start := time.Now()
	challenge, err := r.client.FetchChallenge(ctx, r.identity)
	report.FetchDuration = time.Since(start)
	if err != nil {
		return report, r.fail(log, report, errorType(err), fmt.Errorf("fetching challenge: %w", err))
	}
	report.Webhook = challenge.Webhook

	log.WithField("fetch_duration", report.FetchDuration.String()).Info("challenge received")

	start = time.Now()
	sol, err := solver.Solve(ctx, problem, r.identity.RegNo, challenge.Data)
	report.SolveDuration = time.Since(start)
	metrics.SolveDuration.WithLabelValues(problem.String()).Observe(report.SolveDuration.Seconds())
	if err != nil {
		return report, r.fail(log, report, errorType(err), fmt.Errorf("solving %s: %w", problem, err))
	}

	report.Outcome = sol.Outcome
	report.Users = sol.Users
	report.Edges = sol.Edges

	log.WithFields(logrus.Fields{
		"users":          sol.Users,
		"edges":          sol.Edges,
		"results":        sol.Outcome.Len(),
		"solve_duration": report.SolveDuration.String(),
	}).Info("outcome computed")

	start = time.Now()
	report.Submission = r.client.Submit(ctx, challenge.Webhook, challenge.AccessToken, sol.Outcome)
	report.SubmitDuration = time.Since(start)

	entry := log.WithFields(logrus.Fields{
		"attempts":        report.Submission.Attempts,
		"status_code":     report.Submission.StatusCode,
		"submit_duration": report.SubmitDuration.String(),
	})

	if !report.Submission.OK() {
		metrics.RunsTotal.WithLabelValues(problem.String(), "submit_failed").Inc()
		metrics.ErrorsTotal.WithLabelValues("submission").Inc()
		entry.WithError(report.Submission.Err).Error("run finished without an accepted submission")
		return report, nil
	}

	metrics.RunsTotal.WithLabelValues(problem.String(), "submitted").Inc()
	entry.Info("run complete")

	return report, nil
}

// fail records a fatal run error.
func (r *Runner) fail(log *logrus.Entry, report *Report, kind string, err error) error {
	metrics.ErrorsTotal.WithLabelValues(kind).Inc()
	metrics.RunsTotal.WithLabelValues(report.Problem.String(), "failed").Inc()
	log.WithError(err).WithField("error_type", kind).Error("run failed")

	return err
}

// errorType maps a fatal error to its metric label.
func errorType(err error) string {
	switch {
	case errors.Is(err, client.ErrChallengeUnavailable):
		return "challenge_unavailable"
	case errors.Is(err, client.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, models.ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, models.ErrUnknownNode):
		return "unknown_node"
	case errors.Is(err, models.ErrInvalidRegistrationID):
		return "registration_id"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}

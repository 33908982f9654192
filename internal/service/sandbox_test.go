package service_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/followgraph/client"
	"github.com/persistorai/followgraph/internal/models"
	"github.com/persistorai/followgraph/internal/sandbox"
	"github.com/persistorai/followgraph/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// fastRetry keeps the 4-attempt budget with millisecond backoff.
var fastRetry = client.RetryPolicy{Attempts: 4, BaseInterval: time.Millisecond}

func startSandbox(t *testing.T, cfg sandbox.Config) (*sandbox.Server, *client.Client) {
	t.Helper()

	log := quietLog()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sb := sandbox.New(cfg, log)
	srv := httptest.NewServer(sb.Handler(ctx))
	t.Cleanup(srv.Close)

	c := client.New(srv.URL+"/hiring/generateWebhook",
		client.WithRetryPolicy(fastRetry),
		client.WithTimeout(5*time.Second),
	)
	return sb, c
}

func TestRunner_AgainstSandbox(t *testing.T) {
	for _, regNo := range []string{"REG12347", "REG12348"} {
		t.Run(regNo, func(t *testing.T) {
			sb, c := startSandbox(t, sandbox.Config{Seed: 11, Users: 25})
			id := models.Identity{Name: "Jane Doe", RegNo: regNo, Email: "jane@example.com"}

			report, err := service.NewRunner(c, id, quietLog()).Run(context.Background())
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if !report.Submission.OK() || report.Submission.Attempts != 1 {
				t.Fatalf("unexpected submission: %+v", report.Submission)
			}

			subs := sb.Submissions()
			if len(subs) != 1 || !subs[0].Correct {
				t.Fatalf("sandbox should grade the submission correct, got %+v", subs)
			}
		})
	}
}

func TestRunner_ChallengeRecoversOnFourthAttempt(t *testing.T) {
	sb, c := startSandbox(t, sandbox.Config{Seed: 5, FailChallenges: 3})
	id := models.Identity{Name: "Jane Doe", RegNo: "REG12347", Email: "jane@example.com"}

	report, err := service.NewRunner(c, id, quietLog()).Run(context.Background())
	if err != nil {
		t.Fatalf("expected the 4th challenge attempt to succeed, got %v", err)
	}

	if !report.Submission.OK() || len(sb.Submissions()) != 1 {
		t.Fatalf("expected one accepted submission, got %+v", report.Submission)
	}
}

func TestRunner_ChallengeBudgetExhausted(t *testing.T) {
	sb, c := startSandbox(t, sandbox.Config{Seed: 5, FailChallenges: 4})
	id := models.Identity{Name: "Jane Doe", RegNo: "REG12347", Email: "jane@example.com"}

	_, err := service.NewRunner(c, id, quietLog()).Run(context.Background())
	if !errors.Is(err, client.ErrChallengeUnavailable) {
		t.Fatalf("expected ErrChallengeUnavailable, got %v", err)
	}

	if len(sb.Submissions()) != 0 {
		t.Fatal("nothing should be submitted without a challenge")
	}
}

func TestRunner_SubmissionBudgetExhaustedEndsQuietly(t *testing.T) {
	sb, c := startSandbox(t, sandbox.Config{Seed: 5, FailSubmissions: 4})
	id := models.Identity{Name: "Jane Doe", RegNo: "REG12348", Email: "jane@example.com"}

	report, err := service.NewRunner(c, id, quietLog()).Run(context.Background())
	if err != nil {
		t.Fatalf("a failed submission must not be returned as an error, got %v", err)
	}

	if report.Submission.Status != client.SubmitFailed || report.Submission.Attempts != 4 {
		t.Fatalf("expected failed submission after 4 attempts, got %+v", report.Submission)
	}

	if report.Submission.StatusCode != 503 {
		t.Errorf("expected last status 503, got %d", report.Submission.StatusCode)
	}

	if len(sb.Submissions()) != 0 {
		t.Fatal("no submission should have been recorded")
	}
}

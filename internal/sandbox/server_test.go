package sandbox_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/followgraph/internal/models"
	"github.com/persistorai/followgraph/internal/sandbox"
	"github.com/persistorai/followgraph/internal/solver"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type challenge struct {
	Webhook     string          `json:"webhook"`
	AccessToken string          `json:"accessToken"`
	Data        json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, cfg sandbox.Config) (*sandbox.Server, http.Handler) {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := sandbox.New(cfg, log)
	return s, s.Handler(ctx)
}

func postJSON(t *testing.T, h http.Handler, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func issue(t *testing.T, h http.Handler, id models.Identity) challenge {
	t.Helper()

	w := postJSON(t, h, "/hiring/generateWebhook", "", id)
	if w.Code != http.StatusOK {
		t.Fatalf("generateWebhook: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var ch challenge
	if err := json.Unmarshal(w.Body.Bytes(), &ch); err != nil {
		t.Fatalf("decoding challenge: %v", err)
	}
	return ch
}

var (
	oddIdentity  = models.Identity{Name: "Jane Doe", RegNo: "REG12347", Email: "jane@example.com"}
	evenIdentity = models.Identity{Name: "John Doe", RegNo: "REG12348", Email: "john@example.com"}
)

func TestGenerateWebhook_IssuesChallenge(t *testing.T) {
	_, h := newTestServer(t, sandbox.Config{Seed: 7, Users: 10})

	ch := issue(t, h, oddIdentity)

	if !strings.HasSuffix(ch.Webhook, "/hiring/testWebhook") {
		t.Errorf("unexpected webhook %q", ch.Webhook)
	}
	if ch.AccessToken == "" {
		t.Error("expected an access token")
	}

	var payload models.MutualPayload
	if err := json.Unmarshal(ch.Data, &payload); err != nil {
		t.Fatalf("odd regNo should get shape A data: %v", err)
	}
	if len(payload.Users) != 10 {
		t.Errorf("expected 10 users, got %d", len(payload.Users))
	}

	ch = issue(t, h, evenIdentity)

	var level models.LevelPayload
	if err := json.Unmarshal(ch.Data, &level); err != nil {
		t.Fatalf("even regNo should get shape B data: %v", err)
	}
	if level.N < 1 || len(level.Users) != 10 {
		t.Errorf("unexpected level payload: n=%d users=%d", level.N, len(level.Users))
	}
}

func TestGenerateWebhook_DeterministicPerSeed(t *testing.T) {
	_, h1 := newTestServer(t, sandbox.Config{Seed: 42})
	_, h2 := newTestServer(t, sandbox.Config{Seed: 42})
	_, h3 := newTestServer(t, sandbox.Config{Seed: 43})

	a := issue(t, h1, evenIdentity)
	b := issue(t, h2, evenIdentity)
	c := issue(t, h3, evenIdentity)

	if !bytes.Equal(a.Data, b.Data) {
		t.Error("same seed produced different data")
	}
	if bytes.Equal(a.Data, c.Data) {
		t.Error("different seeds produced identical data")
	}
	if a.AccessToken == b.AccessToken {
		t.Error("tokens must be unique per challenge")
	}
}

func TestGenerateWebhook_RejectsInvalidIdentity(t *testing.T) {
	_, h := newTestServer(t, sandbox.Config{Seed: 1})

	tests := []struct {
		name string
		id   models.Identity
	}{
		{name: "missing email", id: models.Identity{Name: "a", RegNo: "R1"}},
		{name: "non-digit regNo", id: models.Identity{Name: "a", RegNo: "REGX", Email: "a@b.c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h, "/hiring/generateWebhook", "", tt.id)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestTestWebhook_GradesCorrectSubmission(t *testing.T) {
	for _, id := range []models.Identity{oddIdentity, evenIdentity} {
		t.Run(id.RegNo, func(t *testing.T) {
			s, h := newTestServer(t, sandbox.Config{Seed: 3, Users: 20})
			ch := issue(t, h, id)

			p, err := solver.Select(id.RegNo)
			if err != nil {
				t.Fatalf("select: %v", err)
			}

			sol, err := solver.Solve(context.Background(), p, id.RegNo, ch.Data)
			if err != nil {
				t.Fatalf("solve: %v", err)
			}

			w := postJSON(t, h, "/hiring/testWebhook", ch.AccessToken, sol.Outcome)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}

			var resp struct {
				Correct bool `json:"correct"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if !resp.Correct {
				t.Errorf("expected correct submission, got %s", w.Body.String())
			}

			subs := s.Submissions()
			if len(subs) != 1 || !subs[0].Correct || subs[0].Problem != p.String() {
				t.Errorf("unexpected recorded submissions: %+v", subs)
			}
		})
	}
}

func TestTestWebhook_WrongAnswerIsRecordedAsIncorrect(t *testing.T) {
	s, h := newTestServer(t, sandbox.Config{Seed: 3, Users: 20})
	ch := issue(t, h, evenIdentity)

	w := postJSON(t, h, "/hiring/testWebhook", ch.AccessToken, models.NewIDsOutcome(evenIdentity.RegNo, []int{-1}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	subs := s.Submissions()
	if len(subs) != 1 || subs[0].Correct {
		t.Fatalf("expected one incorrect submission, got %+v", subs)
	}
}

func TestTestWebhook_RequiresVerbatimToken(t *testing.T) {
	_, h := newTestServer(t, sandbox.Config{Seed: 3})
	ch := issue(t, h, oddIdentity)
	outcome := models.NewPairsOutcome(oddIdentity.RegNo, nil)

	for _, auth := range []string{"", "not-a-token", "Bearer " + ch.AccessToken} {
		w := postJSON(t, h, "/hiring/testWebhook", auth, outcome)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("auth %q: expected 401, got %d", auth, w.Code)
		}
	}
}

func TestFaultInjection(t *testing.T) {
	_, h := newTestServer(t, sandbox.Config{Seed: 3, FailChallenges: 2, FailSubmissions: 1})

	for i := range 2 {
		w := postJSON(t, h, "/hiring/generateWebhook", "", oddIdentity)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("challenge %d: expected 503, got %d", i+1, w.Code)
		}
	}

	ch := issue(t, h, oddIdentity)
	outcome := models.NewPairsOutcome(oddIdentity.RegNo, nil)

	if w := postJSON(t, h, "/hiring/testWebhook", ch.AccessToken, outcome); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("first submission: expected 503, got %d", w.Code)
	}
	if w := postJSON(t, h, "/hiring/testWebhook", ch.AccessToken, outcome); w.Code != http.StatusOK {
		t.Fatalf("second submission: expected 200, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t, sandbox.Config{Seed: 1, Version: "test"})
	issue(t, h, oddIdentity)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Status           string `json:"status"`
		Version          string `json:"version"`
		ChallengesIssued int    `json:"challenges_issued"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "test" || resp.ChallengesIssued != 1 {
		t.Errorf("unexpected health: %+v", resp)
	}
}

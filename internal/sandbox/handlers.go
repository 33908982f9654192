package sandbox

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/followgraph/internal/httputil"
	"github.com/persistorai/followgraph/internal/metrics"
	"github.com/persistorai/followgraph/internal/middleware"
	"github.com/persistorai/followgraph/internal/models"
	"github.com/persistorai/followgraph/internal/solver"
)

// Error codes returned in httputil.ErrorBody.
const (
	errCodeInvalidRequest = "invalid_request"
	errCodeUnavailable    = "unavailable"
	errCodeInternal       = "internal_error"
)

type challengeResponse struct {
	Webhook     string          `json:"webhook"`
	AccessToken string          `json:"accessToken"`
	Data        json.RawMessage `json:"data"`
}

type submissionRequest struct {
	RegNo   string          `json:"regNo"`
	Outcome json.RawMessage `json:"outcome"`
}

type submissionResponse struct {
	Success bool   `json:"success"`
	Correct bool   `json:"correct"`
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	ChallengesIssued int     `json:"challenges_issued"`
	Submissions      int     `json:"submissions"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// generateWebhook handles POST /hiring/generateWebhook.
func (s *Server) generateWebhook(c *gin.Context) {
	if s.takeFault(&s.failChallenges) {
		httputil.RespondError(c, http.StatusServiceUnavailable, errCodeUnavailable, "challenge service temporarily unavailable")
		return
	}

	var identity models.Identity
	if !bindJSON(c, &identity) {
		return
	}

	if err := identity.Validate(); err != nil {
		httputil.RespondError(c, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	problem, err := solver.Select(identity.RegNo)
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	s.mu.Lock()
	data, err := generateData(s.rng, problem, s.cfg.Users)
	s.mu.Unlock()
	if err != nil {
		s.log.WithError(err).Error("generating challenge data")
		httputil.RespondError(c, http.StatusInternalServerError, errCodeInternal, "internal error")
		return
	}

	sol, err := solver.Solve(c.Request.Context(), problem, identity.RegNo, data)
	if err != nil {
		s.log.WithError(err).Error("solving generated challenge")
		httputil.RespondError(c, http.StatusInternalServerError, errCodeInternal, "internal error")
		return
	}

	token := uuid.NewString()

	s.mu.Lock()
	s.tokens[token] = &issued{
		regNo:    identity.RegNo,
		problem:  problem,
		expected: sol.Outcome,
		issuedAt: time.Now(),
	}
	s.mu.Unlock()

	metrics.ChallengesIssued.Inc()
	s.log.WithFields(logrus.Fields{
		"reg_no":  identity.RegNo,
		"problem": problem.String(),
		"users":   sol.Users,
	}).Info("challenge issued")

	c.JSON(http.StatusOK, challengeResponse{
		Webhook:     s.webhookURL(c),
		AccessToken: token,
		Data:        data,
	})
}

// testWebhook handles POST /hiring/testWebhook. WebhookAuth has already
// resolved the token.
func (s *Server) testWebhook(c *gin.Context) {
	if s.takeFault(&s.failSubmissions) {
		httputil.RespondError(c, http.StatusServiceUnavailable, errCodeUnavailable, "webhook temporarily unavailable")
		return
	}

	var req submissionRequest
	if !bindJSON(c, &req) {
		return
	}

	if len(req.Outcome) == 0 || string(req.Outcome) == "null" {
		httputil.RespondError(c, http.StatusBadRequest, errCodeInvalidRequest, "outcome is required")
		return
	}

	token := c.GetString(middleware.TokenKey)

	s.mu.Lock()
	iss, ok := s.tokens[token]
	s.mu.Unlock()
	if !ok {
		httputil.RespondError(c, http.StatusUnauthorized, "unauthorized", "invalid access token")
		return
	}

	correct, reason, err := grade(iss.expected, req.Outcome)
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, errCodeInvalidRequest, err.Error())
		return
	}

	if req.RegNo != iss.regNo {
		correct = false
		reason = "regNo does not match the registration the token was issued to"
	}

	sub := Submission{
		ID:         uuid.NewString(),
		RegNo:      req.RegNo,
		Problem:    iss.problem.String(),
		Correct:    correct,
		Reason:     reason,
		Outcome:    req.Outcome,
		ReceivedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()

	metrics.SubmissionsTotal.WithLabelValues(sub.Problem, strconv.FormatBool(correct)).Inc()
	s.log.WithFields(logrus.Fields{
		"reg_no":      sub.RegNo,
		"problem":     sub.Problem,
		"correct":     correct,
		"since_issue": time.Since(iss.issuedAt).String(),
	}).Info("submission graded")

	c.JSON(http.StatusOK, submissionResponse{
		Success: true,
		Correct: correct,
		ID:      sub.ID,
		Message: reason,
	})
}

// listSubmissions handles GET /hiring/submissions.
func (s *Server) listSubmissions(c *gin.Context) {
	subs := s.Submissions()
	if subs == nil {
		subs = []Submission{}
	}

	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// health handles GET /health.
func (s *Server) health(c *gin.Context) {
	s.mu.Lock()
	resp := healthResponse{
		Status:           "ok",
		Version:          s.cfg.Version,
		ChallengesIssued: len(s.tokens),
		Submissions:      len(s.submissions),
		UptimeSeconds:    time.Since(s.startTime).Seconds(),
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, resp)
}

// webhookURL returns the absolute URL of the submission endpoint.
func (s *Server) webhookURL(c *gin.Context) string {
	if s.cfg.BaseURL != "" {
		return s.cfg.BaseURL + "/hiring/testWebhook"
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + c.Request.Host + "/hiring/testWebhook"
}

// bindJSON decodes the request body into v, writing the error response and
// returning false on failure.
func bindJSON(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}

	if isMaxBytesError(err) {
		httputil.RespondError(c, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
		return false
	}

	httputil.RespondError(c, http.StatusBadRequest, errCodeInvalidRequest, "invalid JSON body")
	return false
}

// isMaxBytesError reports whether err came from http.MaxBytesReader.
func isMaxBytesError(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// Package sandbox is a local stand-in for the challenge service. It issues
// deterministic challenges, accepts webhook submissions, and grades them.
package sandbox

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/followgraph/internal/middleware"
	"github.com/persistorai/followgraph/internal/models"
	"github.com/persistorai/followgraph/internal/solver"
)

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB
	rateLimit   = 50      // requests per second per IP
	rateBurst   = 100     // token bucket burst size
)

// Config controls challenge generation and fault injection.
type Config struct {
	Seed  int64
	Users int

	// FailChallenges and FailSubmissions make the first N requests of each
	// kind answer 503, to exercise client retries.
	FailChallenges  int
	FailSubmissions int

	CORSOrigins []string

	// BaseURL is the externally visible origin used in issued webhook URLs.
	// When empty it is derived from each request's Host header.
	BaseURL string

	Version string
}

// issued is a challenge handed out under a token.
type issued struct {
	regNo    string
	problem  solver.Problem
	expected *models.Outcome
	issuedAt time.Time
}

// Submission is a graded webhook call.
type Submission struct {
	ID         string          `json:"id"`
	RegNo      string          `json:"regNo"`
	Problem    string          `json:"problem"`
	Correct    bool            `json:"correct"`
	Reason     string          `json:"reason,omitempty"`
	Outcome    json.RawMessage `json:"outcome"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// Server holds sandbox state. All fields after mu are guarded by it.
type Server struct {
	cfg       Config
	log       *logrus.Logger
	startTime time.Time

	mu              sync.Mutex
	rng             *rand.Rand
	tokens          map[string]*issued
	submissions     []Submission
	failChallenges  int
	failSubmissions int
}

// New creates a sandbox server.
func New(cfg Config, log *logrus.Logger) *Server {
	if cfg.Users <= 0 {
		cfg.Users = 12
	}

	seed := uint64(cfg.Seed)
	return &Server{
		cfg:             cfg,
		log:             log,
		startTime:       time.Now(),
		rng:             rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		tokens:          make(map[string]*issued),
		failChallenges:  cfg.FailChallenges,
		failSubmissions: cfg.FailSubmissions,
	}
}

// LookupToken implements middleware.TokenLookup.
func (s *Server) LookupToken(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iss, ok := s.tokens[token]
	if !ok {
		return "", false
	}
	return iss.regNo, true
}

// Submissions returns a copy of the graded submissions in arrival order.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.submissions)
}

// takeFault consumes one injected failure from *budget, reporting whether the
// current request should fail.
func (s *Server) takeFault(budget *int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if *budget <= 0 {
		return false
	}
	*budget--
	return true
}

// setupMiddleware configures all middleware on the Gin engine.
func (s *Server) setupMiddleware(ctx context.Context, r *gin.Engine) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(s.log))
	r.Use(middleware.AccessLog(s.log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			MaxAge:           1 * time.Hour,
			AllowCredentials: false,
		}))
	}
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up the challenge endpoints.
func (s *Server) registerRoutes(ctx context.Context, r *gin.Engine) {
	r.GET("/health", s.health)

	hiring := r.Group("/hiring")
	hiring.POST("/generateWebhook", s.generateWebhook)
	hiring.GET("/submissions", s.listSubmissions)

	guard := middleware.NewBruteForceGuard(ctx, s.log)
	hiring.POST("/testWebhook",
		middleware.BruteForceMiddleware(guard),
		middleware.WebhookAuth(s, s.log, guard),
		s.testWebhook,
	)
}

// Handler builds the gin engine. Background cleanup goroutines stop when ctx
// is cancelled.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := gin.New()
	s.setupMiddleware(ctx, r)
	s.registerRoutes(ctx, r)

	return r
}

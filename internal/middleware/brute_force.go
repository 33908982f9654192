package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	bruteForceMaxAttempts = 5
	bruteForceWindow      = 15 * time.Minute
	bruteForceLockout     = 5 * time.Minute
	bruteForceCleanup     = 60 * time.Second
	bruteForceMaxRecords  = 10000
)

type failureRecord struct {
	attempts  int
	firstFail time.Time
	lockedAt  time.Time
}

// BruteForceGuard tracks webhook authentication failures per client IP and
// locks out clients that exceed the threshold within the tracking window.
type BruteForceGuard struct {
	mu      sync.Mutex
	records map[string]*failureRecord
	log     *logrus.Logger
}

// NewBruteForceGuard creates a new guard and starts a background cleanup goroutine
// that stops when ctx is cancelled.
func NewBruteForceGuard(ctx context.Context, log *logrus.Logger) *BruteForceGuard {
	g := &BruteForceGuard{
		records: make(map[string]*failureRecord),
		log:     log,
	}
	go g.cleanupLoop(ctx)
	return g
}

// IsBlocked reports whether ip is currently locked out.
func (g *BruteForceGuard) IsBlocked(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[ip]
	if !ok {
		return false
	}

	return !rec.lockedAt.IsZero() && time.Since(rec.lockedAt) < bruteForceLockout
}

// RecordFailure records a rejected token from ip.
func (g *BruteForceGuard) RecordFailure(ip string) {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[ip]
	if !ok {
		if len(g.records) >= bruteForceMaxRecords {
			g.evictOldest(1)
		}
		g.records[ip] = &failureRecord{attempts: 1, firstFail: now}
		return
	}

	if now.Sub(rec.firstFail) > bruteForceWindow {
		rec.attempts = 1
		rec.firstFail = now
		rec.lockedAt = time.Time{}
		return
	}

	rec.attempts++
	if rec.attempts >= bruteForceMaxAttempts && rec.lockedAt.IsZero() {
		rec.lockedAt = now
		g.log.WithField("client_ip", ip).Warn("client locked out after repeated token failures")
	}
}

// Reset clears failure tracking for ip (call on successful auth).
func (g *BruteForceGuard) Reset(ip string) {
	g.mu.Lock()
	delete(g.records, ip)
	g.mu.Unlock()
}

func (g *BruteForceGuard) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(bruteForceCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			g.mu.Lock()
			for k, rec := range g.records {
				if !rec.lockedAt.IsZero() && now.Sub(rec.lockedAt) >= bruteForceLockout {
					delete(g.records, k)
				} else if rec.lockedAt.IsZero() && now.Sub(rec.firstFail) >= bruteForceWindow {
					delete(g.records, k)
				}
			}
			g.mu.Unlock()
		}
	}
}

// evictOldest removes the n entries with the oldest first failure.
// Caller must hold g.mu.
func (g *BruteForceGuard) evictOldest(n int) {
	for range n {
		var oldestKey string
		var oldest time.Time
		for k, rec := range g.records {
			if oldestKey == "" || rec.firstFail.Before(oldest) {
				oldestKey, oldest = k, rec.firstFail
			}
		}
		if oldestKey == "" {
			return
		}
		delete(g.records, oldestKey)
	}
}

// BruteForceMiddleware rejects requests from locked-out clients.
func BruteForceMiddleware(guard *BruteForceGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if guard.IsBlocked(c.ClientIP()) {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many failed authentication attempts")
			return
		}

		c.Next()
	}
}

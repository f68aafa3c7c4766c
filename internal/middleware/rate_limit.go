package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is the default rate limit per minute
	DefaultRateLimit = 120
	// DefaultBurstSize is the default burst size
	DefaultBurstSize = 20
	// CleanupInterval is the interval for cleaning up stale limiters
	CleanupInterval = 5 * time.Minute
	// LimiterTTL is the time-to-live for inactive limiters
	LimiterTTL = 10 * time.Minute
)

// RateLimiter manages per-workspace rate limiting
type RateLimiter struct {
	limiters      map[int32]*limiterEntry
	mu            sync.Mutex
	perMinute     int
	ratePerSecond float64
	burstSize     int
	stopCh        chan struct{}
	stopOnce      sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new RateLimiter with default settings
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

// NewRateLimiterWithConfig creates a RateLimiter with custom configuration.
// Non-positive values fall back to the defaults.
func NewRateLimiterWithConfig(requestsPerMinute int, burstSize int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRateLimit
	}
	if burstSize <= 0 {
		burstSize = DefaultBurstSize
	}

	rl := &RateLimiter{
		limiters:      make(map[int32]*limiterEntry),
		perMinute:     requestsPerMinute,
		ratePerSecond: float64(requestsPerMinute) / 60.0,
		burstSize:     burstSize,
		stopCh:        make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Allow checks if a request from the given workspace is allowed
func (r *RateLimiter) Allow(workspaceID int32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.entry(workspaceID).limiter.Allow()
}

// State returns the remaining tokens and when the bucket will be full again
func (r *RateLimiter) State(workspaceID int32) (remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.limiters[workspaceID]
	if !exists {
		return r.burstSize, time.Now()
	}

	tokens := int(entry.limiter.Tokens())
	if tokens < 0 {
		tokens = 0
	}

	missing := float64(r.burstSize) - entry.limiter.Tokens()
	resetDuration := time.Duration(missing / r.ratePerSecond * float64(time.Second))
	return tokens, time.Now().Add(resetDuration)
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// entry returns the limiter for a workspace, creating it on first use.
// Callers must hold r.mu.
func (r *RateLimiter) entry(workspaceID int32) *limiterEntry {
	e, exists := r.limiters[workspaceID]
	if !exists {
		e = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(r.ratePerSecond), r.burstSize),
		}
		r.limiters[workspaceID] = e
	}
	e.lastSeen = time.Now()
	return e
}

// cleanup periodically removes stale limiters to prevent memory leaks
func (r *RateLimiter) cleanup() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictStale(time.Now())
		case <-r.stopCh:
			return
		}
	}
}

func (r *RateLimiter) evictStale(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for workspaceID, e := range r.limiters {
		if now.Sub(e.lastSeen) > LimiterTTL {
			delete(r.limiters, workspaceID)
			log.Debug().Int32("workspace_id", workspaceID).Msg("Cleaned up stale rate limiter")
		}
	}
}

// RateLimitMiddleware returns an Echo middleware that limits requests per
// workspace. It must run after authentication; requests without a workspace
// pass through.
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			workspaceID := GetWorkspaceID(c)
			if workspaceID == 0 {
				return next(c)
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))

			if !rl.Allow(workspaceID) {
				_, resetTime := rl.State(workspaceID)
				retryAfter := int(time.Until(resetTime).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}

				header.Set("X-RateLimit-Remaining", "0")
				header.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
				header.Set("Retry-After", strconv.Itoa(retryAfter))

				log.Warn().
					Int32("workspace_id", workspaceID).
					Int("retry_after", retryAfter).
					Msg("Rate limit exceeded")

				return rateLimitError(c, retryAfter)
			}

			remaining, resetTime := rl.State(workspaceID)
			header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			return next(c)
		}
	}
}

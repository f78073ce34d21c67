package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"golang.org/x/time/rate"
)

const limiterTTL = 10 * time.Minute

type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per authenticated caller.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*callerLimiter
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter allows perMinute requests per caller, with the full minute's
// worth available as burst.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters: make(map[uuid.UUID]*callerLimiter),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(caller uuid.UUID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	l, ok := rl.limiters[caller]
	if !ok {
		l = &callerLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[caller] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for id, l := range rl.limiters {
		if now.Sub(l.lastSeen) > limiterTTL {
			delete(rl.limiters, id)
		}
	}
}

// Run evicts idle callers until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(limiterTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// Middleware must run after Auth.
func (rl *RateLimiter) Middleware() drift.HandlerFunc {
	return func(c *drift.Context) {
		if !rl.Allow(GetUserID(c)) {
			c.Response.Header().Set("Retry-After", "60")
			_ = c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"sellerconnect/pkg/clock"
	"sellerconnect/pkg/errors"
	"sellerconnect/pkg/logger"
	"sellerconnect/pkg/response"
)

// RateLimiter is a token bucket per signed-in subject, or per client address
// for anonymous callers, guarding the high-volume telemetry endpoints. The
// deduper drops identical events; this caps the distinct ones.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
	clock    clock.Clock
}

type visitor struct {
	tokens   float64
	lastSeen time.Time
}

func NewRateLimiter(rate int, window time.Duration, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.New()
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		clock:    clk,
	}
}

// Allow takes a token for key and reports how long to wait when none is left.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{tokens: float64(rl.rate), lastSeen: now}
		rl.visitors[key] = v
	}

	refill := now.Sub(v.lastSeen).Seconds() / rl.window.Seconds() * float64(rl.rate)
	v.tokens += refill
	if v.tokens > float64(rl.rate) {
		v.tokens = float64(rl.rate)
	}
	v.lastSeen = now

	if v.tokens < 1 {
		perToken := rl.window / time.Duration(rl.rate)
		wait := time.Duration((1 - v.tokens) * float64(perToken))
		return false, wait
	}
	v.tokens--
	return true, 0
}

func (rl *RateLimiter) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if rl.rate <= 0 {
			return next(c)
		}

		// Anonymous ids are client-chosen and free to rotate, so those
		// callers share a bucket per address.
		key, _ := c.Get("subject").(string)
		if anonymous, _ := c.Get("anonymous").(bool); anonymous || key == "" {
			key = "ip:" + c.RealIP()
		}

		allowed, wait := rl.Allow(key)
		if !allowed {
			logger.Warn("Rate limit hit for %s on %s", key, c.Path())
			c.Response().Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			return response.Error(c, errors.New(errors.CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests, nil))
		}
		return next(c)
	}
}

// StartCleanupRoutine forgets visitors idle for longer than idle.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.prune(idle)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (rl *RateLimiter) prune(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(rl.visitors, key)
		}
	}
}

package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"carcare/internal/config"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// Clients idle this long are forgotten. A limiter idle past its refill time is
// full again, so dropping it changes nothing for the client.
const minIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

type rateLimiter struct {
	limiters  sync.Map
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
}

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	perMinute := cfg.PerMinute
	if perMinute <= 0 {
		perMinute = 100
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = perMinute
	}

	interval := time.Minute / time.Duration(perMinute)
	ttl := interval * time.Duration(burst)
	if ttl < minIdleTTL {
		ttl = minIdleTTL
	}

	l := &rateLimiter{
		limit:   rate.Every(interval),
		burst:   burst,
		idleTTL: ttl,
		now:     time.Now,
	}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now()
	l.sweep(now)

	if v, ok := l.limiters.Load(key); ok {
		if vis, ok := v.(*visitor); ok {
			vis.lastSeen.Store(now.UnixNano())
			return vis.limiter
		}
	}

	vis := &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
	vis.lastSeen.Store(now.UnixNano())
	actual, loaded := l.limiters.LoadOrStore(key, vis)
	if loaded {
		if actualVis, ok := actual.(*visitor); ok {
			actualVis.lastSeen.Store(now.UnixNano())
			return actualVis.limiter
		}
	}
	return vis.limiter
}

// sweep drops idle clients at most once per idleTTL.
func (l *rateLimiter) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL) {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(key, value interface{}) bool {
		if vis, ok := value.(*visitor); ok && vis.lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

func (l *rateLimiter) size() int {
	n := 0
	l.limiters.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// RateLimit rejects clients that exceed the per-IP budget with 429.
func RateLimit(cfg config.RateLimitConfig) fiber.Handler {
	limiter := newRateLimiter(cfg)
	return func(c *fiber.Ctx) error {
		if !limiter.getLimiter(c.IP()).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests, please try again later",
			})
		}
		return c.Next()
	}
}

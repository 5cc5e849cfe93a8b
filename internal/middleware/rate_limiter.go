package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"stockportal/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter ─────────────────────────────────────────────────────

type windowEntry struct {
	count     int
	windowEnd time.Time
}

// windowLimiter counts requests per key inside a fixed window. Expired keys
// are swept lazily every purgeInterval.
type windowLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	entries   map[string]*windowEntry
	lastPurge time.Time
	now       func() time.Time
}

const purgeInterval = 5 * time.Minute

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// allow records one hit for key and reports whether it is within the limit,
// together with the time the current window ends.
func (l *windowLimiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) >= purgeInterval {
		l.purge(now)
	}

	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

// must be called under lock
func (l *windowLimiter) purge(now time.Time) {
	purged := 0
	for key, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, key)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter entries purged")
	}
}

func limitHandler(l *windowLimiter, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			retry := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts per client IP to limit per minute.
func LoginRateLimiter(limit int) gin.HandlerFunc {
	return limitHandler(newWindowLimiter(limit, time.Minute), "Too many login attempts. Try again in a minute.")
}

// RateLimiter limits every request per client IP to limit per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return limitHandler(newWindowLimiter(limit, window), "Too many requests. Try again shortly.")
}

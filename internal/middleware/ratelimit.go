package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
)

// idleTTL is how long a user's bucket survives without requests. It is well
// past the time a drained bucket needs to refill.
const idleTTL = 10 * time.Minute

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// PerUserLimiter hands out one token bucket per authenticated user.
type PerUserLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*userLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewPerUserLimiter(perMinute int) *PerUserLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &PerUserLimiter{
		limiters: make(map[string]*userLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(1, perMinute/6),
		now:      time.Now,
	}
}

func (l *PerUserLimiter) limiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= idleTTL {
		l.evictIdle(now)
		l.lastSweep = now
	}

	ul, ok := l.limiters[userID]
	if !ok {
		ul = &userLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = ul
	}
	ul.lastSeen = now
	return ul.lim
}

// Cleanup drops buckets that have been idle for longer than idleTTL.
func (l *PerUserLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evictIdle(l.now())
}

func (l *PerUserLimiter) evictIdle(now time.Time) {
	for id, ul := range l.limiters {
		if now.Sub(ul.lastSeen) > idleTTL {
			delete(l.limiters, id)
		}
	}
}

// Len is the number of users currently tracked.
func (l *PerUserLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *PerUserLimiter) Allow(userID string) bool {
	return l.limiter(userID).Allow()
}

// Middleware must run after AuthMiddleware.
func (l *PerUserLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.GetString(ContextUserID)) {
			httperr.Write(c, http.StatusTooManyRequests, "rate_limited", "Too many attempts, slow down.")
			c.Abort()
			return
		}
		c.Next()
	}
}

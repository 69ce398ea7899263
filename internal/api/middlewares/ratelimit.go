package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"voting-api/internal/api/models"
)

// RateLimiter is a per-client token bucket. Each client may spend up to
// burst requests at once and regains rate tokens per minute.
type RateLimiter struct {
	visitors  map[string]*Visitor
	mutex     sync.Mutex
	rate      float64 // tokens per second
	burst     float64
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// Visitor tracks one client's bucket
type Visitor struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per minute
// with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst < perMinute {
		burst = perMinute
	}
	return &RateLimiter{
		visitors: make(map[string]*Visitor),
		rate:     float64(perMinute) / 60,
		burst:    float64(burst),
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// RateLimit middleware rejects clients that exhausted their bucket
func RateLimit(perMinute, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(perMinute, burst)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			abortWith(c, http.StatusTooManyRequests, models.ErrCodeRateLimited,
				"Rate limit exceeded. Please try again later.")
			return
		}
		c.Next()
	}
}

// Allow spends one token for the client, if available
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	rl.sweep(now)

	visitor, exists := rl.visitors[ip]
	if !exists {
		visitor = &Visitor{tokens: rl.burst, lastSeen: now}
		rl.visitors[ip] = visitor
	} else {
		elapsed := now.Sub(visitor.lastSeen).Seconds()
		visitor.tokens += elapsed * rl.rate
		if visitor.tokens > rl.burst {
			visitor.tokens = rl.burst
		}
		visitor.lastSeen = now
	}

	if visitor.tokens < 1 {
		return false
	}
	visitor.tokens--
	return true
}

// sweep drops idle visitors at most once per TTL; callers hold the mutex
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}
	rl.lastSweep = now
	for ip, visitor := range rl.visitors {
		if now.Sub(visitor.lastSeen) > rl.idleTTL {
			delete(rl.visitors, ip)
		}
	}
}

package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/utils"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		burst:   burst,
		ttl:     10 * time.Minute,
		clients: make(map[string]*client),
	}
}

// NewStrictRateLimiter is the tighter limiter for login/register.
func NewStrictRateLimiter(perMinute int) gin.HandlerFunc {
	return NewRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute).RateLimit()
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cl, ok := rl.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now

	// buang client yang sudah lama tidak aktif
	for k, v := range rl.clients {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.clients, k)
		}
	}

	return cl.limiter.Allow()
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.allow(ip) {
			utils.InfoLogger.Printf("Rate limit exceeded for %s on %s", ip, c.Request.URL.Path)
			utils.RespondErrorKind(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, please slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}

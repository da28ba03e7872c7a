package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-presence/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL bounds how long an unused key keeps its bucket.
const limiterIdleTTL = 10 * time.Minute

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter hands out one token bucket per key (client IP or
// employee id) and forgets keys that stay idle.
type KeyedRateLimiter struct {
	mu        sync.Mutex
	keys      map[string]*keyedLimiter
	r         rate.Limit // jumlah request per detik
	b         int        // burst (kapasitas kantong)
	now       func() time.Time
	lastSweep time.Time
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		keys: make(map[string]*keyedLimiter),
		r:    r,
		b:    b,
		now:  time.Now,
	}
}

func (k *KeyedRateLimiter) Limiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) > limiterIdleTTL {
		for key, entry := range k.keys {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(k.keys, key)
			}
		}
		k.lastSweep = now
	}

	entry, ok := k.keys[key]
	if !ok {
		entry = &keyedLimiter{limiter: rate.NewLimiter(k.r, k.b)}
		k.keys[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Len reports how many keys currently hold a bucket.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.keys)
}

func tooManyRequests(c *gin.Context, r rate.Limit, message string) {
	if r > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(1/float64(r)))))
	}
	response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", message, nil)
	c.Abort()
}

func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.Limiter(c.ClientIP()).Allow() {
			tooManyRequests(c, r, "Too many requests from this IP")
			return
		}
		c.Next()
	}
}

// RateLimitByUser: r = request per detik, b = burst. Keyed by employee id.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		employeeID := c.GetString("employee_id")
		if employeeID == "" {
			c.Next() // belum login, biarkan AuthMiddleware yang menolak
			return
		}
		if !limiter.Limiter(employeeID).Allow() {
			tooManyRequests(c, r, "Too many requests from this user")
			return
		}
		c.Next()
	}
}

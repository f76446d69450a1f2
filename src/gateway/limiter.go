package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Token bucket per client IP
type IPRateLimiter struct {
	mtx      sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
	}
}

func (self *IPRateLimiter) Allow(ip string) bool {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	v, ok := self.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(self.limit, self.burst)}
		self.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Forgets clients not seen for the given time
func (self *IPRateLimiter) Cleanup(idle time.Duration) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	for ip, v := range self.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(self.visitors, ip)
		}
	}
}

func (self *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !self.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": http.StatusTooManyRequests,
				"error":  "too many requests",
			})
			return
		}
		c.Next()
	}
}

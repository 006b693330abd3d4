package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const visitorIdleTimeout = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorRateLimiter limits the requests of every client ip separately
type visitorRateLimiter struct {
	sync.Mutex
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
}

func newVisitorRateLimiter(limit rate.Limit, burst int) *visitorRateLimiter {
	return &visitorRateLimiter{
		limit:    limit,
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

func (l *visitorRateLimiter) allow(ip string) bool {
	l.Lock()
	defer l.Unlock()

	current := time.Now()
	for k, v := range l.visitors {
		if current.Sub(v.lastSeen) > visitorIdleTimeout {
			delete(l.visitors, k)
		}
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = current
	return v.limiter.AllowN(current, 1)
}

func (l *visitorRateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			abortWithEncoding(c, http.StatusTooManyRequests, errorTooManyRequests)
			return
		}
		c.Next()
	}
}

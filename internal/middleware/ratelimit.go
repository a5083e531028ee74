package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/requestdata"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps one token bucket per user. The map is shared by
// concurrent requests for the same user, so access is mutex-guarded; idle
// entries are evicted by a background janitor.
type RateLimitMiddleware struct {
	log      *logger.Logger
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimitMiddleware allows maxRequests per window per user.
func NewRateLimitMiddleware(log *logger.Logger, maxRequests int, window time.Duration) *RateLimitMiddleware {
	if maxRequests <= 0 {
		maxRequests = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimitMiddleware{
		log:      log.With("middleware", "RateLimitMiddleware"),
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(window / time.Duration(maxRequests)),
		burst:    maxRequests,
		idleTTL:  10 * window,
		stop:     make(chan struct{}),
	}
	go rl.janitor(window)
	return rl
}

func (rl *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
			key = rd.UserID.String()
		}
		if !rl.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": "error",
				"error":  "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimitMiddleware) Allow(key string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimitMiddleware) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, entry := range rl.limiters {
				if time.Since(entry.lastSeen) > rl.idleTTL {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/metrics"
	"golang.org/x/time/rate"
)

// RateLimitConfig sets the token bucket given to every actor.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	IdleTimeout       time.Duration
}

// RateLimiter throttles mutating requests per authenticated actor. It must
// run after the auth adapter; requests without an actor are keyed by remote
// address.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	logger   logger.Logger
	metrics  *metrics.Metrics
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates the limiter and starts evicting idle actors.
func NewRateLimiter(cfg RateLimitConfig, logger logger.Logger, m *metrics.Metrics) *RateLimiter {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 3 * time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		idle:     cfg.IdleTimeout,
		logger:   logger,
		metrics:  m,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go rl.evictIdle()
	return rl
}

// Stop ends the eviction loop. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
	<-rl.stopped
}

// Middleware rejects requests over the actor's budget with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if userID, ok := GetUserID(r.Context()); ok {
			key = userID.String()
		}

		limiter := rl.limiter(key)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))

		if !limiter.Allow() {
			route := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = r.Method + " " + rc.RoutePattern()
			}
			rl.logger.Warn(r.Context(), "rate limit exceeded",
				"actor", key,
				"path", r.URL.Path,
			)
			rl.metrics.RateLimited(route)

			w.Header().Set("Retry-After", "1")
			WriteJSONError(w, ErrorCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()
	defer close(rl.stopped)

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for key, v := range rl.visitors {
				if time.Since(v.lastSeen) > rl.idle {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"resumehost/internal/logging"
)

// LimiterManager keeps one token bucket per client key.
type LimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
	logger   *slog.Logger
}

// NewLimiterManager allows requestsPerMin per key with the given burst.
// Idle keys are evicted every cleanupInterval; pass 0 to disable the
// background sweep.
func NewLimiterManager(requestsPerMin, burst int, cleanupInterval time.Duration, logger *slog.Logger) *LimiterManager {
	if logger == nil {
		logger = logging.Discard()
	}
	m := &LimiterManager{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    max(burst, 1),
		now:      time.Now,
		done:     make(chan struct{}),
		logger:   logger,
	}
	if cleanupInterval > 0 {
		go m.cleanupRoutine(cleanupInterval)
	}
	return m
}

// Allow consumes a token for key if one is available.
func (m *LimiterManager) Allow(key string) bool {
	m.mu.Lock()
	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = l
	}
	m.lastSeen[key] = m.now()
	m.mu.Unlock()
	return l.Allow()
}

// Len is the number of tracked keys.
func (m *LimiterManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}

// Close stops the cleanup goroutine.
func (m *LimiterManager) Close() {
	m.once.Do(func() { close(m.done) })
}

func (m *LimiterManager) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.evict(interval)
		case <-m.done:
			return
		}
	}
}

func (m *LimiterManager) evict(idle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, seen := range m.lastSeen {
		if now.Sub(seen) > idle {
			delete(m.limiters, key)
			delete(m.lastSeen, key)
		}
	}
	m.logger.Debug("rate_limiter_cleanup", "component", "ratelimit", "remaining", len(m.limiters))
}

// RateLimit rejects requests over the per-IP budget with 429.
func RateLimit(m *LimiterManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.Allow(c.IP()) {
			return c.Next()
		}
		m.logger.Info("rate_limit_exceeded",
			"component", "ratelimit",
			"client_ip", c.IP(),
			"path", c.Path())
		return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
	}
}

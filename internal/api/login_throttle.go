package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// loginThrottle slows password guessing by counting recent login failures
// per client key. The limit and window are fixed at construction so every
// call site shares one policy.
type loginThrottle struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	failures map[string][]time.Time
}

func newLoginThrottle(limit int, window time.Duration) *loginThrottle {
	return &loginThrottle{
		limit:    limit,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

// blocked reports whether the key has reached the failure limit inside the
// window. It prunes stale failures as a side effect.
func (throttle *loginThrottle) blocked(key string, now time.Time) bool {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	return len(throttle.pruneLocked(key, now)) >= throttle.limit
}

// fail records one failed attempt at now.
func (throttle *loginThrottle) fail(key string, now time.Time) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	throttle.failures[key] = append(throttle.pruneLocked(key, now), now)
}

// clear forgets the key entirely, called after a successful login.
func (throttle *loginThrottle) clear(key string) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	delete(throttle.failures, key)
}

func (throttle *loginThrottle) pruneLocked(key string, now time.Time) []time.Time {
	recorded := throttle.failures[key]
	if len(recorded) == 0 {
		return nil
	}

	threshold := now.Add(-throttle.window)
	recent := recorded[:0]
	for _, at := range recorded {
		if at.After(threshold) {
			recent = append(recent, at)
		}
	}

	if len(recent) == 0 {
		delete(throttle.failures, key)
		return nil
	}
	throttle.failures[key] = recent
	return recent
}

// throttleKey identifies the client by IP. Fiber already resolves proxy
// headers when trusted proxies are configured on the app.
func throttleKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}

package game

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClickLimiter meters the passive-income click per remote address: 15 clicks
// per second with a burst of 15, matching the website's expectations.
type ClickLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewClickLimiter() *ClickLimiter {
	return &ClickLimiter{limiters: make(map[string]*rate.Limiter)}
}

// Allow reports whether a click from addr may proceed. When blocked it returns
// how long the caller should wait before retrying.
func (cl *ClickLimiter) Allow(addr string) (time.Duration, bool) {
	cl.mu.Lock()
	limiter, ok := cl.limiters[addr]
	if !ok {
		limiter = rate.NewLimiter(15, 15)
		cl.limiters[addr] = limiter
	}
	cl.mu.Unlock()

	reservation := limiter.Reserve()
	delay := reservation.Delay()
	if delay > 0 {
		reservation.Cancel()
		return delay, false
	}
	return 0, true
}

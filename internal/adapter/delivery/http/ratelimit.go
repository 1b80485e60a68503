package http

import (
	"time"

	"github.com/go-chi/httprate"
)

// fixedWindowCounter makes httprate count requests per fixed window. The
// limiter blends in the previous window's count to approximate a sliding
// window; reporting it as zero leaves only the current window's count.
type fixedWindowCounter struct {
	httprate.LimitCounter
}

func newFixedWindowCounter(window time.Duration) *fixedWindowCounter {
	return &fixedWindowCounter{LimitCounter: httprate.NewLocalLimitCounter(window)}
}

func (c *fixedWindowCounter) Get(key string, currentWindow, previousWindow time.Time) (int, int, error) {
	curr, _, err := c.LimitCounter.Get(key, currentWindow, previousWindow)
	return curr, 0, err
}

package ratelimit

import (
	"sync"
	"time"

	"davomat/internal/platform/clock"
)

// MinuteCounter counts messages per key in a window that restarts one minute
// after its first message. It is advisory: Allow never blocks.
type MinuteCounter struct {
	mu     sync.Mutex
	clock  clock.Clock
	limit  int
	window time.Duration
	counts map[string]*window
}

type window struct {
	count     int
	lastReset time.Time
}

func NewMinuteCounter(clk clock.Clock, limit int) *MinuteCounter {
	return &MinuteCounter{clock: clk, limit: limit, window: time.Minute, counts: map[string]*window{}}
}

// Allow records one message for key and reports whether it is within the limit.
func (m *MinuteCounter) Allow(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	w, ok := m.counts[key]
	if !ok {
		w = &window{lastReset: now}
		m.counts[key] = w
	}
	if now.Sub(w.lastReset) > m.window {
		w.count = 0
		w.lastReset = now
	}
	w.count++
	return w.count <= m.limit
}

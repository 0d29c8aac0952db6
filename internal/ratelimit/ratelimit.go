// Package ratelimit implements the fixed-window message rate limiter.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether an action keyed by string may proceed.
type Limiter interface {
	// Allow consumes one slot for key and reports whether the action is
	// within the limit.
	Allow(key string) bool
}

type window struct {
	count int
	start time.Time
}

// FixedWindow allows at most max actions per key within a window measured
// from the first action of the window. The window is approximate: a burst
// straddling a window boundary is not smoothed. State expires per key when
// its window ages out, so a key's allowance is never doubled by a global
// reset landing mid-burst.
type FixedWindow struct {
	max    int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

var _ Limiter = (*FixedWindow)(nil)

// NewFixedWindow creates a limiter allowing max actions per period per key.
func NewFixedWindow(max int, period time.Duration) *FixedWindow {
	return &FixedWindow{
		max:     max,
		period:  period,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow consumes one slot for key.
func (l *FixedWindow) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		// First action of a fresh window.
		l.windows[key] = &window{count: 1, start: now}
		return true
	}

	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// Sweep evicts keys whose window has aged out, bounding memory for keys
// that went quiet. Safe to call from a background ticker.
func (l *FixedWindow) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.period {
			delete(l.windows, key)
		}
	}
}

// StartSweeping runs Sweep every period until stop is closed.
func (l *FixedWindow) StartSweeping(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(l.period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

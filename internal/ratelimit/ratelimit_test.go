package ratelimit

import (
	"testing"
	"time"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(max int, period time.Duration) (*FixedWindow, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewFixedWindow(max, period)
	l.now = clock.now
	return l, clock
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := newTestLimiter(20, time.Minute)

	for i := 0; i < 20; i++ {
		if !l.Allow("alice-group1") {
			t.Fatalf("message %d should be allowed", i+1)
		}
	}
}

func TestRejectOverLimit(t *testing.T) {
	l, clock := newTestLimiter(20, time.Minute)

	// 21 messages within 10 seconds: the 21st must fail.
	for i := 0; i < 20; i++ {
		if !l.Allow("alice-group1") {
			t.Fatalf("message %d should be allowed", i+1)
		}
		clock.advance(500 * time.Millisecond)
	}
	if l.Allow("alice-group1") {
		t.Fatal("21st message within the window should be rejected")
	}
}

func TestWindowResetsAfterPeriod(t *testing.T) {
	l, clock := newTestLimiter(20, time.Minute)

	for i := 0; i < 20; i++ {
		l.Allow("alice-group1")
	}
	if l.Allow("alice-group1") {
		t.Fatal("expected rejection at limit")
	}

	// Window is measured from the first message; once a minute has
	// passed since then, sending succeeds again.
	clock.advance(time.Minute)
	if !l.Allow("alice-group1") {
		t.Fatal("expected allowance after window elapsed")
	}
}

func TestWindowStartsAtFirstMessage(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	if !l.Allow("k") {
		t.Fatal("first message should be allowed")
	}
	clock.advance(50 * time.Second)
	if !l.Allow("k") {
		t.Fatal("second message should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("third message within window should be rejected")
	}

	// 10 more seconds puts us a full minute past the first message.
	clock.advance(10 * time.Second)
	if !l.Allow("k") {
		t.Fatal("message after window elapsed should be allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("alice-group1") {
		t.Fatal("alice in group1 should be allowed")
	}
	if l.Allow("alice-group1") {
		t.Fatal("alice in group1 should be limited")
	}
	if !l.Allow("alice-group2") {
		t.Fatal("alice in group2 has its own window")
	}
	if !l.Allow("bob-group1") {
		t.Fatal("bob in group1 has its own window")
	}
}

func TestSweepEvictsOnlyExpiredKeys(t *testing.T) {
	l, clock := newTestLimiter(5, time.Minute)

	l.Allow("old")
	clock.advance(61 * time.Second)
	l.Allow("fresh")
	l.Allow("fresh")

	l.Sweep()

	l.mu.Lock()
	_, oldExists := l.windows["old"]
	fresh, freshExists := l.windows["fresh"]
	l.mu.Unlock()

	if oldExists {
		t.Error("expired key should be evicted")
	}
	if !freshExists {
		t.Fatal("active key should survive the sweep")
	}
	if fresh.count != 2 {
		t.Errorf("active window count: expected 2, got %d", fresh.count)
	}
}

func TestConcurrentAllow(t *testing.T) {
	l := NewFixedWindow(100, time.Minute)

	done := make(chan int)
	for g := 0; g < 4; g++ {
		go func() {
			allowed := 0
			for i := 0; i < 50; i++ {
				if l.Allow("shared") {
					allowed++
				}
			}
			done <- allowed
		}()
	}

	total := 0
	for g := 0; g < 4; g++ {
		total += <-done
	}

	if total != 100 {
		t.Errorf("expected exactly 100 of 200 concurrent sends allowed, got %d", total)
	}
}

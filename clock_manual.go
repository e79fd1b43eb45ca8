package main

import "sync"

// ManualClock is a virtual time base. Time only moves when SleepMicros,
// Yield or Advance is called, and timers fire synchronously on the
// goroutine that moves time, in deadline order.
//
// It drives the -simulate mode and every timing test in this package.
type ManualClock struct {
	mu        sync.Mutex
	now       uint64
	yieldStep uint64
	nextID    uint64
	timers    []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	id       uint64
	deadline uint64
	period   uint64 // 0 for one-shot timers
	fn       func()
	dead     bool
}

// NewManualClock returns a clock reading start, advancing yieldStep
// microseconds on every Yield.
func NewManualClock(start, yieldStep uint64) *ManualClock {
	if yieldStep == 0 {
		yieldStep = 1
	}
	return &ManualClock{now: start, yieldStep: yieldStep}
}

func (c *ManualClock) NowMicros() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) SleepMicros(us uint64) {
	c.Advance(us)
}

func (c *ManualClock) Yield() {
	c.mu.Lock()
	step := c.yieldStep
	c.mu.Unlock()
	c.Advance(step)
}

// SetYieldStep changes how far each Yield moves time.
func (c *ManualClock) SetYieldStep(us uint64) {
	if us == 0 {
		us = 1
	}
	c.mu.Lock()
	c.yieldStep = us
	c.mu.Unlock()
}

func (c *ManualClock) Every(periodMicros uint64, fn func()) PeriodicTimer {
	if periodMicros == 0 {
		periodMicros = 1
	}
	return c.schedule(periodMicros, periodMicros, fn)
}

func (c *ManualClock) AfterMicros(us uint64, fn func()) PeriodicTimer {
	return c.schedule(us, 0, fn)
}

func (c *ManualClock) schedule(delay, period uint64, fn func()) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t := &manualTimer{
		clock:    c,
		id:       c.nextID,
		deadline: c.now + delay,
		period:   period,
		fn:       fn,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by us microseconds, firing every timer whose
// deadline falls inside the interval. Timer callbacks observe NowMicros equal
// to their own deadline.
func (c *ManualClock) Advance(us uint64) {
	c.mu.Lock()
	target := c.now + us
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.earliestLocked(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = t.deadline
		if t.period > 0 {
			t.deadline += t.period
		} else {
			t.dead = true
			c.removeLocked(t)
		}
		fn := t.fn
		c.mu.Unlock()

		fn()
	}
}

// PendingTimers reports how many timers are still registered.
func (c *ManualClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *ManualClock) earliestLocked(target uint64) *manualTimer {
	var best *manualTimer
	for _, t := range c.timers {
		if t.dead || t.deadline > target {
			continue
		}
		if best == nil || t.deadline < best.deadline || (t.deadline == best.deadline && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (c *ManualClock) removeLocked(t *manualTimer) {
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

func (t *manualTimer) Cancel() {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.dead {
		return
	}
	t.dead = true
	c.removeLocked(t)
}

package main

import "sync/atomic"

// ButtonEvent is a detected button edge, stamped with the board clock.
type ButtonEvent struct {
	At uint64
}

// ResponseInput reports whether the subject is pressing the response button.
type ResponseInput interface {
	Pressed() bool
}

// ResponseButton samples an active-low line. There is no debouncing: a
// single low read counts as a press, so contact bounce can register early.
type ResponseButton struct {
	line InputLine
}

func NewResponseButton(line InputLine) *ResponseButton {
	return &ResponseButton{line: line}
}

func (b *ResponseButton) Pressed() bool {
	return !b.line.Level()
}

// ResetSignal is the back-to-menu button. The edge handler only publishes
// into a single-slot mailbox; the main loop drains it. A second press before
// the drain overwrites the first, which is fine since both mean the same.
type ResetSignal struct {
	clock Clock
	slot  atomic.Pointer[ButtonEvent]
	fired atomic.Uint64
}

func NewResetSignal(clock Clock) *ResetSignal {
	return &ResetSignal{clock: clock}
}

// Attach registers the falling-edge handler for pin on bank.
func (r *ResetSignal) Attach(bank *PinBank, pin PinID) {
	bank.OnFallingEdge(pin, func(PinID) {
		r.Fire()
	})
}

// Fire publishes a reset event. Safe to call from any goroutine.
func (r *ResetSignal) Fire() {
	r.slot.Store(&ButtonEvent{At: r.clock.NowMicros()})
	r.fired.Add(1)
}

// Pending reports whether an undrained reset exists, without consuming it.
func (r *ResetSignal) Pending() bool {
	return r.slot.Load() != nil
}

// Take drains the mailbox.
func (r *ResetSignal) Take() (ButtonEvent, bool) {
	ev := r.slot.Swap(nil)
	if ev == nil {
		return ButtonEvent{}, false
	}
	return *ev, true
}

// FireCount returns how many edges have been seen.
func (r *ResetSignal) FireCount() uint64 {
	return r.fired.Load()
}

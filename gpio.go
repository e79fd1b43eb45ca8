package main

import (
	"sync"
	"sync/atomic"
)

// PinID is a GPIO number on the board header.
type PinID int

const (
	PIN_BUTTON_A PinID = 5  // reset / back to menu, falling-edge IRQ
	PIN_BUTTON_B PinID = 6  // response button, level sampled
	PIN_STRIP    PinID = 7  // light strip data line
	PIN_STICK_SW PinID = 22 // joystick push switch
	PIN_BUZZER   PinID = 21 // buzzer output line
)

const (
	ADC_MAX    = 4095
	ADC_CENTER = 2048
)

// InputLine is a readable digital level.
type InputLine interface {
	Level() bool
}

// OutputLine is a writable digital level.
type OutputLine interface {
	Set(level bool)
}

// PinBank models the board GPIO block: per-pin levels, pull-ups and
// falling-edge interrupt callbacks. Handlers run on the goroutine that
// changed the level, outside the bank lock, like an IRQ preempting
// whatever the main loop is doing.
type PinBank struct {
	mu       sync.Mutex
	levels   map[PinID]bool
	pullUp   map[PinID]bool
	handlers map[PinID][]func(PinID)
}

func NewPinBank() *PinBank {
	return &PinBank{
		levels:   make(map[PinID]bool),
		pullUp:   make(map[PinID]bool),
		handlers: make(map[PinID][]func(PinID)),
	}
}

// PullUp configures pin as an input with pull-up; the idle level is high.
func (b *PinBank) PullUp(pin PinID) {
	b.mu.Lock()
	b.pullUp[pin] = true
	b.levels[pin] = true
	b.mu.Unlock()
}

// Level returns the current level. Unconfigured pins read low.
func (b *PinBank) Level(pin PinID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levels[pin]
}

// SetLevel drives pin to level and dispatches falling-edge handlers on a
// high-to-low change.
func (b *PinBank) SetLevel(pin PinID, level bool) {
	b.mu.Lock()
	prev := b.levels[pin]
	b.levels[pin] = level
	var fire []func(PinID)
	if prev && !level {
		fire = append(fire, b.handlers[pin]...)
	}
	b.mu.Unlock()

	for _, fn := range fire {
		fn(pin)
	}
}

// Release lets a pulled-up pin float back to its idle level.
func (b *PinBank) Release(pin PinID) {
	b.mu.Lock()
	idle := b.pullUp[pin]
	b.mu.Unlock()
	b.SetLevel(pin, idle)
}

// OnFallingEdge registers fn to run on every high-to-low transition of pin.
func (b *PinBank) OnFallingEdge(pin PinID, fn func(PinID)) {
	b.mu.Lock()
	b.handlers[pin] = append(b.handlers[pin], fn)
	b.mu.Unlock()
}

// Input returns a read-only view of pin.
func (b *PinBank) Input(pin PinID) InputLine {
	return pinLine{bank: b, pin: pin}
}

// Output returns a write view of pin.
func (b *PinBank) Output(pin PinID) OutputLine {
	return pinLine{bank: b, pin: pin}
}

type pinLine struct {
	bank *PinBank
	pin  PinID
}

func (l pinLine) Level() bool {
	return l.bank.Level(l.pin)
}

func (l pinLine) Set(level bool) {
	l.bank.SetLevel(l.pin, level)
}

// ADCChannel is a 12-bit analog input. Writes are clamped to [0, ADC_MAX]
// so readers never see an out-of-range sample.
type ADCChannel struct {
	value atomic.Uint32
}

func NewADCChannel() *ADCChannel {
	ch := &ADCChannel{}
	ch.value.Store(ADC_CENTER)
	return ch
}

func (ch *ADCChannel) Set(v int) {
	if v < 0 {
		v = 0
	}
	if v > ADC_MAX {
		v = ADC_MAX
	}
	ch.value.Store(uint32(v))
}

func (ch *ADCChannel) Sample() uint16 {
	return uint16(ch.value.Load())
}

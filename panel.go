package main

import (
	"context"
	"sync"
)

// Panel is a host frontend for the board: it presents the display, strip
// and buzzer and turns host input into pin and stick changes.
type Panel interface {
	// Run blocks until ctx is cancelled or the user closes the panel.
	Run(ctx context.Context) error
	Close() error
}

const (
	keyESC = 0x1B
	keyETX = 0x03 // Ctrl-C in raw mode
)

// Escape decoder states for ESC [ A..D arrow sequences.
const (
	escIdle = iota
	escSeen
	escBracket
)

// PanelInput maps host keys onto the board:
//
//	a            reset (button A), stick back to centre
//	b, space     response (button B), held for the press-hold time
//	h, left      stick fully left
//	l, right     stick fully right
//	c, up, down  stick centre
//
// Terminals deliver no key-up, so a response press is released by a timer
// and the stick stays where it was put until reset or c.
type PanelInput struct {
	board *Board
	clock Clock
	hold  uint64

	mu      sync.Mutex
	esc     int
	release PeriodicTimer
}

func NewPanelInput(board *Board, clock Clock, holdMicros uint64) *PanelInput {
	if holdMicros == 0 {
		holdMicros = PRESS_HOLD_MS * MICROS_PER_MILLI
	}
	return &PanelInput{board: board, clock: clock, hold: holdMicros}
}

// RouteHostKey handles one raw byte from the host. It reports whether the
// byte was consumed.
func (pi *PanelInput) RouteHostKey(b byte) bool {
	pi.mu.Lock()
	state := pi.esc
	pi.mu.Unlock()

	switch state {
	case escSeen:
		if b == '[' {
			pi.setEsc(escBracket)
			return true
		}
		pi.setEsc(escIdle)
	case escBracket:
		pi.setEsc(escIdle)
		switch b {
		case 'C':
			pi.board.SetStick(ADC_MAX)
		case 'D':
			pi.board.SetStick(0)
		case 'A', 'B':
			pi.board.SetStick(ADC_CENTER)
		default:
			return false
		}
		return true
	}

	switch b {
	case keyESC:
		pi.setEsc(escSeen)
	case 'a', 'A':
		// Centre first so the menu is not re-entered on the next poll.
		pi.board.SetStick(ADC_CENTER)
		pi.board.PressReset()
	case 'b', 'B', ' ':
		pi.TapResponse()
	case 'h', 'H':
		pi.board.SetStick(0)
	case 'l', 'L':
		pi.board.SetStick(ADC_MAX)
	case 'c', 'C':
		pi.board.SetStick(ADC_CENTER)
	default:
		return false
	}
	return true
}

// TapResponse presses button B and releases it after the hold time. A tap
// during a hold extends it.
func (pi *PanelInput) TapResponse() {
	pi.mu.Lock()
	prev := pi.release
	pi.release = nil
	pi.mu.Unlock()
	if prev != nil {
		prev.Cancel()
	}

	pi.board.PressResponse(true)
	t := pi.clock.AfterMicros(pi.hold, func() {
		pi.board.PressResponse(false)
	})

	pi.mu.Lock()
	pi.release = t
	pi.mu.Unlock()
}

// Close releases any held press.
func (pi *PanelInput) Close() {
	pi.mu.Lock()
	prev := pi.release
	pi.release = nil
	pi.mu.Unlock()
	if prev != nil {
		prev.Cancel()
	}
	pi.board.PressResponse(false)
}

func (pi *PanelInput) setEsc(state int) {
	pi.mu.Lock()
	pi.esc = state
	pi.mu.Unlock()
}

// light_strip.go - serial RGB light strip

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"sync"
)

const (
	STRIP_LENGTH        = 25  // 5x5 addressable matrix
	STRIP_SETTLE_MICROS = 100 // reset pulse after the last byte
	STRIP_BYTES_PER_LED = 3
)

// RGB is one addressable light. The wire order is G, R, B.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// LightStrip is the light-strip collaborator used by the visual effector.
type LightStrip interface {
	Len() int
	SetPixel(index int, r, g, b uint8)
	Clear()
	// Flush transmits the buffer and returns only after the settle time.
	Flush() error
}

// PixelStrip is an emulated serial light strip. SetPixel and Clear edit a
// back buffer; Flush serializes it into a GRB frame, latches it as what the
// strip is showing, and holds the line for the settle time.
type PixelStrip struct {
	mu      sync.Mutex
	pixels  []RGB
	latched []RGB
	frame   []byte
	frames  uint64
	clock   Clock
	settle  uint64
	sink    func(frame []byte)
}

func NewPixelStrip(length int, settleMicros uint64, clock Clock) *PixelStrip {
	return &PixelStrip{
		pixels:  make([]RGB, length),
		latched: make([]RGB, length),
		frame:   make([]byte, length*STRIP_BYTES_PER_LED),
		clock:   clock,
		settle:  settleMicros,
	}
}

// SetSink registers a receiver for every transmitted frame.
func (s *PixelStrip) SetSink(fn func(frame []byte)) {
	s.mu.Lock()
	s.sink = fn
	s.mu.Unlock()
}

func (s *PixelStrip) Len() int {
	return len(s.pixels)
}

// SetPixel ignores indices outside the strip.
func (s *PixelStrip) SetPixel(index int, r, g, b uint8) {
	if index < 0 || index >= len(s.pixels) {
		return
	}
	s.mu.Lock()
	s.pixels[index] = RGB{R: r, G: g, B: b}
	s.mu.Unlock()
}

func (s *PixelStrip) Clear() {
	s.mu.Lock()
	for i := range s.pixels {
		s.pixels[i] = RGB{}
	}
	s.mu.Unlock()
}

func (s *PixelStrip) Flush() error {
	if len(s.pixels) == 0 {
		return &BoardError{Operation: "strip flush", Details: "strip has no pixels"}
	}

	s.mu.Lock()
	for i, px := range s.pixels {
		off := i * STRIP_BYTES_PER_LED
		s.frame[off] = px.G
		s.frame[off+1] = px.R
		s.frame[off+2] = px.B
	}
	copy(s.latched, s.pixels)
	s.frames++
	sink := s.sink
	frame := append([]byte(nil), s.frame...)
	s.mu.Unlock()

	if sink != nil {
		sink(frame)
	}
	s.clock.SleepMicros(s.settle)
	return nil
}

// Latched returns the colours the strip is currently showing.
func (s *PixelStrip) Latched() []RGB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RGB(nil), s.latched...)
}

// FrameCount returns how many frames have been transmitted.
func (s *PixelStrip) FrameCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// LastFrame returns a copy of the last serialized frame.
func (s *PixelStrip) LastFrame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.frame...)
}

func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

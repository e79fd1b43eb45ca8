// effectors.go - light and buzzer stimulus outputs

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
	"sync"
	"sync/atomic"
)

const (
	BUZZER_HALF_PERIOD_MICROS = 50 // 2 x 50us => 10 kHz square wave
	BUZZER_SAMPLE_RATE        = 48000
)

// Effector is a stimulus output the scheduler switches on at onset and off
// when the trial concludes. Deactivate on an inactive effector is a no-op.
type Effector interface {
	Name() string
	Activate() error
	Deactivate() error
	Active() bool
}

// VisualEffector lights every pixel of the strip in the stimulus colour.
type VisualEffector struct {
	mu     sync.Mutex
	strip  LightStrip
	color  RGB
	active atomic.Bool
}

func NewVisualEffector(strip LightStrip, color RGB) *VisualEffector {
	return &VisualEffector{strip: strip, color: color}
}

func (e *VisualEffector) Name() string {
	return "visual"
}

func (e *VisualEffector) Activate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < e.strip.Len(); i++ {
		e.strip.SetPixel(i, e.color.R, e.color.G, e.color.B)
	}
	if err := e.strip.Flush(); err != nil {
		return err
	}
	e.active.Store(true)
	return nil
}

func (e *VisualEffector) Deactivate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active.Load() {
		return nil
	}
	e.strip.Clear()
	// The stimulus is considered off even if the flush fails; the next
	// activation rewrites the whole buffer anyway.
	e.active.Store(false)
	return e.strip.Flush()
}

func (e *VisualEffector) Active() bool {
	return e.active.Load()
}

// AudioEffector drives the buzzer line with a square wave. The toggle runs
// on a periodic timer of its own, so it keeps oscillating while the main
// loop is busy polling for a response.
type AudioEffector struct {
	mu         sync.Mutex
	line       OutputLine
	clock      Clock
	halfPeriod uint64
	timer      PeriodicTimer

	level  atomic.Bool
	active atomic.Bool
	edges  atomic.Uint64
	cycles atomic.Uint64
}

func NewAudioEffector(line OutputLine, clock Clock, halfPeriodMicros uint64) *AudioEffector {
	if halfPeriodMicros == 0 {
		halfPeriodMicros = BUZZER_HALF_PERIOD_MICROS
	}
	return &AudioEffector{line: line, clock: clock, halfPeriod: halfPeriodMicros}
}

func (e *AudioEffector) Name() string {
	return "audio"
}

func (e *AudioEffector) Activate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		return nil
	}
	e.level.Store(false)
	e.line.Set(false)
	e.active.Store(true)
	e.timer = e.clock.Every(e.halfPeriod, e.toggle)
	return nil
}

func (e *AudioEffector) toggle() {
	level := !e.level.Load()
	e.level.Store(level)
	e.line.Set(level)
	e.edges.Add(1)
	if level {
		e.cycles.Add(1)
	}
}

func (e *AudioEffector) Deactivate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer == nil {
		return nil
	}
	// Cancel waits out an in-flight toggle, so the line is guaranteed to
	// stay low after this.
	e.timer.Cancel()
	e.timer = nil
	e.level.Store(false)
	e.line.Set(false)
	e.active.Store(false)
	return nil
}

func (e *AudioEffector) Active() bool {
	return e.active.Load()
}

// Level is the instantaneous buzzer line level.
func (e *AudioEffector) Level() bool {
	return e.level.Load()
}

// Edges counts every line transition since construction.
func (e *AudioEffector) Edges() uint64 {
	return e.edges.Load()
}

// Cycles counts low-to-high transitions, i.e. completed square-wave periods.
func (e *AudioEffector) Cycles() uint64 {
	return e.cycles.Load()
}

package main

import (
	"fmt"
	"io"
	"sync"
)

const SUBJECT_POLL_MICROS = 100

// Subject decides how a simulated participant answers a stimulus: after
// latencyMs, or not at all when ok is false.
type Subject interface {
	Latency(mode Mode, trial int) (latencyMs uint64, ok bool, err error)
}

// FixedSubject always answers after the same latency. Zero never answers.
type FixedSubject struct {
	LatencyMs uint64
}

func (s FixedSubject) Latency(Mode, int) (uint64, bool, error) {
	return s.LatencyMs, s.LatencyMs > 0, nil
}

// SubjectRunner watches the stimulus outputs on a periodic timer and
// presses button B when the subject decides to. Like a person, it sees only
// the strip and the buzzer, not the scheduler.
type SubjectRunner struct {
	board   *Board
	subject Subject
	clock   Clock
	poll    uint64
	hold    uint64
	out     io.Writer

	mu      sync.Mutex
	ticker  PeriodicTimer
	press   PeriodicTimer
	release PeriodicTimer
	shown   bool
	trial   int
}

func NewSubjectRunner(board *Board, subject Subject, clock Clock, pollMicros, holdMicros uint64, out io.Writer) *SubjectRunner {
	if pollMicros == 0 {
		pollMicros = SUBJECT_POLL_MICROS
	}
	if holdMicros == 0 {
		holdMicros = PRESS_HOLD_MS * MICROS_PER_MILLI
	}
	if out == nil {
		out = io.Discard
	}
	return &SubjectRunner{
		board:   board,
		subject: subject,
		clock:   clock,
		poll:    pollMicros,
		hold:    holdMicros,
		out:     out,
	}
}

func (r *SubjectRunner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ticker == nil {
		r.ticker = r.clock.Every(r.poll, r.tick)
	}
}

// Stop cancels the watcher and any pending press, and releases the button.
func (r *SubjectRunner) Stop() {
	r.mu.Lock()
	timers := []PeriodicTimer{r.ticker, r.press, r.release}
	r.ticker, r.press, r.release = nil, nil, nil
	r.mu.Unlock()
	for _, t := range timers {
		if t != nil {
			t.Cancel()
		}
	}
	r.board.PressResponse(false)
}

// Trials returns how many stimuli the subject has seen.
func (r *SubjectRunner) Trials() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trial
}

func (r *SubjectRunner) tick() {
	mode := r.board.ActiveStimulus()
	r.mu.Lock()
	onset := mode != ModeMenu && !r.shown
	offset := mode == ModeMenu && r.shown
	r.shown = mode != ModeMenu
	if onset {
		r.trial++
	}
	trial := r.trial
	var late PeriodicTimer
	if offset {
		// The stimulus is gone; a press still pending would land in the
		// next trial's wait.
		late, r.press = r.press, nil
	}
	r.mu.Unlock()
	if late != nil {
		late.Cancel()
	}
	if !onset {
		return
	}

	latency, ok, err := r.subject.Latency(mode, trial)
	if err != nil {
		fmt.Fprintf(r.out, "subject: trial %d: %v\n", trial, err)
		return
	}
	if !ok {
		fmt.Fprintf(r.out, "subject: trial %d: no press\n", trial)
		return
	}
	t := r.clock.AfterMicros(latency*MICROS_PER_MILLI, r.pressButton)
	r.mu.Lock()
	r.press = t
	r.mu.Unlock()
}

func (r *SubjectRunner) pressButton() {
	r.board.PressResponse(true)
	t := r.clock.AfterMicros(r.hold, func() {
		r.board.PressResponse(false)
	})
	r.mu.Lock()
	r.press = nil
	r.release = t
	r.mu.Unlock()
}

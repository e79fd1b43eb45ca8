// scheduler.go - randomized-onset, bounded-window trial protocol

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
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"
)

const (
	ONSET_MIN_UNITS      = 1
	ONSET_MAX_UNITS      = 5
	ONSET_UNIT_MICROS    = 1_000_000
	RESPONSE_WINDOW_US   = 5_000_000
	ONSET_SLICE_MICROS   = 10_000 // reset is checked between slices of the onset wait
	MICROS_PER_MILLI     = 1000
	RESPONSE_WINDOW_MSEC = RESPONSE_WINDOW_US / MICROS_PER_MILLI
)

// OutcomeKind tells how a trial concluded.
type OutcomeKind int

const (
	OutcomeResponded OutcomeKind = iota
	OutcomeTimedOut
	OutcomeAborted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeResponded:
		return "responded"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeAborted:
		return "aborted"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Trial records one stimulus presentation. All times are board-clock
// microseconds. ResponseTime is meaningful only when Responded is set.
type Trial struct {
	OnsetDelay   uint64
	Window       uint64
	StartTime    uint64
	ResponseTime uint64
	Responded    bool
}

// Outcome is the result of RunTrial. Elapsed is set only for
// OutcomeResponded and never exceeds the trial window.
type Outcome struct {
	Kind    OutcomeKind
	Mode    Mode
	Trial   Trial
	Elapsed uint64
	Err     error
}

// ElapsedMillis is Elapsed rounded down to whole milliseconds.
func (o Outcome) ElapsedMillis() uint64 {
	return o.Elapsed / MICROS_PER_MILLI
}

// SchedulerConfig holds the trial timing parameters.
type SchedulerConfig struct {
	OnsetMin         int
	OnsetMax         int
	OnsetUnitMicros  uint64
	WindowMicros     uint64
	OnsetSliceMicros uint64
	// Seed makes onset draws reproducible. Nil seeds from the host clock.
	Seed *uint64
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		OnsetMin:         ONSET_MIN_UNITS,
		OnsetMax:         ONSET_MAX_UNITS,
		OnsetUnitMicros:  ONSET_UNIT_MICROS,
		WindowMicros:     RESPONSE_WINDOW_US,
		OnsetSliceMicros: ONSET_SLICE_MICROS,
	}
}

// StimulusScheduler runs the randomized-delay, bounded-wait trial protocol.
// It is driven only from the main loop.
type StimulusScheduler struct {
	cfg      SchedulerConfig
	clock    Clock
	response ResponseInput
	reset    *ResetSignal
	rng      *rand.Rand
	out      io.Writer
	trials   uint64
}

func NewStimulusScheduler(cfg SchedulerConfig, clock Clock, response ResponseInput, reset *ResetSignal, out io.Writer) *StimulusScheduler {
	if cfg.OnsetMax < cfg.OnsetMin {
		cfg.OnsetMax = cfg.OnsetMin
	}
	if cfg.OnsetSliceMicros == 0 {
		cfg.OnsetSliceMicros = ONSET_SLICE_MICROS
	}
	if out == nil {
		out = io.Discard
	}
	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		seed = uint64(time.Now().UnixNano())
	}
	return &StimulusScheduler{
		cfg:      cfg,
		clock:    clock,
		response: response,
		reset:    reset,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		out:      out,
	}
}

// NextOnset draws the onset delay in microseconds, uniform over the
// inclusive unit range.
func (s *StimulusScheduler) NextOnset() uint64 {
	span := s.cfg.OnsetMax - s.cfg.OnsetMin + 1
	units := s.cfg.OnsetMin + s.rng.IntN(span)
	return uint64(units) * s.cfg.OnsetUnitMicros
}

// TrialCount returns how many trials have been started.
func (s *StimulusScheduler) TrialCount() uint64 {
	return s.trials
}

// RunTrial runs one trial of mode on eff. The effector is inactive again by
// the time RunTrial returns, whatever the outcome.
func (s *StimulusScheduler) RunTrial(ctx context.Context, mode Mode, eff Effector) Outcome {
	s.trials++
	trial := Trial{
		OnsetDelay: s.NextOnset(),
		Window:     s.cfg.WindowMicros,
	}
	fmt.Fprintf(s.out, "scheduler: %s trial %d, onset in %d ms\n", mode, s.trials, trial.OnsetDelay/MICROS_PER_MILLI)

	// Waiting. A response press here is simply never sampled.
	waitStart := s.clock.NowMicros()
	for {
		waited := s.clock.NowMicros() - waitStart
		if waited >= trial.OnsetDelay {
			break
		}
		if s.interrupted(ctx) {
			fmt.Fprintf(s.out, "scheduler: %s trial %d aborted before onset\n", mode, s.trials)
			return Outcome{Kind: OutcomeAborted, Mode: mode, Trial: trial}
		}
		step := trial.OnsetDelay - waited
		if step > s.cfg.OnsetSliceMicros {
			step = s.cfg.OnsetSliceMicros
		}
		s.clock.SleepMicros(step)
	}
	if s.interrupted(ctx) {
		fmt.Fprintf(s.out, "scheduler: %s trial %d aborted before onset\n", mode, s.trials)
		return Outcome{Kind: OutcomeAborted, Mode: mode, Trial: trial}
	}

	// Active.
	if err := eff.Activate(); err != nil {
		eff.Deactivate()
		fmt.Fprintf(s.out, "scheduler: %s stimulus failed: %v\n", eff.Name(), err)
		return Outcome{Kind: OutcomeAborted, Mode: mode, Trial: trial, Err: err}
	}
	trial.StartTime = s.clock.NowMicros()

	outcome := s.awaitResponse(ctx, mode, trial)

	if err := eff.Deactivate(); err != nil {
		fmt.Fprintf(s.out, "scheduler: %s stimulus off failed: %v\n", eff.Name(), err)
		if outcome.Err == nil {
			outcome.Err = err
		}
	}

	switch outcome.Kind {
	case OutcomeResponded:
		fmt.Fprintf(s.out, "scheduler: %s trial %d took %d ms\n", mode, s.trials, outcome.ElapsedMillis())
	case OutcomeTimedOut:
		fmt.Fprintf(s.out, "scheduler: %s trial %d no response\n", mode, s.trials)
	case OutcomeAborted:
		fmt.Fprintf(s.out, "scheduler: %s trial %d aborted\n", mode, s.trials)
	}
	return outcome
}

// awaitResponse polls press, then deadline, then reset. A press seen in the
// same poll as the deadline wins, with elapsed clamped to the window.
func (s *StimulusScheduler) awaitResponse(ctx context.Context, mode Mode, trial Trial) Outcome {
	for {
		now := s.clock.NowMicros()
		elapsed := now - trial.StartTime

		if s.response.Pressed() {
			if elapsed > trial.Window {
				elapsed = trial.Window
			}
			trial.Responded = true
			trial.ResponseTime = trial.StartTime + elapsed
			return Outcome{Kind: OutcomeResponded, Mode: mode, Trial: trial, Elapsed: elapsed}
		}
		if elapsed >= trial.Window {
			return Outcome{Kind: OutcomeTimedOut, Mode: mode, Trial: trial}
		}
		if s.interrupted(ctx) {
			return Outcome{Kind: OutcomeAborted, Mode: mode, Trial: trial}
		}
		s.clock.Yield()
	}
}

func (s *StimulusScheduler) interrupted(ctx context.Context) bool {
	if s.reset != nil && s.reset.Pending() {
		return true
	}
	return ctx.Err() != nil
}

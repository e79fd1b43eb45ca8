package main

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBoard_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultBoardConfig()
	cfg.WindowMs = 0
	_, err := NewBoard(cfg, NewManualClock(0, 1), nil)
	var be *BoardError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *BoardError", err)
	}
	if !strings.Contains(err.Error(), "window_ms") {
		t.Fatalf("error lost its cause: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatal("BoardError does not unwrap")
	}
}

func TestBoard_IdleState(t *testing.T) {
	b, err := NewBoard(DefaultBoardConfig(), NewManualClock(0, 1), nil)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	if b.Response.Pressed() {
		t.Fatal("button B pressed at power-on")
	}
	if b.StimulusActive() || b.ActiveStimulus() != ModeMenu {
		t.Fatal("stimulus active at power-on")
	}
	if b.Selector.Mode() != ModeMenu {
		t.Fatal("not in menu at power-on")
	}
	if b.Stick.Sample() != ADC_CENTER {
		t.Fatal("stick not centred at power-on")
	}
}

func TestBoard_ActiveStimulus(t *testing.T) {
	b, _ := NewBoard(DefaultBoardConfig(), NewManualClock(0, 1), nil)
	b.Audio.Activate()
	if b.ActiveStimulus() != ModeAudioTest {
		t.Fatalf("ActiveStimulus = %s, want audio", b.ActiveStimulus())
	}
	b.Audio.Deactivate()
	b.Visual.Activate()
	if b.ActiveStimulus() != ModeVisualTest {
		t.Fatalf("ActiveStimulus = %s, want visual", b.ActiveStimulus())
	}
	b.Visual.Deactivate()
}

func TestBoard_AttachTriggerWrapsEffectors(t *testing.T) {
	b, c, _ := newSimBoard(t, 6)
	port := &fakeTriggerPort{}
	box, err := NewTriggerBox(port, nil)
	if err != nil {
		t.Fatalf("NewTriggerBox: %v", err)
	}
	port.written.Reset()
	b.AttachTrigger(box)

	runner := NewSubjectRunner(b, FixedSubject{LatencyMs: 200}, c, SUBJECT_POLL_MICROS, 0, nil)
	runner.Start()
	defer runner.Stop()
	b.SetStick(ADC_MAX)
	runReports(t, b, 2)

	if got := port.written.String(); got != "1Q1Q" {
		t.Fatalf("trigger bytes = %q, want two visual on/off pairs", got)
	}
}

func TestBoardError_Message(t *testing.T) {
	e := &BoardError{Operation: "strip flush", Details: "strip has no pixels"}
	if got := e.Error(); got != "board strip flush failed: strip has no pixels" {
		t.Fatalf("Error = %q", got)
	}
	inner := errors.New("io")
	e = &BoardError{Operation: "trigger write", Details: "'1'", Err: inner}
	if !errors.Is(e, inner) {
		t.Fatal("errors.Is does not reach the cause")
	}
}

package main

import (
	"errors"
	"strings"
	"testing"
)

func TestStartPeripherals_NothingRequested(t *testing.T) {
	cfg := DefaultBoardConfig()
	cfg.Sound = false
	b, err := NewBoard(cfg, NewManualClock(0, 1), nil)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	closeAll, err := startPeripherals(b, cfg, runOptions{})
	if err != nil {
		t.Fatalf("startPeripherals: %v", err)
	}
	closeAll()
	closeAll()
}

func TestStartPeripherals_BadTriggerDeviceReturnsError(t *testing.T) {
	cfg := DefaultBoardConfig()
	cfg.Sound = false
	b, err := NewBoard(cfg, NewManualClock(0, 1), nil)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	closeAll, err := startPeripherals(b, cfg, runOptions{triggerDev: "/nonexistent/reflex-trigger"})
	if err == nil {
		t.Fatal("startPeripherals succeeded on a missing device")
	}
	if closeAll != nil {
		t.Fatal("cleanup returned alongside an error")
	}
	if !strings.Contains(err.Error(), "initialize trigger box") {
		t.Fatalf("err = %v", err)
	}
	var be *BoardError
	if !errors.As(err, &be) || be.Operation != "trigger open" {
		t.Fatalf("err = %v, want a trigger open BoardError", err)
	}
	if _, wrapped := b.effectors[ModeVisualTest].(*TriggeredEffector); wrapped {
		t.Fatal("effectors wrapped although the trigger box failed to open")
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFixedSubject(t *testing.T) {
	if ms, ok, err := (FixedSubject{LatencyMs: 250}).Latency(ModeVisualTest, 1); ms != 250 || !ok || err != nil {
		t.Fatalf("Latency = %d, %v, %v", ms, ok, err)
	}
	if _, ok, _ := (FixedSubject{}).Latency(ModeVisualTest, 1); ok {
		t.Fatal("zero latency subject should never answer")
	}
}

const testSubjectScript = `
function respond(mode, trial)
	if mode == "audio" then
		return 180 + trial
	end
	if trial % 2 == 0 then
		return nil
	end
	log("visual trial " .. trial)
	return 300
end
`

func TestLuaSubject_Respond(t *testing.T) {
	var log bytes.Buffer
	s, err := NewLuaSubject(testSubjectScript, &log)
	if err != nil {
		t.Fatalf("NewLuaSubject: %v", err)
	}
	defer s.Close()

	tests := []struct {
		mode  Mode
		trial int
		ms    uint64
		ok    bool
	}{
		{ModeAudioTest, 1, 181, true},
		{ModeAudioTest, 7, 187, true},
		{ModeVisualTest, 1, 300, true},
		{ModeVisualTest, 2, 0, false},
	}
	for _, tt := range tests {
		ms, ok, err := s.Latency(tt.mode, tt.trial)
		if err != nil {
			t.Fatalf("%s/%d: %v", tt.mode, tt.trial, err)
		}
		if ms != tt.ms || ok != tt.ok {
			t.Fatalf("%s/%d = %d, %v; want %d, %v", tt.mode, tt.trial, ms, ok, tt.ms, tt.ok)
		}
	}
	if !strings.Contains(log.String(), "subject: visual trial 1") {
		t.Fatalf("log() output missing: %q", log.String())
	}
}

func TestLuaSubject_Errors(t *testing.T) {
	if _, err := NewLuaSubject("x = 1", nil); err == nil || !strings.Contains(err.Error(), "respond") {
		t.Fatalf("missing respond: err = %v", err)
	}
	if _, err := NewLuaSubject("function respond(", nil); err == nil {
		t.Fatal("syntax error accepted")
	}

	s, err := NewLuaSubject(`function respond(mode, trial) return "soon" end`, nil)
	if err != nil {
		t.Fatalf("NewLuaSubject: %v", err)
	}
	defer s.Close()
	if _, _, err := s.Latency(ModeVisualTest, 1); err == nil {
		t.Fatal("string latency accepted")
	}

	s2, _ := NewLuaSubject(`function respond(mode, trial) error("boom") end`, nil)
	defer s2.Close()
	if _, _, err := s2.Latency(ModeVisualTest, 1); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("runtime error = %v", err)
	}
}

func TestLoadLuaSubject_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subject.lua")
	if err := os.WriteFile(path, []byte(testSubjectScript), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadLuaSubject(path, nil)
	if err != nil {
		t.Fatalf("LoadLuaSubject: %v", err)
	}
	defer s.Close()
	if ms, ok, _ := s.Latency(ModeAudioTest, 2); ms != 182 || !ok {
		t.Fatalf("Latency = %d, %v", ms, ok)
	}
	if _, err := LoadLuaSubject(filepath.Join(t.TempDir(), "none.lua"), nil); err == nil {
		t.Fatal("missing script accepted")
	}
}

func TestSubjectRunner_LuaDrivesTrials(t *testing.T) {
	b, c, _ := newSimBoard(t, 8)
	s, err := NewLuaSubject(testSubjectScript, nil)
	if err != nil {
		t.Fatalf("NewLuaSubject: %v", err)
	}
	defer s.Close()
	runner := NewSubjectRunner(b, s, c, SUBJECT_POLL_MICROS, 0, nil)
	runner.Start()
	defer runner.Stop()
	b.SetStick(ADC_MAX)

	outs := runReports(t, b, 3)
	want := []OutcomeKind{OutcomeResponded, OutcomeTimedOut, OutcomeResponded}
	for i, o := range outs {
		if o.Kind != want[i] {
			t.Fatalf("trial %d = %s, want %s", i+1, o.Kind, want[i])
		}
		if o.Kind == OutcomeResponded && o.ElapsedMillis() != 300 {
			t.Fatalf("trial %d took %d ms, want 300", i+1, o.ElapsedMillis())
		}
	}
}

func TestSubjectRunner_LatePressCancelledAtOffset(t *testing.T) {
	b, c, _ := newSimBoard(t, 9)
	// Longer than the window: the press must not leak into the next trial.
	runner := NewSubjectRunner(b, FixedSubject{LatencyMs: 5600}, c, SUBJECT_POLL_MICROS, 0, nil)
	runner.Start()
	defer runner.Stop()
	b.SetStick(ADC_MAX)

	outs := runReports(t, b, 1)
	if outs[0].Kind != OutcomeTimedOut {
		t.Fatalf("trial = %s, want timed out", outs[0].Kind)
	}
	c.Advance(1000)
	if got := c.PendingTimers(); got != 1 {
		t.Fatalf("PendingTimers = %d after offset, want only the watcher", got)
	}
	c.Advance(2_000_000)
	if b.Response.Pressed() {
		t.Fatal("stale press reached button B")
	}
}

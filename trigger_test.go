package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// fakeTriggerPort answers pings and records every byte written after them.
type fakeTriggerPort struct {
	written  bytes.Buffer
	reply    []byte
	failNext bool
	closed   bool
}

func (p *fakeTriggerPort) Write(b []byte) (int, error) {
	if p.failNext {
		p.failNext = false
		return 0, errors.New("unplugged")
	}
	for _, c := range b {
		if c == TRIGGER_PING {
			p.reply = append(p.reply, TRIGGER_PONG)
		}
	}
	return p.written.Write(b)
}

func (p *fakeTriggerPort) Read(b []byte) (int, error) {
	if len(p.reply) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.reply)
	p.reply = p.reply[n:]
	return n, nil
}

func (p *fakeTriggerPort) Close() error {
	p.closed = true
	return nil
}

type silentPort struct{ fakeTriggerPort }

func (p *silentPort) Read([]byte) (int, error) { return 0, nil }

func TestTriggerBox_Handshake(t *testing.T) {
	port := &fakeTriggerPort{}
	if _, err := NewTriggerBox(port, nil); err != nil {
		t.Fatalf("NewTriggerBox: %v", err)
	}
	if got := port.written.String(); got != "'\\" {
		t.Fatalf("handshake wrote %q, want ping then binary mode", got)
	}
}

func TestTriggerBox_NoPongFails(t *testing.T) {
	_, err := NewTriggerBox(&silentPort{}, nil)
	var be *BoardError
	if !errors.As(err, &be) || be.Operation != "trigger handshake" {
		t.Fatalf("err = %v, want handshake BoardError", err)
	}
}

func TestTriggeredEffector_MarksOnsetAndOffset(t *testing.T) {
	port := &fakeTriggerPort{}
	box, err := NewTriggerBox(port, nil)
	if err != nil {
		t.Fatalf("NewTriggerBox: %v", err)
	}
	port.written.Reset()

	c := NewManualClock(0, 1)
	bank := NewPinBank()
	audio := NewTriggeredEffector(NewAudioEffector(bank.Output(PIN_BUZZER), c, 0), box, ModeAudioTest, nil)
	visual := NewTriggeredEffector(NewVisualEffector(NewPixelStrip(STRIP_LENGTH, STRIP_SETTLE_MICROS, c), RGB{G: 255}), box, ModeVisualTest, nil)

	visual.Activate()
	visual.Deactivate()
	visual.Deactivate() // inactive: no second unset
	audio.Activate()
	audio.Deactivate()
	if got := port.written.String(); got != "1Q3E" {
		t.Fatalf("trigger bytes = %q, want 1Q3E", got)
	}
}

func TestTriggeredEffector_WriteFailureOnlyLogged(t *testing.T) {
	port := &fakeTriggerPort{}
	box, _ := NewTriggerBox(port, nil)
	var log bytes.Buffer
	c := NewManualClock(0, 1)
	eff := NewTriggeredEffector(NewVisualEffector(NewPixelStrip(4, 0, c), RGB{G: 255}), box, ModeVisualTest, &log)

	port.failNext = true
	if err := eff.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !eff.Active() {
		t.Fatal("stimulus not shown after trigger failure")
	}
	if !strings.Contains(log.String(), "trigger:") {
		t.Fatalf("failure not logged: %q", log.String())
	}
	eff.Deactivate()
}

func TestTriggerBox_UnsetUnknownLine(t *testing.T) {
	box, _ := NewTriggerBox(&fakeTriggerPort{}, nil)
	if err := box.Unset('9'); err == nil {
		t.Fatal("Unset accepted line 9")
	}
	if err := box.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

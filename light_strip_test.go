package main

import (
	"errors"
	"testing"
)

func TestPixelStrip_FlushSerializesGRB(t *testing.T) {
	c := NewManualClock(0, 1)
	s := NewPixelStrip(3, STRIP_SETTLE_MICROS, c)
	var sent []byte
	s.SetSink(func(frame []byte) { sent = frame })

	s.SetPixel(0, 1, 2, 3)
	s.SetPixel(2, 10, 20, 30)
	s.SetPixel(7, 9, 9, 9) // out of range, ignored
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []byte{2, 1, 3, 0, 0, 0, 20, 10, 30}
	if string(sent) != string(want) {
		t.Fatalf("frame = %v, want %v", sent, want)
	}
	if got := s.LastFrame(); string(got) != string(want) {
		t.Fatalf("LastFrame = %v, want %v", got, want)
	}
	if got := c.NowMicros(); got != STRIP_SETTLE_MICROS {
		t.Fatalf("Flush returned after %dus, want settle %dus", got, STRIP_SETTLE_MICROS)
	}
}

func TestPixelStrip_LatchesOnlyOnFlush(t *testing.T) {
	c := NewManualClock(0, 1)
	s := NewPixelStrip(STRIP_LENGTH, STRIP_SETTLE_MICROS, c)
	s.SetPixel(4, 0, 255, 0)
	if s.Latched()[4] != (RGB{}) {
		t.Fatal("pixel visible before Flush")
	}
	s.Flush()
	if got := s.Latched()[4]; got != (RGB{G: 255}) {
		t.Fatalf("latched pixel = %v, want 0,255,0", got)
	}
	s.Clear()
	if got := s.Latched()[4]; got != (RGB{G: 255}) {
		t.Fatal("Clear changed the latched frame before Flush")
	}
	s.Flush()
	if got := s.Latched()[4]; got != (RGB{}) {
		t.Fatalf("latched pixel after clear+flush = %v", got)
	}
	if s.FrameCount() != 2 {
		t.Fatalf("FrameCount = %d, want 2", s.FrameCount())
	}
}

func TestPixelStrip_EmptyStripFails(t *testing.T) {
	s := NewPixelStrip(0, STRIP_SETTLE_MICROS, NewManualClock(0, 1))
	err := s.Flush()
	var be *BoardError
	if !errors.As(err, &be) {
		t.Fatalf("Flush on empty strip = %v, want *BoardError", err)
	}
}

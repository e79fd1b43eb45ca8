package main

import (
	"sync"
	"testing"
)

func TestResponseButton_ActiveLow(t *testing.T) {
	bank := NewPinBank()
	bank.PullUp(PIN_BUTTON_B)
	btn := NewResponseButton(bank.Input(PIN_BUTTON_B))
	if btn.Pressed() {
		t.Fatal("idle button reads pressed")
	}
	bank.SetLevel(PIN_BUTTON_B, false)
	if !btn.Pressed() {
		t.Fatal("low line should read pressed")
	}
}

func TestResetSignal_MailboxDrainsOnce(t *testing.T) {
	c := NewManualClock(0, 1)
	bank := NewPinBank()
	bank.PullUp(PIN_BUTTON_A)
	rs := NewResetSignal(c)
	rs.Attach(bank, PIN_BUTTON_A)

	if rs.Pending() {
		t.Fatal("pending before any edge")
	}
	c.Advance(1234)
	bank.SetLevel(PIN_BUTTON_A, false)
	if !rs.Pending() {
		t.Fatal("edge did not publish")
	}
	if !rs.Pending() {
		t.Fatal("Pending must not consume the event")
	}
	ev, ok := rs.Take()
	if !ok || ev.At != 1234 {
		t.Fatalf("Take = %+v, %v; want At=1234", ev, ok)
	}
	if _, ok := rs.Take(); ok {
		t.Fatal("event delivered twice")
	}
}

func TestResetSignal_SecondEdgeOverwrites(t *testing.T) {
	c := NewManualClock(0, 1)
	rs := NewResetSignal(c)
	rs.Fire()
	c.Advance(10)
	rs.Fire()
	ev, ok := rs.Take()
	if !ok || ev.At != 10 {
		t.Fatalf("Take = %+v, %v; want the later event", ev, ok)
	}
	if rs.FireCount() != 2 {
		t.Fatalf("FireCount = %d, want 2", rs.FireCount())
	}
}

func TestResetSignal_ConcurrentFire(t *testing.T) {
	rs := NewResetSignal(NewHostClock())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rs.Fire()
			}
		}()
	}
	taken := 0
	for i := 0; i < 100; i++ {
		if _, ok := rs.Take(); ok {
			taken++
		}
	}
	wg.Wait()
	if _, ok := rs.Take(); ok {
		taken++
	}
	if taken == 0 {
		t.Fatal("no event ever drained")
	}
	if rs.FireCount() != 800 {
		t.Fatalf("FireCount = %d, want 800", rs.FireCount())
	}
}

package main

import "testing"

func newTestPanelInput(t *testing.T) (*PanelInput, *Board, *ManualClock) {
	t.Helper()
	c := NewManualClock(0, 1)
	b, err := NewBoard(DefaultBoardConfig(), c, nil)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return NewPanelInput(b, c, 150_000), b, c
}

func TestPanelInput_StickKeys(t *testing.T) {
	pi, b, _ := newTestPanelInput(t)
	tests := []struct {
		keys []byte
		want uint16
	}{
		{[]byte("l"), ADC_MAX},
		{[]byte("c"), ADC_CENTER},
		{[]byte("h"), 0},
		{[]byte{keyESC, '[', 'C'}, ADC_MAX},
		{[]byte{keyESC, '[', 'D'}, 0},
		{[]byte{keyESC, '[', 'A'}, ADC_CENTER},
	}
	for _, tt := range tests {
		for _, k := range tt.keys {
			if !pi.RouteHostKey(k) {
				t.Fatalf("key %q not consumed", k)
			}
		}
		if got := b.Stick.Sample(); got != tt.want {
			t.Fatalf("keys %q: stick = %d, want %d", tt.keys, got, tt.want)
		}
	}
}

func TestPanelInput_EscapeThenPlainKey(t *testing.T) {
	pi, b, _ := newTestPanelInput(t)
	pi.RouteHostKey(keyESC)
	pi.RouteHostKey('l') // not a CSI sequence; handled as a plain key
	if got := b.Stick.Sample(); got != ADC_MAX {
		t.Fatalf("stick = %d, want %d", got, ADC_MAX)
	}
	if pi.RouteHostKey('z') {
		t.Fatal("unmapped key reported as consumed")
	}
}

func TestPanelInput_ResponseHeldThenReleased(t *testing.T) {
	pi, b, c := newTestPanelInput(t)
	pi.RouteHostKey(' ')
	if !b.Response.Pressed() {
		t.Fatal("space did not press button B")
	}
	c.Advance(149_999)
	if !b.Response.Pressed() {
		t.Fatal("released before the hold time")
	}
	c.Advance(1)
	if b.Response.Pressed() {
		t.Fatal("still pressed after the hold time")
	}
}

func TestPanelInput_TapExtendsHold(t *testing.T) {
	pi, b, c := newTestPanelInput(t)
	pi.RouteHostKey('b')
	c.Advance(100_000)
	pi.RouteHostKey('b')
	c.Advance(100_000)
	if !b.Response.Pressed() {
		t.Fatal("second tap did not extend the hold")
	}
	c.Advance(50_000)
	if b.Response.Pressed() {
		t.Fatal("still pressed after the extended hold")
	}
	if c.PendingTimers() != 0 {
		t.Fatalf("%d timers left", c.PendingTimers())
	}
}

func TestPanelInput_ResetKeyPublishes(t *testing.T) {
	pi, b, _ := newTestPanelInput(t)
	pi.RouteHostKey('a')
	if !b.Reset.Pending() {
		t.Fatal("a did not raise a reset")
	}
	if !b.Pins.Level(PIN_BUTTON_A) {
		t.Fatal("button A left low after the pulse")
	}
}

func TestPanelInput_CloseReleases(t *testing.T) {
	pi, b, c := newTestPanelInput(t)
	pi.RouteHostKey('b')
	pi.Close()
	if b.Response.Pressed() || c.PendingTimers() != 0 {
		t.Fatal("Close left the button held or a timer pending")
	}
}

func TestPanelInput_ResetReturnsToMenu(t *testing.T) {
	pi, b, _ := newTestPanelInput(t)
	pi.RouteHostKey('l')
	if got := b.Selector.Poll(); got != ModeVisualTest {
		t.Fatalf("Poll after l = %s, want visual", got)
	}

	pi.RouteHostKey('a')
	if got := b.Stick.Sample(); got != ADC_CENTER {
		t.Fatalf("stick = %d after reset key, want centre", got)
	}
	for i := 0; i < 3; i++ {
		if got := b.Selector.Poll(); got != ModeMenu {
			t.Fatalf("Poll %d after reset key = %s, want menu", i, got)
		}
	}
}

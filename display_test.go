package main

import "testing"

func TestTextDisplay_CommitPublishes(t *testing.T) {
	d := NewTextDisplay()
	var pages [][]string
	d.SetSink(func(rows []string) { pages = append(pages, rows) })

	d.DrawText(0, 2, "HI")
	if got := d.Row(0); got != "                " {
		t.Fatalf("drawn text visible before Commit: %q", got)
	}
	if err := d.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := d.Row(0); got != "  HI            " {
		t.Fatalf("row 0 = %q", got)
	}
	if len(pages) != 1 || pages[0][0] != "  HI            " {
		t.Fatalf("sink got %v", pages)
	}
	if len(pages[0]) != DISPLAY_ROWS {
		t.Fatalf("sink page has %d rows, want %d", len(pages[0]), DISPLAY_ROWS)
	}
}

func TestTextDisplay_Clipping(t *testing.T) {
	d := NewTextDisplay()
	d.DrawText(-1, 0, "nope")
	d.DrawText(DISPLAY_ROWS, 0, "nope")
	d.DrawText(1, 14, "ABCD")
	d.DrawText(2, -2, "XYZ")
	d.DrawText(3, 0, "\x01")
	d.Commit()
	if got := d.Row(1); got[14:] != "AB" {
		t.Fatalf("row 1 tail = %q", got[14:])
	}
	if got := d.Row(2); got[:1] != "Z" {
		t.Fatalf("row 2 head = %q", got[:1])
	}
	if got := d.Row(3); got[:1] != "?" {
		t.Fatalf("control byte not replaced: %q", got[:1])
	}
	if d.Row(-1) != "" || d.Row(DISPLAY_ROWS) != "" {
		t.Fatal("out of range Row should be empty")
	}
}

func TestTextDisplay_Text(t *testing.T) {
	d := NewTextDisplay()
	d.DrawText(0, 0, "A")
	d.DrawText(1, 0, "B")
	d.Commit()
	if got := d.Text(); got != "A\nB" {
		t.Fatalf("Text = %q", got)
	}
}

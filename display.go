package main

import (
	"strings"
	"sync"
)

const DISPLAY_ROWS = 8 // 128x64 panel with an 8x8 font

// TextDisplay is the emulated character OLED. Drawing edits a pending page;
// Commit copies it to the visible page and hands it to the sink.
type TextDisplay struct {
	mu       sync.Mutex
	pending  [DISPLAY_ROWS][DISPLAY_COLS]byte
	visible  [DISPLAY_ROWS][DISPLAY_COLS]byte
	commits  uint64
	sink     func(rows []string)
	failNext error
}

func NewTextDisplay() *TextDisplay {
	d := &TextDisplay{}
	for r := range d.pending {
		for c := range d.pending[r] {
			d.pending[r][c] = ' '
			d.visible[r][c] = ' '
		}
	}
	return d
}

// SetSink registers a receiver for every committed page.
func (d *TextDisplay) SetSink(fn func(rows []string)) {
	d.mu.Lock()
	d.sink = fn
	d.mu.Unlock()
}

// DrawText clips text to the panel; characters outside are dropped.
func (d *TextDisplay) DrawText(row, col int, text string) {
	if row < 0 || row >= DISPLAY_ROWS {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < len(text); i++ {
		c := col + i
		if c < 0 {
			continue
		}
		if c >= DISPLAY_COLS {
			break
		}
		ch := text[i]
		if ch < 0x20 || ch > 0x7e {
			ch = '?'
		}
		d.pending[row][c] = ch
	}
}

func (d *TextDisplay) Commit() error {
	d.mu.Lock()
	if err := d.failNext; err != nil {
		d.failNext = nil
		d.mu.Unlock()
		return &BoardError{Operation: "display commit", Details: "bus write failed", Err: err}
	}
	d.visible = d.pending
	d.commits++
	sink := d.sink
	rows := d.rowsLocked()
	d.mu.Unlock()

	if sink != nil {
		sink(rows)
	}
	return nil
}

// FailNextCommit makes the next Commit return err, standing in for a bus fault.
func (d *TextDisplay) FailNextCommit(err error) {
	d.mu.Lock()
	d.failNext = err
	d.mu.Unlock()
}

// Row returns visible row i, space padded to the full width.
func (d *TextDisplay) Row(i int) string {
	if i < 0 || i >= DISPLAY_ROWS {
		return ""
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.visible[i][:])
}

// Rows returns all visible rows.
func (d *TextDisplay) Rows() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rowsLocked()
}

func (d *TextDisplay) CommitCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commits
}

// Text returns the visible page with trailing spaces trimmed per row.
func (d *TextDisplay) Text() string {
	rows := d.Rows()
	for i := range rows {
		rows[i] = strings.TrimRight(rows[i], " ")
	}
	return strings.TrimRight(strings.Join(rows, "\n"), "\n")
}

func (d *TextDisplay) rowsLocked() []string {
	rows := make([]string, DISPLAY_ROWS)
	for i := range d.visible {
		rows[i] = string(d.visible[i][:])
	}
	return rows
}

// reporter.go - result and menu screens

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
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	DISPLAY_COLS  = 16
	ROW_TITLE     = 0
	ROW_FIRST     = 1
	ROW_LAST      = 3
	TITLE_BOOT    = "REACTION TIME"
	TITLE_VISUAL  = "VISUAL STIMULUS"
	TITLE_AUDIO   = "AUDIO STIMULUS"
	LABEL_TOOK    = "Took:"
	LABEL_TIMEOUT = "NO RESPONSE"
)

var menuRows = [...]string{"STICK RIGHT", TITLE_VISUAL, "STICK LEFT", TITLE_AUDIO}

// Display is the character display collaborator. DrawText writes into a
// pending buffer; Commit makes it visible.
type Display interface {
	DrawText(row, col int, text string)
	Commit() error
}

// FormatOutcome returns the label and value rows for a concluded trial.
// Aborted trials have nothing to show.
func FormatOutcome(o Outcome) (label, value string, ok bool) {
	switch o.Kind {
	case OutcomeResponded:
		return LABEL_TOOK, fmt.Sprintf("%d ms", o.ElapsedMillis()), true
	case OutcomeTimedOut:
		return LABEL_TIMEOUT, "", true
	}
	return "", "", false
}

// ResultReporter draws screens and trial results on the display.
type ResultReporter struct {
	display Display
	out     io.Writer

	mu   sync.Mutex
	last string
}

func NewResultReporter(display Display, out io.Writer) *ResultReporter {
	if out == nil {
		out = io.Discard
	}
	return &ResultReporter{display: display, out: out}
}

// ShowBoot draws the power-on title.
func (r *ResultReporter) ShowBoot() error {
	return r.screen(TITLE_BOOT)
}

// ShowMenu draws the instruction screen.
func (r *ResultReporter) ShowMenu() error {
	for i, line := range menuRows {
		r.display.DrawText(i, 0, padRow(line))
	}
	return r.display.Commit()
}

// ShowTest clears the instruction rows and titles the screen for mode.
func (r *ResultReporter) ShowTest(mode Mode) error {
	switch mode {
	case ModeVisualTest:
		return r.screen(TITLE_VISUAL)
	case ModeAudioTest:
		return r.screen(TITLE_AUDIO)
	}
	return r.ShowMenu()
}

// Report shows a trial result under the current title.
func (r *ResultReporter) Report(o Outcome) error {
	label, value, ok := FormatOutcome(o)
	if !ok {
		return nil
	}
	r.display.DrawText(ROW_FIRST, 0, padRow(label))
	r.display.DrawText(ROW_FIRST+1, 0, padRow(value))
	r.display.DrawText(ROW_LAST, 0, padRow(""))

	line := strings.TrimSpace(label + " " + value)
	r.mu.Lock()
	r.last = line
	r.mu.Unlock()
	fmt.Fprintf(r.out, "report: %s %s\n", o.Mode, line)
	return r.display.Commit()
}

// LastResult returns the most recent reported line, or "" before any.
func (r *ResultReporter) LastResult() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *ResultReporter) screen(title string) error {
	r.display.DrawText(ROW_TITLE, 0, padRow(title))
	for row := ROW_FIRST; row <= ROW_LAST; row++ {
		r.display.DrawText(row, 0, padRow(""))
	}
	return r.display.Commit()
}

// padRow blanks a full row by filling it with spaces past text.
func padRow(text string) string {
	if len(text) >= DISPLAY_COLS {
		return text[:DISPLAY_COLS]
	}
	return text + strings.Repeat(" ", DISPLAY_COLS-len(text))
}

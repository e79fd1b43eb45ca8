// mode_selector.go - joystick menu and reset handling

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
)

// Mode is the top-level device state.
type Mode int

const (
	ModeMenu Mode = iota
	ModeVisualTest
	ModeAudioTest
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeVisualTest:
		return "visual"
	case ModeAudioTest:
		return "audio"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "menu":
		return ModeMenu, nil
	case "visual":
		return ModeVisualTest, nil
	case "audio":
		return ModeAudioTest, nil
	}
	return ModeMenu, fmt.Errorf("unknown mode %q (want menu, visual or audio)", s)
}

const (
	STICK_HIGH_THRESHOLD = 4000 // stick right => visual test
	STICK_LOW_THRESHOLD  = 50   // stick left => audio test
)

// AnalogInput is a 12-bit sampled axis.
type AnalogInput interface {
	Sample() uint16
}

// ModeSelector owns the device mode. Only the main loop calls Poll.
type ModeSelector struct {
	stick    AnalogInput
	reset    *ResetSignal
	reporter *ResultReporter
	high     uint16
	low      uint16
	mode     Mode
	out      io.Writer
}

func NewModeSelector(stick AnalogInput, reset *ResetSignal, reporter *ResultReporter, high, low uint16, out io.Writer) *ModeSelector {
	if out == nil {
		out = io.Discard
	}
	return &ModeSelector{
		stick:    stick,
		reset:    reset,
		reporter: reporter,
		high:     high,
		low:      low,
		mode:     ModeMenu,
		out:      out,
	}
}

func (ms *ModeSelector) Mode() Mode {
	return ms.mode
}

// modeEvent is one input the selector reacts to.
type modeEvent int

const (
	eventNone modeEvent = iota
	eventReset
	eventStickHigh
	eventStickLow
)

func (e modeEvent) String() string {
	switch e {
	case eventNone:
		return "none"
	case eventReset:
		return "reset"
	case eventStickHigh:
		return "stick-high"
	case eventStickLow:
		return "stick-low"
	}
	return fmt.Sprintf("modeEvent(%d)", int(e))
}

type modeTransition struct {
	event  modeEvent
	target Mode
}

// modeTransitions lists the moves out of each mode. The first entry matching
// an event wins; an event with no entry leaves the mode alone.
var modeTransitions = map[Mode][]modeTransition{
	ModeMenu: {
		{eventReset, ModeMenu},
		{eventStickHigh, ModeVisualTest},
		{eventStickLow, ModeAudioTest},
	},
	ModeVisualTest: {{eventReset, ModeMenu}},
	ModeAudioTest:  {{eventReset, ModeMenu}},
}

// Poll drains a pending reset, or while in the menu samples the stick once,
// and returns the mode the loop should run.
func (ms *ModeSelector) Poll() Mode {
	if _, ok := ms.reset.Take(); ok {
		ms.send(eventReset)
		return ms.mode
	}
	if ms.mode != ModeMenu {
		return ms.mode
	}
	ms.send(ms.classify(ms.stick.Sample()))
	return ms.mode
}

func (ms *ModeSelector) classify(v uint16) modeEvent {
	switch {
	case v > ms.high:
		return eventStickHigh
	case v < ms.low:
		return eventStickLow
	}
	return eventNone
}

// send applies ev to the current mode and redraws on every matched
// transition, including reset in the menu. It reports whether ev matched.
func (ms *ModeSelector) send(ev modeEvent) bool {
	for _, t := range modeTransitions[ms.mode] {
		if t.event != ev {
			continue
		}
		switch {
		case ev == eventReset && ms.mode != t.target:
			fmt.Fprintf(ms.out, "selector: reset, %s -> %s\n", ms.mode, t.target)
		case ev != eventReset:
			fmt.Fprintf(ms.out, "selector: %s -> %s\n", ms.mode, t.target)
		}
		ms.mode = t.target
		ms.draw()
		return true
	}
	return false
}

func (ms *ModeSelector) draw() {
	if ms.reporter == nil {
		return
	}
	var err error
	if ms.mode == ModeMenu {
		err = ms.reporter.ShowMenu()
	} else {
		err = ms.reporter.ShowTest(ms.mode)
	}
	if err != nil {
		fmt.Fprintf(ms.out, "selector: display: %v\n", err)
	}
}

// board.go - emulated reaction-time board

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

// BoardError provides context for collaborator failures.
type BoardError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *BoardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("board %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("board %s failed: %s", e.Operation, e.Details)
}

func (e *BoardError) Unwrap() error {
	return e.Err
}

// Board wires the emulated peripherals to the timing core. Host frontends
// drive it through the pin bank and the stick channel, and read it back
// through the display, strip and buzzer.
type Board struct {
	Config BoardConfig
	Clock  Clock

	Pins    *PinBank
	Stick   *ADCChannel
	Strip   *PixelStrip
	Display *TextDisplay

	Visual   *VisualEffector
	Audio    *AudioEffector
	Response *ResponseButton
	Reset    *ResetSignal

	Reporter   *ResultReporter
	Selector   *ModeSelector
	Scheduler  *StimulusScheduler
	Controller *Controller

	effectors map[Mode]Effector
	out       io.Writer
}

// NewBoard builds a board from cfg. out receives diagnostics; nil discards.
func NewBoard(cfg BoardConfig, clock Clock, out io.Writer) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &BoardError{Operation: "setup", Details: "invalid config", Err: err}
	}
	if out == nil {
		out = io.Discard
	}

	b := &Board{
		Config:  cfg,
		Clock:   clock,
		Pins:    NewPinBank(),
		Stick:   NewADCChannel(),
		Display: NewTextDisplay(),
		out:     out,
	}
	b.Pins.PullUp(PIN_BUTTON_A)
	b.Pins.PullUp(PIN_BUTTON_B)
	b.Pins.PullUp(PIN_STICK_SW)

	b.Strip = NewPixelStrip(cfg.StripLength, cfg.StripSettleUs, clock)
	b.Visual = NewVisualEffector(b.Strip, cfg.StimulusColor)
	b.Audio = NewAudioEffector(b.Pins.Output(PIN_BUZZER), clock, cfg.BuzzerHalfPeriod)
	b.Response = NewResponseButton(b.Pins.Input(PIN_BUTTON_B))
	b.Reset = NewResetSignal(clock)
	b.Reset.Attach(b.Pins, PIN_BUTTON_A)

	b.effectors = map[Mode]Effector{
		ModeVisualTest: b.Visual,
		ModeAudioTest:  b.Audio,
	}

	b.Reporter = NewResultReporter(b.Display, out)
	b.Selector = NewModeSelector(b.Stick, b.Reset, b.Reporter, cfg.HighThreshold, cfg.LowThreshold, out)
	b.Scheduler = NewStimulusScheduler(cfg.Scheduler(), clock, b.Response, b.Reset, out)
	b.Controller = NewController(b.Selector, b.Scheduler, b.Reporter, b.effectors, clock, cfg.MenuPollUs, out)
	return b, nil
}

// AttachTrigger mirrors both stimuli onto box. Call before the controller runs.
func (b *Board) AttachTrigger(box *TriggerBox) {
	for mode, eff := range b.effectors {
		b.effectors[mode] = NewTriggeredEffector(eff, box, mode, b.out)
	}
}

// ActiveStimulus reports which stimulus is currently presented, or ModeMenu
// when none is.
func (b *Board) ActiveStimulus() Mode {
	switch {
	case b.Visual.Active():
		return ModeVisualTest
	case b.Audio.Active():
		return ModeAudioTest
	}
	return ModeMenu
}

func (b *Board) StimulusActive() bool {
	return b.ActiveStimulus() != ModeMenu
}

// PressResponse holds or releases button B.
func (b *Board) PressResponse(pressed bool) {
	if pressed {
		b.Pins.SetLevel(PIN_BUTTON_B, false)
		return
	}
	b.Pins.Release(PIN_BUTTON_B)
}

// PressReset pulses button A, which the edge handler turns into a reset.
func (b *Board) PressReset() {
	b.Pins.SetLevel(PIN_BUTTON_A, false)
	b.Pins.Release(PIN_BUTTON_A)
}

// SetStick moves the joystick X axis.
func (b *Board) SetStick(v int) {
	b.Stick.Set(v)
}

// BuzzerLevel is the instantaneous buzzer line.
func (b *Board) BuzzerLevel() bool {
	return b.Pins.Level(PIN_BUZZER)
}

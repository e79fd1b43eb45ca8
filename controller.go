// controller.go - device main loop

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
	"context"
	"fmt"
	"io"
)

// Controller is the device main loop. It is the only goroutine that touches
// the mode, the scheduler and the reporter.
type Controller struct {
	selector  *ModeSelector
	scheduler *StimulusScheduler
	reporter  *ResultReporter
	effectors map[Mode]Effector
	clock     Clock
	menuPoll  uint64
	out       io.Writer

	onReport func(Outcome)
	reports  uint64
}

func NewController(selector *ModeSelector, scheduler *StimulusScheduler, reporter *ResultReporter, effectors map[Mode]Effector, clock Clock, menuPollMicros uint64, out io.Writer) *Controller {
	if out == nil {
		out = io.Discard
	}
	if menuPollMicros == 0 {
		menuPollMicros = MENU_POLL_MICROS
	}
	return &Controller{
		selector:  selector,
		scheduler: scheduler,
		reporter:  reporter,
		effectors: effectors,
		clock:     clock,
		menuPoll:  menuPollMicros,
		out:       out,
	}
}

// OnReport registers fn to run on the main loop after every reported result.
func (c *Controller) OnReport(fn func(Outcome)) {
	c.onReport = fn
}

// ReportCount returns how many results have been shown.
func (c *Controller) ReportCount() uint64 {
	return c.reports
}

// Step runs one loop iteration: poll the selector, then either idle in the
// menu or run one trial. It returns the trial outcome and whether a trial ran.
func (c *Controller) Step(ctx context.Context) (Outcome, bool) {
	mode := c.selector.Poll()
	if mode == ModeMenu {
		c.clock.SleepMicros(c.menuPoll)
		return Outcome{}, false
	}

	eff, ok := c.effectors[mode]
	if !ok {
		fmt.Fprintf(c.out, "controller: no effector for %s\n", mode)
		c.clock.SleepMicros(c.menuPoll)
		return Outcome{}, false
	}

	out := c.scheduler.RunTrial(ctx, mode, eff)
	if out.Kind == OutcomeAborted {
		return out, true
	}
	if err := c.reporter.Report(out); err != nil {
		fmt.Fprintf(c.out, "controller: display: %v\n", err)
	}
	c.reports++
	if c.onReport != nil {
		c.onReport(out)
	}
	return out, true
}

// Run loops until ctx is cancelled. Trials repeat back to back while a test
// mode is selected; only a reset returns to the menu.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.reporter.ShowBoot(); err != nil {
		fmt.Fprintf(c.out, "controller: display: %v\n", err)
	}
	if err := c.reporter.ShowMenu(); err != nil {
		fmt.Fprintf(c.out, "controller: display: %v\n", err)
	}
	for ctx.Err() == nil {
		c.Step(ctx)
	}
	for _, eff := range c.effectors {
		eff.Deactivate()
	}
	return nil
}

// main.go - Reflex Engine entry point

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
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

const SIM_YIELD_MICROS = 100

func boilerPlate() {
	fmt.Println("\n\033[38;2;20;80;147m████▄ █████ █████ █     █████ █   █    █████ █   █ ▄████ █ █   █ █████\033[0m\n\033[38;2;20;120;147m█   █ █     █     █     █      ▀▄▀     █     ██  █ █     █ ██  █ █\033[0m\n\033[38;2;20;160;147m████▀ ████  ████  █     ████    █      ████  █ █ █ █  ██ █ █ █ █ ████\033[0m\n\033[38;2;20;200;147m█  ▀▄ █     █     █     █      ▄▀▄     █     █  ██ █   █ █ █  ██ █\033[0m\n\033[38;2;20;240;147m█   █ █████ █     █████ █████ █   █    █████ █   █ ▀████ █ █   █ █████\033[0m")
	fmt.Println("\nA reaction-time tester: visual and audio stimuli, one button, one number.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("License: GPLv3 or later")
}

type runOptions struct {
	simulate    bool
	terminal    bool
	trials      int
	subjectPath string
	latencyMs   uint64
	mode        Mode
	triggerDev  string
}

func main() {
	boilerPlate()

	var (
		configPath  string
		seed        uint64
		windowMs    uint64
		modeName    string
		showVersion bool
		opts        runOptions
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&configPath, "config", "reflex.yaml", "YAML board configuration (missing file = defaults)")
	flagSet.Uint64Var(&seed, "seed", 0, "Seed for onset delays (default: random)")
	flagSet.Uint64Var(&windowMs, "window-ms", 0, "Override the response window in milliseconds")
	flagSet.BoolVar(&opts.terminal, "terminal", false, "Use the terminal frontend instead of a window")
	flagSet.BoolVar(&opts.simulate, "simulate", false, "Run against virtual time with a simulated subject")
	flagSet.IntVar(&opts.trials, "trials", 5, "Number of reported trials in -simulate mode")
	flagSet.StringVar(&opts.subjectPath, "subject", "", "Lua script defining respond(mode, trial)")
	flagSet.Uint64Var(&opts.latencyMs, "latency-ms", 250, "Fixed subject latency when no -subject script is given (0 = never respond)")
	flagSet.StringVar(&modeName, "mode", "visual", "Stimulus for -simulate: visual or audio")
	flagSet.StringVar(&opts.triggerDev, "trigger", "", "DLP-IO8-G trigger box serial device")
	flagSet.BoolVar(&showVersion, "version", false, "Print version and compiled features")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./reflex_engine [-terminal] [-simulate -trials N -mode visual|audio] [-subject script.lua] [-config file.yaml]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if showVersion {
		printFeatures()
		return
	}

	cfg, err := LoadBoardConfig(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = &seed
		case "window-ms":
			cfg.WindowMs = windowMs
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	opts.mode, err = ParseMode(modeName)
	if err != nil || opts.mode == ModeMenu {
		fmt.Println("Error: -mode must be visual or audio")
		os.Exit(1)
	}

	if opts.simulate {
		if opts.trials <= 0 {
			fmt.Println("Error: -trials must be positive")
			os.Exit(1)
		}
		if err := runSimulation(cfg, opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runInteractive(cfg, opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadSubject(opts runOptions) (Subject, func(), error) {
	if opts.subjectPath == "" {
		return FixedSubject{LatencyMs: opts.latencyMs}, func() {}, nil
	}
	s, err := LoadLuaSubject(opts.subjectPath, os.Stdout)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

// runSimulation drives the board in virtual time until the requested number
// of results has been reported.
func runSimulation(cfg BoardConfig, opts runOptions) error {
	clock := NewManualClock(0, SIM_YIELD_MICROS)
	board, err := NewBoard(cfg, clock, os.Stdout)
	if err != nil {
		return err
	}

	subject, closeSubject, err := loadSubject(opts)
	if err != nil {
		return err
	}
	defer closeSubject()

	runner := NewSubjectRunner(board, subject, clock, SUBJECT_POLL_MICROS, cfg.PressHoldMs*MICROS_PER_MILLI, os.Stdout)
	runner.Start()
	defer runner.Stop()

	if opts.mode == ModeAudioTest {
		board.SetStick(0)
	} else {
		board.SetStick(ADC_MAX)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sum, responded uint64
	reported := 0
	board.Controller.OnReport(func(o Outcome) {
		reported++
		if o.Kind == OutcomeResponded {
			responded++
			sum += o.ElapsedMillis()
		}
		if reported >= opts.trials {
			cancel()
		}
	})
	if err := board.Controller.Run(ctx); err != nil {
		return err
	}

	fmt.Printf("simulate: %d trials, %d responded, virtual time %d ms\n", reported, responded, clock.NowMicros()/MICROS_PER_MILLI)
	if responded > 0 {
		fmt.Printf("simulate: last result %q\n", board.Reporter.LastResult())
	}
	return nil
}

// runInteractive runs the board on the host clock behind a window or the
// terminal. The panel owns the main goroutine; the controller runs beside it.
func runInteractive(cfg BoardConfig, opts runOptions) error {
	clock := NewHostClock()
	board, err := NewBoard(cfg, clock, os.Stdout)
	if err != nil {
		return err
	}

	closePeripherals, err := startPeripherals(board, cfg, opts)
	if err != nil {
		return err
	}
	defer closePeripherals()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	input := NewPanelInput(board, clock, cfg.PressHoldMs*MICROS_PER_MILLI)
	var panel Panel
	if opts.terminal {
		panel = NewTerminalHost(board, input, cancel)
	} else {
		panel, err = NewPanel(board, input, cancel)
		if err != nil {
			return fmt.Errorf("initialize video: %w", err)
		}
	}

	if opts.subjectPath != "" {
		subject, closeSubject, err := loadSubject(opts)
		if err != nil {
			return err
		}
		defer closeSubject()
		runner := NewSubjectRunner(board, subject, clock, MENU_POLL_MICROS, cfg.PressHoldMs*MICROS_PER_MILLI, os.Stdout)
		runner.Start()
		defer runner.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return board.Controller.Run(gctx)
	})

	runErr := panel.Run(gctx)
	cancel()
	panel.Close()
	if err := g.Wait(); err != nil {
		return err
	}
	return runErr
}

// startPeripherals opens the trigger box and the sound output that opts and
// cfg ask for. The returned func closes them in reverse order; on error
// anything already opened has been closed.
func startPeripherals(board *Board, cfg BoardConfig, opts runOptions) (func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		closers = nil
	}

	if opts.triggerDev != "" {
		box, err := OpenTriggerBox(opts.triggerDev, os.Stdout)
		if err != nil {
			return nil, fmt.Errorf("initialize trigger box: %w", err)
		}
		closers = append(closers, func() { box.Close() })
		board.AttachTrigger(box)
	}

	if cfg.Sound {
		buzzer, err := NewOtoBuzzer(BUZZER_SAMPLE_RATE)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("initialize sound: %w", err)
		}
		buzzer.SetupPlayer(board.Audio, BUZZER_SAMPLE_RATE)
		buzzer.Start()
		closers = append(closers, buzzer.Close)
	}
	return closeAll, nil
}

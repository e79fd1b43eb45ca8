//go:build !headless

// video_backend_ebiten.go - Ebiten window frontend

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
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	PANEL_WIDTH    = 360
	PANEL_HEIGHT   = 280
	OLED_X         = 20
	OLED_Y         = 20
	OLED_LINE      = 16
	MATRIX_X       = 20
	MATRIX_Y       = 110
	MATRIX_CELL    = 22
	MATRIX_COLUMNS = 5
)

// EbitenPanel is the windowed frontend. It shows the OLED rows, the 5x5
// light matrix and a buzzer lamp, and maps held keys to the board inputs.
type EbitenPanel struct {
	board  *Board
	input  *PanelInput
	cancel context.CancelFunc

	responseHeld bool
	stickHeld    bool
	closing      atomic.Bool

	clipboardOnce sync.Once
	clipboardOK   bool
	statusLine    string
}

func NewPanel(board *Board, input *PanelInput, cancel context.CancelFunc) (Panel, error) {
	return &EbitenPanel{board: board, input: input, cancel: cancel}, nil
}

// Run owns the calling goroutine until the window closes. ebiten requires
// this to be the main goroutine.
func (p *EbitenPanel) Run(ctx context.Context) error {
	ebiten.SetWindowSize(PANEL_WIDTH*2, PANEL_HEIGHT*2)
	ebiten.SetWindowTitle("Reflex Engine - reaction time")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)

	go func() {
		<-ctx.Done()
		p.closing.Store(true)
	}()

	err := ebiten.RunGame(p)
	p.cancel()
	if err != nil {
		return &BoardError{Operation: "panel run", Details: "ebiten", Err: err}
	}
	return nil
}

func (p *EbitenPanel) Close() error {
	p.closing.Store(true)
	p.input.Close()
	return nil
}

func (p *EbitenPanel) Update() error {
	if ebiten.IsWindowBeingClosed() || p.closing.Load() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		p.board.PressReset()
	}

	held := ebiten.IsKeyPressed(ebiten.KeyB) || ebiten.IsKeyPressed(ebiten.KeySpace)
	if held != p.responseHeld {
		p.board.PressResponse(held)
		p.responseHeld = held
	}

	right := ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyL)
	left := ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyH)
	switch {
	case right && !left:
		p.board.SetStick(ADC_MAX)
		p.stickHeld = true
	case left && !right:
		p.board.SetStick(0)
		p.stickHeld = true
	case p.stickHeld:
		p.board.SetStick(ADC_CENTER)
		p.stickHeld = false
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		p.copyLastResult()
	}
	return nil
}

// copyLastResult puts the last reported result on the system clipboard.
func (p *EbitenPanel) copyLastResult() {
	p.clipboardOnce.Do(func() {
		p.clipboardOK = clipboard.Init() == nil
	})
	if !p.clipboardOK {
		p.statusLine = "clipboard unavailable"
		return
	}
	last := p.board.Reporter.LastResult()
	if last == "" {
		p.statusLine = "no result yet"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(last))
	p.statusLine = "copied: " + last
}

func (p *EbitenPanel) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{24, 24, 28, 255})
	face := basicfont.Face7x13

	// OLED: white on black, title row in yellow like the two-colour panels.
	ebitenutil.DrawRect(screen, OLED_X-6, OLED_Y-6, float64(DISPLAY_COLS*7+12), float64(4*OLED_LINE+8), color.Black)
	rows := p.board.Display.Rows()
	for i := ROW_TITLE; i <= ROW_LAST; i++ {
		c := color.RGBA{235, 235, 235, 255}
		if i == ROW_TITLE {
			c = color.RGBA{250, 210, 60, 255}
		}
		text.Draw(screen, rows[i], face, OLED_X, OLED_Y+10+i*OLED_LINE, c)
	}

	leds := p.board.Strip.Latched()
	for i, px := range leds {
		x := MATRIX_X + (i%MATRIX_COLUMNS)*MATRIX_CELL
		y := MATRIX_Y + (i/MATRIX_COLUMNS)*MATRIX_CELL
		c := color.RGBA{px.R, px.G, px.B, 255}
		if px == (RGB{}) {
			c = color.RGBA{40, 40, 40, 255}
		}
		ebitenutil.DrawRect(screen, float64(x), float64(y), MATRIX_CELL-4, MATRIX_CELL-4, c)
	}

	buzzX := float64(MATRIX_X + MATRIX_COLUMNS*MATRIX_CELL + 30)
	lamp := color.RGBA{40, 40, 40, 255}
	if p.board.Audio.Active() {
		lamp = color.RGBA{230, 60, 40, 255}
	}
	ebitenutil.DrawRect(screen, buzzX, MATRIX_Y, 18, 18, lamp)
	text.Draw(screen, "BUZZER", face, int(buzzX)+24, MATRIX_Y+13, color.RGBA{190, 190, 190, 255})

	legend := "A reset  B/Space respond  Arrows stick  C copy"
	text.Draw(screen, legend, face, 8, PANEL_HEIGHT-24, color.RGBA{160, 160, 160, 255})
	status := "stimulus: off"
	if m := p.board.ActiveStimulus(); m != ModeMenu {
		status = fmt.Sprintf("stimulus: %s", m)
	}
	if p.statusLine != "" {
		status = p.statusLine
	}
	text.Draw(screen, status, face, 8, PANEL_HEIGHT-8, color.RGBA{120, 120, 120, 255})
}

func (p *EbitenPanel) Layout(_, _ int) (int, int) {
	return PANEL_WIDTH, PANEL_HEIGHT
}

func init() {
	compiledFeatures = append(compiledFeatures, "video:ebiten")
}

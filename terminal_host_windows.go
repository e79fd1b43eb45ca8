//go:build windows

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// TerminalHost is the text frontend: raw stdin keys go through PanelInput,
// and every committed display page is reprinted. Only instantiated in
// main.go for interactive use, never in tests.
type TerminalHost struct {
	input        *PanelInput
	cancel       context.CancelFunc
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
	printMu      sync.Mutex
}

// NewTerminalHost attaches a terminal frontend to board. cancel is called
// when the user quits with q or Ctrl-C.
func NewTerminalHost(board *Board, input *PanelInput, cancel context.CancelFunc) *TerminalHost {
	h := &TerminalHost{
		input:  input,
		cancel: cancel,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	board.Display.SetSink(h.printPage)
	return h
}

// Run puts stdin in raw mode and routes keys. Reads block on Windows, so the
// reader runs in its own goroutine and Run returns on ctx or quit.
func (h *TerminalHost) Run(ctx context.Context) error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("terminal_host: failed to set raw mode: %w", err)
	}
	h.oldTermState = oldState

	fmt.Print("keys: a=reset b/space=respond h/l or arrows=stick c=centre q=quit\r\n")

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)
		for {
			select {
			case <-h.stopCh:
				return
			default:
			}
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			if buf[0] == 'q' || buf[0] == keyETX {
				h.cancel()
				return
			}
			h.input.RouteHostKey(buf[0])
		}
	}()

	select {
	case <-ctx.Done():
	case <-h.done:
	}
	return nil
}

// Close restores stdin. The blocked reader exits on the next key or at
// process exit.
func (h *TerminalHost) Close() error {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
	h.input.Close()
	return nil
}

func (h *TerminalHost) printPage(rows []string) {
	h.printMu.Lock()
	defer h.printMu.Unlock()
	var sb strings.Builder
	sb.WriteString("+----------------+\r\n")
	for _, row := range rows[ROW_TITLE : ROW_LAST+1] {
		sb.WriteString("|" + row + "|\r\n")
	}
	sb.WriteString("+----------------+\r\n")
	fmt.Print(sb.String())
}

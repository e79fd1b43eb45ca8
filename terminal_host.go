//go:build !windows

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

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
	nonblockSet  bool
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

// Run puts stdin in raw non-blocking mode and routes keys until ctx ends.
func (h *TerminalHost) Run(ctx context.Context) error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("terminal_host: failed to set raw mode: %w", err)
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return fmt.Errorf("terminal_host: failed to set nonblocking stdin: %w", err)
	}
	h.nonblockSet = true

	fmt.Print("keys: a=reset b/space=respond h/l or arrows=stick c=centre q=quit\r\n")

	defer close(h.done)
	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.stopCh:
			return nil
		default:
		}

		n, err := syscall.Read(h.fd, buf)
		if n > 0 {
			b := buf[0]
			if b == 'q' || b == keyETX {
				h.cancel()
				return nil
			}
			h.input.RouteHostKey(b)
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return nil
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Close stops the read loop and restores stdin.
func (h *TerminalHost) Close() error {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
	h.input.Close()
	return nil
}

// printPage reprints the top rows. Raw mode needs explicit CR.
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

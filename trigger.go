// trigger.go - DLP-IO8-G stimulus trigger box

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
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	TRIGGER_BAUD         = 9600
	TRIGGER_PING         = 0x27 // '
	TRIGGER_PONG         = 'Q'
	TRIGGER_BINARY       = 0x5C // backslash
	TRIGGER_READ_TIMEOUT = 500 * time.Millisecond
)

// Trigger lines per stimulus: set with the digit, cleared with the key below
// it on a QWERTY row, as the DLP-IO8-G command set defines.
var triggerSet = map[Mode]byte{ModeVisualTest: '1', ModeAudioTest: '3'}

var triggerUnset = map[byte]byte{
	'1': 'Q', '2': 'W', '3': 'E', '4': 'R',
	'5': 'T', '6': 'Y', '7': 'U', '8': 'I',
}

// TriggerBox is a DLP-IO8-G USB digital I/O box used to mark stimulus
// onset and offset for an external recorder.
type TriggerBox struct {
	mu   sync.Mutex
	port io.ReadWriteCloser
	out  io.Writer
}

// OpenTriggerBox opens device, checks the box answers a ping and puts it in
// binary mode.
func OpenTriggerBox(device string, out io.Writer) (*TriggerBox, error) {
	mode := &serial.Mode{
		BaudRate: TRIGGER_BAUD,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, &BoardError{Operation: "trigger open", Details: device, Err: err}
	}
	if err := port.SetReadTimeout(TRIGGER_READ_TIMEOUT); err != nil {
		port.Close()
		return nil, &BoardError{Operation: "trigger open", Details: device, Err: err}
	}
	tb, err := NewTriggerBox(port, out)
	if err != nil {
		port.Close()
		return nil, err
	}
	return tb, nil
}

// NewTriggerBox runs the handshake on an already open port.
func NewTriggerBox(port io.ReadWriteCloser, out io.Writer) (*TriggerBox, error) {
	if out == nil {
		out = io.Discard
	}
	tb := &TriggerBox{port: port, out: out}
	if !tb.Ping() {
		return nil, &BoardError{Operation: "trigger handshake", Details: "device did not respond to ping"}
	}
	if _, err := port.Write([]byte{TRIGGER_BINARY}); err != nil {
		return nil, &BoardError{Operation: "trigger handshake", Details: "binary mode", Err: err}
	}
	return tb, nil
}

func (tb *TriggerBox) Ping() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, err := tb.port.Write([]byte{TRIGGER_PING}); err != nil {
		return false
	}
	buf := make([]byte, 1)
	n, err := tb.port.Read(buf)
	return err == nil && n == 1 && buf[0] == TRIGGER_PONG
}

// Set raises line ('1'..'8').
func (tb *TriggerBox) Set(line byte) error {
	return tb.write(line)
}

// Unset drops line ('1'..'8').
func (tb *TriggerBox) Unset(line byte) error {
	cmd, ok := triggerUnset[line]
	if !ok {
		return &BoardError{Operation: "trigger unset", Details: fmt.Sprintf("no line %q", line)}
	}
	return tb.write(cmd)
}

func (tb *TriggerBox) write(cmd byte) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, err := tb.port.Write([]byte{cmd}); err != nil {
		return &BoardError{Operation: "trigger write", Details: fmt.Sprintf("%q", cmd), Err: err}
	}
	return nil
}

func (tb *TriggerBox) Close() error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.port.Close()
}

// TriggeredEffector mirrors an effector's state onto a trigger line. Trigger
// failures are logged only; they never change the trial.
type TriggeredEffector struct {
	Effector
	box  *TriggerBox
	line byte
	out  io.Writer
}

func NewTriggeredEffector(eff Effector, box *TriggerBox, mode Mode, out io.Writer) *TriggeredEffector {
	if out == nil {
		out = io.Discard
	}
	return &TriggeredEffector{Effector: eff, box: box, line: triggerSet[mode], out: out}
}

func (te *TriggeredEffector) Activate() error {
	if err := te.Effector.Activate(); err != nil {
		return err
	}
	if err := te.box.Set(te.line); err != nil {
		fmt.Fprintf(te.out, "trigger: %v\n", err)
	}
	return nil
}

func (te *TriggeredEffector) Deactivate() error {
	if te.Effector.Active() {
		if err := te.box.Unset(te.line); err != nil {
			fmt.Fprintf(te.out, "trigger: %v\n", err)
		}
	}
	return te.Effector.Deactivate()
}

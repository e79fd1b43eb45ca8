package main

import (
	"fmt"
	"io"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaSubject runs a participant script. The script defines
//
//	function respond(mode, trial) ... end
//
// returning a latency in milliseconds, or nil to let the trial time out.
// mode is "visual" or "audio"; trial counts from 1. A log(msg) function
// writes to the diagnostics stream.
type LuaSubject struct {
	mu sync.Mutex
	L  *lua.LState
}

// NewLuaSubject compiles script (source text, not a path). Use
// LoadLuaSubject for files.
func NewLuaSubject(script string, out io.Writer) (*LuaSubject, error) {
	s := newLuaState(out)
	if err := s.L.DoString(script); err != nil {
		s.L.Close()
		return nil, fmt.Errorf("lua subject: %w", err)
	}
	if err := s.checkRespond(); err != nil {
		s.L.Close()
		return nil, err
	}
	return s, nil
}

func LoadLuaSubject(path string, out io.Writer) (*LuaSubject, error) {
	s := newLuaState(out)
	if err := s.L.DoFile(path); err != nil {
		s.L.Close()
		return nil, fmt.Errorf("lua subject %s: %w", path, err)
	}
	if err := s.checkRespond(); err != nil {
		s.L.Close()
		return nil, err
	}
	return s, nil
}

func newLuaState(out io.Writer) *LuaSubject {
	if out == nil {
		out = io.Discard
	}
	L := lua.NewState()
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		fmt.Fprintf(out, "subject: %s\n", L.CheckString(1))
		return 0
	}))
	return &LuaSubject{L: L}
}

func (s *LuaSubject) checkRespond() error {
	if s.L.GetGlobal("respond").Type() != lua.LTFunction {
		return fmt.Errorf("lua subject: script does not define respond(mode, trial)")
	}
	return nil
}

func (s *LuaSubject) Latency(mode Mode, trial int) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.L.CallByParam(lua.P{
		Fn:      s.L.GetGlobal("respond"),
		NRet:    1,
		Protect: true,
	}, lua.LString(mode.String()), lua.LNumber(trial))
	if err != nil {
		return 0, false, fmt.Errorf("lua subject: respond: %w", err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)

	switch v := ret.(type) {
	case lua.LNumber:
		if v < 0 {
			return 0, false, fmt.Errorf("lua subject: negative latency %v", v)
		}
		return uint64(v), true, nil
	case *lua.LNilType:
		return 0, false, nil
	case lua.LBool:
		if !bool(v) {
			return 0, false, nil
		}
	}
	return 0, false, fmt.Errorf("lua subject: respond returned %s, want number or nil", ret.Type())
}

func (s *LuaSubject) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.L.Close()
}

// clock.go - microsecond time base and timers

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
	"runtime"
	"sync"
	"time"
)

// Clock is the board time base. All timestamps are monotonic microseconds
// since the clock was created; differences are taken unsigned.
type Clock interface {
	NowMicros() uint64
	// SleepMicros blocks the caller for at least us microseconds.
	SleepMicros(us uint64)
	// Every runs fn every periodMicros until the returned timer is cancelled.
	// The first call happens one period after Every returns.
	Every(periodMicros uint64, fn func()) PeriodicTimer
	// AfterMicros runs fn once, us microseconds from now, unless cancelled first.
	AfterMicros(us uint64, fn func()) PeriodicTimer
	// Yield is called once per iteration of a busy-poll loop.
	Yield()
}

// PeriodicTimer is a cancellable timer registration. Cancel is idempotent and
// does not return while a callback is still running.
type PeriodicTimer interface {
	Cancel()
}

// HostClock is the wall-clock implementation backed by the Go runtime timers.
type HostClock struct {
	origin time.Time
}

func NewHostClock() *HostClock {
	return &HostClock{origin: time.Now()}
}

func (c *HostClock) NowMicros() uint64 {
	return uint64(time.Since(c.origin) / time.Microsecond)
}

func (c *HostClock) SleepMicros(us uint64) {
	if us == 0 {
		return
	}
	time.Sleep(time.Duration(us) * time.Microsecond)
}

func (c *HostClock) Yield() {
	runtime.Gosched()
}

func (c *HostClock) Every(periodMicros uint64, fn func()) PeriodicTimer {
	if periodMicros == 0 {
		periodMicros = 1
	}
	t := &hostTimer{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	ticker := time.NewTicker(time.Duration(periodMicros) * time.Microsecond)
	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-t.stopCh:
				return
			case <-ticker.C:
				// A tick may race with Cancel; stop wins.
				select {
				case <-t.stopCh:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}

func (c *HostClock) AfterMicros(us uint64, fn func()) PeriodicTimer {
	t := &hostTimer{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	timer := time.NewTimer(time.Duration(us) * time.Microsecond)
	go func() {
		defer close(t.done)
		select {
		case <-t.stopCh:
			timer.Stop()
		case <-timer.C:
			fn()
		}
	}()
	return t
}

type hostTimer struct {
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once
}

func (t *hostTimer) Cancel() {
	t.stopped.Do(func() {
		close(t.stopCh)
	})
	<-t.done
}

//go:build !headless

// audio_backend_oto.go - OTO v3 buzzer output

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
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

const BUZZER_AMPLITUDE = 0.25

// OtoBuzzer plays the buzzer through the host sound card. The effector's
// timer drives the board line at 10 kHz, far above what a pull-based audio
// callback can sample, so the player synthesizes the same square wave while
// the effector is gated on.
type OtoBuzzer struct {
	ctx       *oto.Context
	player    *oto.Player
	source    atomic.Pointer[AudioEffector] // Atomic for lock-free Read()
	phase     float64
	step      float64
	sampleBuf []float32
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

func NewOtoBuzzer(sampleRate int) (*OtoBuzzer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, &BoardError{Operation: "audio setup", Details: "oto context", Err: err}
	}
	<-ready

	return &OtoBuzzer{
		ctx: ctx,
	}, nil
}

// SetupPlayer binds the effector whose state gates the tone.
func (ob *OtoBuzzer) SetupPlayer(eff *AudioEffector, sampleRate int) {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	freq := 1_000_000.0 / float64(2*eff.halfPeriod)
	ob.step = freq / float64(sampleRate)
	ob.source.Store(eff)
	ob.player = ob.ctx.NewPlayer(ob)
	ob.sampleBuf = make([]float32, 4096)
}

func (ob *OtoBuzzer) Read(p []byte) (n int, err error) {
	eff := ob.source.Load()
	numSamples := len(p) / 4
	if eff == nil || numSamples == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	if len(ob.sampleBuf) < numSamples {
		ob.sampleBuf = make([]float32, numSamples)
	}
	samples := ob.sampleBuf[:numSamples]

	on := eff.Active()
	for i := range samples {
		if !on {
			samples[i] = 0
			continue
		}
		ob.phase += ob.step
		if ob.phase >= 1 {
			ob.phase -= 1
		}
		if ob.phase < 0.5 {
			samples[i] = BUZZER_AMPLITUDE
		} else {
			samples[i] = -BUZZER_AMPLITUDE
		}
	}
	if !on {
		ob.phase = 0
	}

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:numSamples*4])
	return numSamples * 4, nil
}

func (ob *OtoBuzzer) Start() {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	if !ob.started && ob.player != nil {
		ob.player.Play()
		ob.started = true
	}
}

func (ob *OtoBuzzer) Close() {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	if ob.player != nil {
		ob.player.Close()
		ob.player = nil
	}
	ob.started = false
}

func (ob *OtoBuzzer) IsStarted() bool {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()
	return ob.started
}

func init() {
	compiledFeatures = append(compiledFeatures, "audio:oto")
}

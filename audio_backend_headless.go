//go:build headless

package main

// OtoBuzzer stands in for the sound output in headless builds. The buzzer
// line still toggles on the board; nothing is played.
type OtoBuzzer struct {
	started bool
	source  *AudioEffector
}

func NewOtoBuzzer(sampleRate int) (*OtoBuzzer, error) {
	return &OtoBuzzer{}, nil
}

func (ob *OtoBuzzer) SetupPlayer(eff *AudioEffector, sampleRate int) {
	ob.source = eff
}

func (ob *OtoBuzzer) Read(p []byte) (n int, err error) {
	return len(p), nil
}

func (ob *OtoBuzzer) Start() {
	ob.started = true
}

func (ob *OtoBuzzer) Close() {
	ob.started = false
}

func (ob *OtoBuzzer) IsStarted() bool {
	return ob.started
}

func init() {
	compiledFeatures = append(compiledFeatures, "audio:headless")
}

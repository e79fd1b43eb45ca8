//go:build headless

package main

import (
	"context"
	"testing"
	"time"
)

func TestHeadlessPanel_CountsCommittedPages(t *testing.T) {
	c := NewManualClock(0, 1)
	b, err := NewBoard(DefaultBoardConfig(), c, nil)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	input := NewPanelInput(b, c, 0)
	p, err := NewPanel(b, input, func() {})
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}
	b.Reporter.ShowBoot()
	b.Reporter.ShowMenu()
	hp := p.(*HeadlessPanel)
	if got := hp.GetFrameCount(); got != 2 {
		t.Fatalf("GetFrameCount = %d, want 2", got)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestHeadlessPanel_RunReturnsOnCancel(t *testing.T) {
	c := NewManualClock(0, 1)
	b, _ := NewBoard(DefaultBoardConfig(), c, nil)
	p, _ := NewPanel(b, NewPanelInput(b, c, 0), func() {})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestHeadlessBuzzer_StartClose(t *testing.T) {
	ob, err := NewOtoBuzzer(BUZZER_SAMPLE_RATE)
	if err != nil {
		t.Fatalf("NewOtoBuzzer: %v", err)
	}
	ob.SetupPlayer(NewAudioEffector(NewPinBank().Output(PIN_BUZZER), NewManualClock(0, 1), 0), BUZZER_SAMPLE_RATE)
	ob.Start()
	if !ob.IsStarted() {
		t.Fatal("not started")
	}
	ob.Close()
	if ob.IsStarted() {
		t.Fatal("still started after Close")
	}
}

func TestHeadlessFeaturesRegistered(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range compiledFeatures {
		seen[f] = true
	}
	if !seen["audio:headless"] || !seen["video:headless"] {
		t.Fatalf("compiledFeatures = %v", compiledFeatures)
	}
}

//go:build headless

package main

import (
	"context"
	"sync/atomic"
)

// HeadlessPanel stands in for the window in CI builds. It only counts the
// pages the display commits.
type HeadlessPanel struct {
	input      *PanelInput
	cancel     context.CancelFunc
	frameCount uint64
}

func NewPanel(board *Board, input *PanelInput, cancel context.CancelFunc) (Panel, error) {
	p := &HeadlessPanel{input: input, cancel: cancel}
	board.Display.SetSink(func([]string) {
		atomic.AddUint64(&p.frameCount, 1)
	})
	return p, nil
}

func (p *HeadlessPanel) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (p *HeadlessPanel) Close() error {
	p.input.Close()
	return nil
}

func (p *HeadlessPanel) GetFrameCount() uint64 {
	return atomic.LoadUint64(&p.frameCount)
}

func init() {
	compiledFeatures = append(compiledFeatures, "video:headless")
}

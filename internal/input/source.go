// Package input feeds calculator inputs from event sources into an engine,
// one at a time, so keyboard, script and programmatic inputs share a single
// dispatch path.
package input

import (
	"context"
	"fmt"

	"github.com/comalice/calcx"
)

// Source produces inputs until its channel is closed.
type Source interface {
	Inputs() <-chan calcx.Input
}

// Applier is satisfied by *calcx.Engine.
type Applier interface {
	Apply(calcx.Input) (string, error)
	Display() string
}

// ChannelSource is a Source backed by a Go channel.
type ChannelSource struct {
	ch chan calcx.Input
}

// NewChannelSource wraps ch. The owner closes ch to end the stream.
func NewChannelSource(ch chan calcx.Input) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Inputs returns the receive-only channel for inputs.
func (s *ChannelSource) Inputs() <-chan calcx.Input {
	return s.ch
}

// NewScriptSource returns a source that replays inputs and then closes.
func NewScriptSource(inputs ...calcx.Input) *ChannelSource {
	ch := make(chan calcx.Input, len(inputs))
	for _, in := range inputs {
		ch <- in
	}
	close(ch)
	return &ChannelSource{ch: ch}
}

// Pump applies inputs from src to a until the source closes, ctx is done or
// an input is rejected. It returns the display as of the last applied input,
// or the current display when nothing was applied.
func Pump(ctx context.Context, a Applier, src Source) (string, error) {
	display := a.Display()
	n := 0
	for {
		select {
		case <-ctx.Done():
			return display, ctx.Err()
		case in, ok := <-src.Inputs():
			if !ok {
				return display, nil
			}
			d, err := a.Apply(in)
			if err != nil {
				return d, fmt.Errorf("input %d (%s): %w", n, in, err)
			}
			display = d
			n++
		}
	}
}

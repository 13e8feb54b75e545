package production

import (
	"sync/atomic"

	"github.com/comalice/calcx"
)

// PublishedStep bundles an engine step with the session it belongs to.
type PublishedStep struct {
	SessionID string
	Step      calcx.Step
}

// ChannelPublisher forwards engine steps to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch        chan<- PublishedStep
	sessionID string
	dropped   atomic.Int64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedStep, sessionID string) *ChannelPublisher {
	return &ChannelPublisher{ch: ch, sessionID: sessionID}
}

// Publish has the signature calcx.WithObserver expects.
func (p *ChannelPublisher) Publish(step calcx.Step) {
	select {
	case p.ch <- PublishedStep{SessionID: p.sessionID, Step: step}:
	default:
		p.dropped.Add(1)
	}
}

// Dropped reports how many steps were discarded because the channel was full.
func (p *ChannelPublisher) Dropped() int64 {
	return p.dropped.Load()
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

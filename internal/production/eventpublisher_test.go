// Tests for ChannelPublisher delivery and engine integration.
package production

import (
	"testing"

	"github.com/comalice/calcx"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan PublishedStep, 10)
	p := NewChannelPublisher(ch, "s-1")

	e := calcx.New(calcx.WithObserver(p.Publish))
	for _, in := range []calcx.Input{calcx.Digit(3), calcx.BinaryOperator(calcx.OpMul)} {
		if _, err := e.Apply(in); err != nil {
			t.Fatal(err)
		}
	}

	if len(ch) != 2 {
		t.Fatalf("expected 2 published steps, got %d", len(ch))
	}
	first := <-ch
	if first.SessionID != "s-1" {
		t.Errorf("SessionID mismatch: got %q", first.SessionID)
	}
	if first.Step.Display != "3" {
		t.Errorf("Display mismatch: got %q, want %q", first.Step.Display, "3")
	}
	second := <-ch
	if second.Step.Expression != "3 * " {
		t.Errorf("Expression mismatch: got %q", second.Step.Expression)
	}
}

func TestChannelPublisher_DropsWhenFull(t *testing.T) {
	ch := make(chan PublishedStep, 1)
	p := NewChannelPublisher(ch, "s-1")

	p.Publish(calcx.Step{Display: "1"})
	p.Publish(calcx.Step{Display: "2"}) // dropped, must not block

	if p.Dropped() != 1 {
		t.Errorf("expected 1 dropped step, got %d", p.Dropped())
	}
	if got := <-ch; got.Step.Display != "1" {
		t.Errorf("expected first step kept, got %q", got.Step.Display)
	}
}

func TestChannelPublisher_Close(t *testing.T) {
	ch := make(chan PublishedStep, 1)
	p := NewChannelPublisher(ch, "")
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
}

package testutil

import (
	"context"
	"testing"

	"github.com/comalice/calcx/internal/production"
	"github.com/comalice/calcx/internal/session"
)

// The same scenarios must hold whichever way the engine is driven.

func TestEngineAdapter(t *testing.T) {
	RunScenarios(t, func(*testing.T) CalculatorAdapter { return NewEngineAdapter() })
}

func TestPumpAdapter(t *testing.T) {
	RunScenarios(t, func(*testing.T) CalculatorAdapter { return NewPumpAdapter() })
}

func TestSessionAdapter(t *testing.T) {
	RunScenarios(t, func(t *testing.T) CalculatorAdapter {
		a, err := NewSessionAdapter(context.Background(), session.NewRegistry())
		if err != nil {
			t.Fatal(err)
		}
		return a
	})
}

func TestPersistedSessionAdapter(t *testing.T) {
	RunScenarios(t, func(t *testing.T) CalculatorAdapter {
		p, err := production.NewJSONPersister(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		a, err := NewSessionAdapter(context.Background(), session.NewRegistry(session.WithPersister(p)))
		if err != nil {
			t.Fatal(err)
		}
		return a
	})
}

func TestUnknownKey(t *testing.T) {
	ctx := context.Background()
	a := NewEngineAdapter()
	if err := a.Press(ctx, "1%"); err == nil {
		t.Fatal("expected error for unbound key")
	}
	if got := a.Engine().Display(); got != "0" {
		t.Errorf("display = %q, want nothing applied", got)
	}
}

// Package testutil runs the same calculator scenarios against every way of
// driving an engine.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/input"
	"github.com/comalice/calcx/internal/keymap"
	"github.com/comalice/calcx/internal/session"
)

// CalculatorAdapter provides a common interface over the ways a calculator
// can be driven so one scenario table covers all of them.
type CalculatorAdapter interface {
	Press(ctx context.Context, keys string) error
	Display(ctx context.Context) (string, error)
	Expression(ctx context.Context) (string, error)
}

// EngineAdapter applies inputs directly to an engine.
type EngineAdapter struct {
	engine *calcx.Engine
	keys   *keymap.Keymap
}

// NewEngineAdapter creates a new adapter around a fresh engine.
func NewEngineAdapter(opts ...calcx.Option) *EngineAdapter {
	return &EngineAdapter{engine: calcx.New(opts...), keys: keymap.Default()}
}

// Engine returns the wrapped engine.
func (a *EngineAdapter) Engine() *calcx.Engine { return a.engine }

func (a *EngineAdapter) Press(_ context.Context, keys string) error {
	inputs, err := a.keys.Keys(keys)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if _, err := a.engine.Apply(in); err != nil {
			return err
		}
	}
	return nil
}

func (a *EngineAdapter) Display(context.Context) (string, error) {
	return a.engine.Display(), nil
}

func (a *EngineAdapter) Expression(context.Context) (string, error) {
	return a.engine.Expression(), nil
}

// PumpAdapter feeds inputs through a channel source, the way keyboard
// goroutines do.
type PumpAdapter struct {
	engine *calcx.Engine
	keys   *keymap.Keymap
}

// NewPumpAdapter creates a new adapter around a fresh engine.
func NewPumpAdapter() *PumpAdapter {
	return &PumpAdapter{engine: calcx.New(), keys: keymap.Default()}
}

func (a *PumpAdapter) Press(ctx context.Context, keys string) error {
	inputs, err := a.keys.Keys(keys)
	if err != nil {
		return err
	}
	ch := make(chan calcx.Input)
	go func() {
		defer close(ch)
		for _, in := range inputs {
			select {
			case ch <- in:
			case <-ctx.Done():
				return
			}
		}
	}()
	_, err = input.Pump(ctx, a.engine, input.NewChannelSource(ch))
	return err
}

func (a *PumpAdapter) Display(context.Context) (string, error) {
	return a.engine.Display(), nil
}

func (a *PumpAdapter) Expression(context.Context) (string, error) {
	return a.engine.Expression(), nil
}

// SessionAdapter drives one session of a registry.
type SessionAdapter struct {
	registry *session.Registry
	keys     *keymap.Keymap
	id       string
}

// NewSessionAdapter creates a session in registry.
func NewSessionAdapter(ctx context.Context, registry *session.Registry) (*SessionAdapter, error) {
	v, err := registry.Create(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionAdapter{registry: registry, keys: keymap.Default(), id: v.ID}, nil
}

// ID returns the session id.
func (a *SessionAdapter) ID() string { return a.id }

func (a *SessionAdapter) Press(ctx context.Context, keys string) error {
	inputs, err := a.keys.Keys(keys)
	if err != nil {
		return err
	}
	_, err = a.registry.Apply(ctx, a.id, inputs...)
	return err
}

func (a *SessionAdapter) Display(ctx context.Context) (string, error) {
	v, err := a.registry.View(ctx, a.id)
	return v.Display, err
}

func (a *SessionAdapter) Expression(ctx context.Context) (string, error) {
	v, err := a.registry.View(ctx, a.id)
	return v.Expression, err
}

// Scenario is a key sequence and the display and expression it must produce.
type Scenario struct {
	Name       string
	Keys       string
	Display    string
	Expression string
}

// Scenarios covers chaining, unary operations, error entry and recovery.
var Scenarios = []Scenario{
	{Name: "initial", Keys: "", Display: "0", Expression: "0"},
	{Name: "leading zeros", Keys: "007", Display: "7", Expression: "7"},
	{Name: "chain left to right", Keys: "2+3*4=", Display: "20", Expression: "20"},
	{Name: "pending operator", Keys: "2+3*", Display: "5", Expression: "5 * "},
	{Name: "power does not bind tighter", Keys: "2+3^2=", Display: "25", Expression: "25"},
	{Name: "decimal", Keys: "1.5*2=", Display: "3", Expression: "3"},
	{Name: "float formatting", Keys: ".1+.2=", Display: "0.30000000000000004", Expression: "0.30000000000000004"},
	{Name: "negate", Keys: "5n", Display: "-5", Expression: "-5"},
	{Name: "square", Keys: "9s", Display: "81", Expression: "81"},
	{Name: "sqrt", Keys: "16r", Display: "4", Expression: "4"},
	{Name: "reciprocal", Keys: "4i", Display: "0.25", Expression: "0.25"},
	{Name: "divide by zero", Keys: "1/0=", Display: calcx.ErrorDisplay, Expression: calcx.ErrorDisplay},
	{Name: "sqrt negative", Keys: "9nr", Display: calcx.ErrorDisplay, Expression: calcx.ErrorDisplay},
	{Name: "reciprocal zero", Keys: "0i", Display: calcx.ErrorDisplay, Expression: calcx.ErrorDisplay},
	{Name: "recover with digit", Keys: "0i7", Display: "7", Expression: "7"},
	{Name: "operator after error clears", Keys: "0i+", Display: "0", Expression: "0"},
	{Name: "clear", Keys: "12+3c", Display: "0", Expression: "0"},
	{Name: "equals without operator", Keys: "8==", Display: "8", Expression: "8"},
}

// RunScenarios runs every scenario against a fresh adapter from newAdapter.
func RunScenarios(t *testing.T, newAdapter func(t *testing.T) CalculatorAdapter) {
	t.Helper()
	for _, sc := range Scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			ctx := context.Background()
			a := newAdapter(t)
			if err := a.Press(ctx, sc.Keys); err != nil {
				t.Fatalf("Press(%q): %v", sc.Keys, err)
			}
			if err := expect(ctx, a, sc); err != nil {
				t.Error(err)
			}
		})
	}
}

func expect(ctx context.Context, a CalculatorAdapter, sc Scenario) error {
	display, err := a.Display(ctx)
	if err != nil {
		return err
	}
	if display != sc.Display {
		return fmt.Errorf("keys %q: display = %q, want %q", sc.Keys, display, sc.Display)
	}
	expr, err := a.Expression(ctx)
	if err != nil {
		return err
	}
	if expr != sc.Expression {
		return fmt.Errorf("keys %q: expression = %q, want %q", sc.Keys, expr, sc.Expression)
	}
	return nil
}

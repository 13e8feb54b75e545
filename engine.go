// Package calcx implements the four-function calculator widget as a small
// state machine: digit entry, pending-operator chaining, unary operations and
// error recovery. Rendering and key handling live in adapters that feed
// Inputs to Engine.Apply.
package calcx

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// ErrorDisplay is the display sentinel for the error state.
	ErrorDisplay = "Error"

	stateNormal = "normal"
	stateError  = "error"
)

// Step is reported to observers after every applied input.
type Step struct {
	Input      Input
	Display    string
	Expression string
	State      string
	Err        error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for transition and error diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithObserver registers fn to be called after every applied input.
func WithObserver(fn func(Step)) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, fn)
	}
}

// Engine is the calculator state. It is not safe for concurrent use; each
// widget owns exactly one.
type Engine struct {
	machine *Machine
	chart   Chart
	events  map[InputKind]EventID
	normal  StateID
	failed  StateID

	display  string
	stored   float64
	hasStore bool
	operator Operator
	waiting  bool
	err      error

	logger    *slog.Logger
	observers []func(Step)
}

// New returns an engine in the initial state: display "0", nothing pending.
func New(opts ...Option) *Engine {
	e := &Engine{
		display: "0",
		events:  make(map[InputKind]EventID),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.build(); err != nil {
		// The chart is static; failing here is a programming error.
		panic(fmt.Sprintf("calcx: build chart: %v", err))
	}
	return e
}

// build wires the two-state chart. Guards that detect a failing computation
// come before the internal transition for the same event so the first
// enabled transition wins.
func (e *Engine) build() error {
	b := NewMachineBuilder(stateNormal)

	normal := b.State(stateNormal)
	normal.OnInternal(KindDigit.String(), nil, e.inputDigit)
	normal.OnInternal(KindDecimal.String(), nil, e.inputDecimal)
	normal.On(KindToggleSign.String(), stateError, e.fails, e.recordFailure)
	normal.OnInternal(KindToggleSign.String(), nil, e.toggleSign)
	normal.On(KindUnary.String(), stateError, e.fails, e.recordFailure)
	normal.OnInternal(KindUnary.String(), nil, e.applyUnary)
	normal.On(KindBinary.String(), stateError, e.fails, e.recordFailure)
	normal.OnInternal(KindBinary.String(), nil, e.applyBinary)
	normal.On(KindEquals.String(), stateError, e.fails, e.recordFailure)
	normal.OnInternal(KindEquals.String(), nil, e.applyEquals)
	normal.OnInternal(KindClear.String(), nil, e.reset)

	failed := b.State(stateError).Entry(e.enterError)
	failed.On(KindDigit.String(), stateNormal, nil, e.resetThen(e.inputDigit))
	failed.On(KindDecimal.String(), stateNormal, nil, e.resetThen(e.inputDecimal))
	for _, k := range []InputKind{KindToggleSign, KindUnary, KindBinary, KindEquals, KindClear} {
		failed.On(k.String(), stateNormal, nil, e.reset)
	}

	m, err := b.Build()
	if err != nil {
		return err
	}
	for k := range kindNames {
		e.events[k] = b.EventID(k.String())
	}
	e.machine = m
	e.chart = b.Chart()
	e.normal = b.GetID(stateNormal)
	e.failed = b.GetID(stateError)
	return m.Start(context.Background())
}

// Apply handles one input and returns the resulting display. Calculation
// failures are not errors here: they put the engine in the error state.
// The returned error is non-nil only for malformed inputs.
func (e *Engine) Apply(in Input) (string, error) {
	if err := in.Validate(); err != nil {
		return e.display, err
	}
	from := e.machine.Current()
	if err := e.machine.Send(context.Background(), Event{ID: e.events[in.Kind], Payload: in}); err != nil {
		return e.display, fmt.Errorf("apply %s: %w", in, err)
	}
	if to := e.machine.Current(); to != from {
		e.logger.Debug("calculator state changed",
			slog.String("input", in.String()),
			slog.String("from", e.stateName(from)),
			slog.String("to", e.stateName(to)))
	}
	e.notify(in)
	return e.display, nil
}

// Display is the current operand or "Error".
func (e *Engine) Display() string { return e.display }

// Expression is the line a widget shows above the keypad: the pending
// operation followed by the operand being typed.
func (e *Engine) Expression() string {
	if !e.hasStore {
		return e.display
	}
	if e.waiting {
		return fmt.Sprintf("%s %s ", FormatNumber(e.stored), e.operator)
	}
	return fmt.Sprintf("%s %s %s", FormatNumber(e.stored), e.operator, e.display)
}

// InError reports whether the engine is showing "Error".
func (e *Engine) InError() bool { return e.machine.Current() == e.failed }

// Err returns the cause of the current error state, or nil.
func (e *Engine) Err() error { return e.err }

// State names the active machine state: "normal" or "error".
func (e *Engine) State() string { return e.stateName(e.machine.Current()) }

// Pending returns the stored left operand and operator, if any.
func (e *Engine) Pending() (float64, Operator, bool) {
	return e.stored, e.operator, e.hasStore
}

// WaitingForOperand reports whether the next digit starts a new operand.
func (e *Engine) WaitingForOperand() bool { return e.waiting }

// Chart describes the engine's state machine.
func (e *Engine) Chart() Chart { return e.chart }

func (e *Engine) stateName(id StateID) string {
	if id == e.failed {
		return stateError
	}
	return stateNormal
}

func (e *Engine) notify(in Input) {
	if len(e.observers) == 0 {
		return
	}
	s := Step{
		Input:      in,
		Display:    e.display,
		Expression: e.Expression(),
		State:      e.State(),
		Err:        e.err,
	}
	for _, fn := range e.observers {
		fn(s)
	}
}

//
// Actions and guards
//

func payload(evt *Event) Input {
	in, _ := evt.Payload.(Input)
	return in
}

func (e *Engine) reset(context.Context, *Event, StateID, StateID) error {
	e.display = "0"
	e.stored = 0
	e.hasStore = false
	e.operator = ""
	e.waiting = false
	e.err = nil
	return nil
}

func (e *Engine) resetThen(next Action) Action {
	return func(ctx context.Context, evt *Event, from, to StateID) error {
		if err := e.reset(ctx, evt, from, to); err != nil {
			return err
		}
		return next(ctx, evt, from, to)
	}
}

func (e *Engine) inputDigit(_ context.Context, evt *Event, _, _ StateID) error {
	d := string(payload(evt).Digit)
	switch {
	case e.waiting:
		e.display = d
		e.waiting = false
	case e.display == "0":
		e.display = d
	default:
		e.display += d
	}
	return nil
}

func (e *Engine) inputDecimal(context.Context, *Event, StateID, StateID) error {
	switch {
	case e.waiting:
		e.display = "0."
		e.waiting = false
	case !containsDot(e.display):
		e.display += "."
	}
	return nil
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

func (e *Engine) toggleSign(_ context.Context, evt *Event, _, _ StateID) error {
	r, _, err := e.compute(payload(evt))
	if err != nil {
		return err
	}
	e.display = FormatNumber(r)
	return nil
}

// compute evaluates the arithmetic an input would commit. ok is false when
// the input commits nothing (operator or equals with nothing pending).
// An operand typed past the float64 range is an overflow for every input
// that reads it.
func (e *Engine) compute(in Input) (result float64, ok bool, err error) {
	current := ParseNumber(e.display)
	switch in.Kind {
	case KindToggleSign, KindUnary, KindBinary, KindEquals:
		if !isFinite(current) {
			return current, true, &OverflowError{Op: in.String(), Result: current}
		}
	}
	switch in.Kind {
	case KindToggleSign:
		return -current, true, nil
	case KindUnary:
		r, err := ApplyUnary(in.Unary, current)
		return r, true, err
	case KindBinary, KindEquals:
		if !e.hasStore {
			return current, false, nil
		}
		r, err := Evaluate(e.stored, current, e.operator)
		return r, true, err
	}
	return 0, false, nil
}

func (e *Engine) fails(_ context.Context, evt *Event, _, _ StateID) (bool, error) {
	_, _, err := e.compute(payload(evt))
	return err != nil, nil
}

func (e *Engine) recordFailure(_ context.Context, evt *Event, _, _ StateID) error {
	in := payload(evt)
	_, _, err := e.compute(in)
	e.err = err
	e.logger.Info("calculator error",
		slog.String("input", in.String()),
		slog.String("expression", e.Expression()),
		slog.Any("error", err))
	return nil
}

func (e *Engine) enterError(context.Context, *Event, StateID, StateID) error {
	e.display = ErrorDisplay
	e.stored = 0
	e.hasStore = false
	e.operator = ""
	e.waiting = true
	return nil
}

func (e *Engine) applyUnary(_ context.Context, evt *Event, _, _ StateID) error {
	r, _, err := e.compute(payload(evt))
	if err != nil {
		return err
	}
	e.display = FormatNumber(r)
	e.waiting = false
	return nil
}

func (e *Engine) applyBinary(_ context.Context, evt *Event, _, _ StateID) error {
	in := payload(evt)
	r, ok, err := e.compute(in)
	if err != nil {
		return err
	}
	if ok {
		e.display = FormatNumber(r)
	}
	e.stored = r
	e.hasStore = true
	e.operator = in.Operator
	e.waiting = true
	return nil
}

func (e *Engine) applyEquals(_ context.Context, evt *Event, _, _ StateID) error {
	r, ok, err := e.compute(payload(evt))
	if err != nil || !ok {
		return err
	}
	e.display = FormatNumber(r)
	e.stored = 0
	e.hasStore = false
	e.operator = ""
	e.waiting = true
	return nil
}

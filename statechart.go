package calcx

import (
	"context"
	"errors"
)

type StateID int
type EventID int

type Event struct {
	ID      EventID
	Payload any
}

type Action func(ctx context.Context, evt *Event, from StateID, to StateID) error
type Guard func(ctx context.Context, evt *Event, from StateID, to StateID) (bool, error)

// ---

type State struct {
	ID          StateID
	Transitions []*Transition
	EntryAction Action
	ExitAction  Action
	Initial     bool
}

type Transition struct {
	Event  EventID
	Source *State
	Target *State // nil --> internal transition
	Guard  Guard  // nil --> always enabled
	Action Action // nil --> do nothing
}

// Machine is a flat state machine: one active state, transitions picked in
// document order.
type Machine struct {
	states  map[StateID]*State
	order   []*State
	initial *State
	current *State
	started bool
}

//
// Public API
//

func (s *State) OnEntry(action Action) {
	s.EntryAction = action
}

func (s *State) OnExit(action Action) {
	s.ExitAction = action
}

func NewMachine(states ...*State) (*Machine, error) {
	if len(states) == 0 {
		return nil, errors.New("no states provided")
	}
	m := &Machine{
		states: map[StateID]*State{},
	}

	// Build LUT and find initial state.
	var initial *State
	for _, s := range states {
		if s == nil {
			return nil, errors.New("nil state")
		}
		if _, exists := m.states[s.ID]; exists {
			return nil, errors.New("duplicate state ID")
		}
		m.states[s.ID] = s
		m.order = append(m.order, s)
		if s.Initial {
			if initial != nil {
				return nil, errors.New("more than one initial state")
			}
			initial = s
		}
	}

	if initial == nil {
		initial = states[0] // First state is assigned as initial.
	}
	m.initial = initial
	m.current = initial

	for _, s := range states {
		for _, t := range s.Transitions {
			if t == nil {
				continue
			}
			if t.Source == nil {
				t.Source = s
			}
			if t.Target != nil {
				if _, ok := m.states[t.Target.ID]; !ok {
					return nil, errors.New("transition target not registered")
				}
			}
		}
	}

	return m, nil
}

// Start enters machine initial state.
func (m *Machine) Start(ctx context.Context) error {
	if m.current == nil {
		return errors.New("machine has no current state")
	}
	m.started = true
	return m.current.enterState(ctx, nil, m.current.ID, m.current.ID)
}

// Send dispatches evt to the active state. Events with no enabled transition
// are ignored.
func (m *Machine) Send(ctx context.Context, evt Event) error {
	if !m.started {
		return errors.New("machine not started")
	}

	t, err := m.pickTransition(ctx, m.current, &evt)
	if err != nil {
		return err
	}
	if t == nil {
		return nil
	}

	next, err := t.doTransition(ctx, &evt)
	m.current = next
	return err
}

// Current returns the active state ID.
func (m *Machine) Current() StateID {
	return m.current.ID
}

// Restore places the machine in state id without running any actions.
func (m *Machine) Restore(id StateID) error {
	s, ok := m.states[id]
	if !ok {
		return errors.New("unknown state ID")
	}
	m.current = s
	m.started = true
	return nil
}

// States returns the registered states in registration order.
func (m *Machine) States() []*State {
	out := make([]*State, len(m.order))
	copy(out, m.order)
	return out
}

func (s *State) On(e EventID, target *State, guard Guard, action Action) {
	s.Transitions = append(s.Transitions, &Transition{
		Event:  e,
		Source: s,
		Target: target,
		Guard:  guard,
		Action: action,
	})
}

//
// Helper Functions (internal API)
//

func (s *State) enterState(ctx context.Context, evt *Event, from StateID, to StateID) error {
	if s.EntryAction != nil {
		return s.EntryAction(ctx, evt, from, to)
	}
	return nil
}

func (s *State) exitState(ctx context.Context, evt *Event, from StateID, to StateID) error {
	if s.ExitAction != nil {
		return s.ExitAction(ctx, evt, from, to)
	}
	return nil
}

// pickTransition grabs the _first_ enabled transition (following SCXML document order reqs)
func (m *Machine) pickTransition(ctx context.Context, s *State, evt *Event) (*Transition, error) {
	for _, t := range s.Transitions {
		if t == nil || t.Event != evt.ID {
			continue
		}
		pass, err := t.evaluateGuard(ctx, evt)
		if err != nil {
			return nil, err
		}
		if pass {
			return t, nil
		}
	}
	return nil, nil
}

func (t *Transition) targetID() StateID {
	if t.Target == nil {
		return t.Source.ID
	}
	return t.Target.ID
}

func (t *Transition) evaluateGuard(ctx context.Context, evt *Event) (bool, error) {
	if t.Guard != nil {
		return t.Guard(ctx, evt, t.Source.ID, t.targetID())
	}
	return true, nil
}

func (t *Transition) evaluateAction(ctx context.Context, evt *Event) error {
	if t.Action != nil {
		return t.Action(ctx, evt, t.Source.ID, t.targetID())
	}
	return nil
}

// doTransition runs a picked transition and returns the resulting state.
func (t *Transition) doTransition(ctx context.Context, evt *Event) (*State, error) {
	// Internal: action only, no exit/entry.
	if t.Target == nil {
		return t.Source, t.evaluateAction(ctx, evt)
	}

	if err := t.Source.exitState(ctx, evt, t.Source.ID, t.Target.ID); err != nil {
		return t.Source, err
	}

	if err := t.evaluateAction(ctx, evt); err != nil {
		// Rewind to previous state.
		if rerr := t.Source.enterState(ctx, nil, t.Source.ID, t.Source.ID); rerr != nil {
			return t.Source, rerr
		}
		return t.Source, err
	}

	if err := t.Target.enterState(ctx, evt, t.Source.ID, t.Target.ID); err != nil {
		return t.Source, err
	}

	return t.Target, nil
}

package calcx

import (
	"fmt"
	"sort"
)

// MachineBuilder provides a fluent API for constructing state machines using string-based
// state and event names instead of manual integer-based State struct creation.
type MachineBuilder struct {
	nextState  StateID
	nextEvent  EventID
	nameToID   map[string]StateID
	idToName   map[StateID]string // For debugging/reverse lookup
	eventToID  map[string]EventID
	idToEvent  map[EventID]string
	states     map[StateID]*State
	order      []StateID
	initial    string
	unresolved []pendingTarget
}

type pendingTarget struct {
	t      *Transition
	target string
}

// StateBuilder provides fluent methods for configuring individual states.
type StateBuilder struct {
	b     *MachineBuilder
	state *State
	name  string
}

// Chart is a read-only description of a built machine, used for visualisation.
type Chart struct {
	Initial string      `json:"initial" yaml:"initial"`
	States  []string    `json:"states" yaml:"states"`
	Edges   []ChartEdge `json:"edges" yaml:"edges"`
}

// ChartEdge is one transition. Internal transitions have From == To.
type ChartEdge struct {
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
	Event    string `json:"event" yaml:"event"`
	Guarded  bool   `json:"guarded,omitempty" yaml:"guarded,omitempty"`
	Internal bool   `json:"internal,omitempty" yaml:"internal,omitempty"`
}

// NewMachineBuilder creates a new builder. initialStateName is entered on Start.
func NewMachineBuilder(initialStateName string) *MachineBuilder {
	return &MachineBuilder{
		nextState: 1,
		nextEvent: 1,
		nameToID:  make(map[string]StateID),
		idToName:  make(map[StateID]string),
		eventToID: make(map[string]EventID),
		idToEvent: make(map[EventID]string),
		states:    make(map[StateID]*State),
		initial:   initialStateName,
	}
}

// State creates or retrieves a state by name.
func (b *MachineBuilder) State(name string) *StateBuilder {
	id := b.assignID(name)
	state := b.states[id]
	if state == nil {
		state = &State{ID: id, Initial: name == b.initial}
		b.states[id] = state
		b.order = append(b.order, id)
	}
	return &StateBuilder{b: b, state: state, name: name}
}

// Build validates the configuration and constructs the Machine.
func (b *MachineBuilder) Build() (*Machine, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	for _, p := range b.unresolved {
		p.t.Target = b.states[b.nameToID[p.target]]
	}
	b.unresolved = nil

	states := make([]*State, 0, len(b.order))
	for _, id := range b.order {
		states = append(states, b.states[id])
	}
	return NewMachine(states...)
}

// GetID returns the assigned StateID for a given state name.
// Returns 0 if the name hasn't been registered.
func (b *MachineBuilder) GetID(name string) StateID {
	return b.nameToID[name]
}

// GetName returns the name for a given StateID.
func (b *MachineBuilder) GetName(id StateID) string {
	return b.idToName[id]
}

// EventID returns the ID of a named event, registering it if needed.
func (b *MachineBuilder) EventID(name string) EventID {
	if id, ok := b.eventToID[name]; ok {
		return id
	}
	id := b.nextEvent
	b.nextEvent++
	b.eventToID[name] = id
	b.idToEvent[id] = name
	return id
}

// Chart describes the states and transitions registered so far.
func (b *MachineBuilder) Chart() Chart {
	c := Chart{Initial: b.initial}
	for _, id := range b.order {
		s := b.states[id]
		from := b.idToName[id]
		c.States = append(c.States, from)
		for _, t := range s.Transitions {
			e := ChartEdge{
				From:    from,
				To:      from,
				Event:   b.idToEvent[t.Event],
				Guarded: t.Guard != nil,
			}
			switch {
			case t.Target != nil:
				e.To = b.idToName[t.Target.ID]
			case b.pendingName(t) != "":
				e.To = b.pendingName(t)
			default:
				e.Internal = true
			}
			c.Edges = append(c.Edges, e)
		}
	}
	return c
}

func (b *MachineBuilder) pendingName(t *Transition) string {
	for _, p := range b.unresolved {
		if p.t == t {
			return p.target
		}
	}
	return ""
}

// assignID returns the existing ID for a name, or creates a new sequential ID.
func (b *MachineBuilder) assignID(name string) StateID {
	if id, exists := b.nameToID[name]; exists {
		return id
	}
	id := b.nextState
	b.nextState++
	b.nameToID[name] = id
	b.idToName[id] = name
	return id
}

// validate checks that the configuration is complete.
func (b *MachineBuilder) validate() error {
	if _, ok := b.nameToID[b.initial]; !ok {
		return fmt.Errorf("initial state %q was never declared", b.initial)
	}
	var missing []string
	for _, p := range b.unresolved {
		if _, ok := b.states[b.nameToID[p.target]]; !ok {
			missing = append(missing, p.target)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("transitions to unknown states: %v", missing)
	}
	return nil
}

// StateBuilder fluent methods

// Entry sets the entry action for this state.
func (sb *StateBuilder) Entry(action Action) *StateBuilder {
	sb.state.EntryAction = action
	return sb
}

// Exit sets the exit action for this state.
func (sb *StateBuilder) Exit(action Action) *StateBuilder {
	sb.state.ExitAction = action
	return sb
}

// On adds a transition from this state to targetName when eventName occurs.
// guard and action may be nil. The target may be declared later.
func (sb *StateBuilder) On(eventName string, targetName string, guard Guard, action Action) *StateBuilder {
	t := &Transition{
		Event:  sb.b.EventID(eventName),
		Source: sb.state,
		Guard:  guard,
		Action: action,
	}
	sb.b.assignID(targetName)
	sb.b.unresolved = append(sb.b.unresolved, pendingTarget{t: t, target: targetName})
	sb.state.Transitions = append(sb.state.Transitions, t)
	return sb
}

// OnInternal adds an internal transition that doesn't change state.
// The transition action executes but no exit/entry actions are triggered.
func (sb *StateBuilder) OnInternal(eventName string, guard Guard, action Action) *StateBuilder {
	sb.state.Transitions = append(sb.state.Transitions, &Transition{
		Event:  sb.b.EventID(eventName),
		Source: sb.state,
		Guard:  guard,
		Action: action,
	})
	return sb
}

package calcx

import (
	"errors"
	"fmt"
)

// Snapshot is the serializable engine state. StoredValue and Operator are
// either both set or both empty.
type Snapshot struct {
	Display           string   `json:"display" yaml:"display"`
	StoredValue       *float64 `json:"storedValue,omitempty" yaml:"storedValue,omitempty"`
	Operator          Operator `json:"operator,omitempty" yaml:"operator,omitempty"`
	WaitingForOperand bool     `json:"waitingForOperand" yaml:"waitingForOperand"`
	LastError         string   `json:"lastError,omitempty" yaml:"lastError,omitempty"`
}

// Snapshot returns a copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Display:           e.display,
		WaitingForOperand: e.waiting,
	}
	if e.hasStore {
		v := e.stored
		s.StoredValue = &v
		s.Operator = e.operator
	}
	if e.err != nil {
		s.LastError = e.err.Error()
	}
	return s
}

// Validate checks the snapshot against the engine invariants.
func (s Snapshot) Validate() error {
	if (s.StoredValue == nil) != (s.Operator == "") {
		return fmt.Errorf("%w: stored value and operator must be set together", ErrInvalidSnapshot)
	}
	if s.Operator != "" && !s.Operator.Valid() {
		return fmt.Errorf("%w: operator %q", ErrInvalidSnapshot, s.Operator)
	}
	if s.Display == ErrorDisplay {
		if s.StoredValue != nil {
			return fmt.Errorf("%w: pending operation in error state", ErrInvalidSnapshot)
		}
		return nil
	}
	if !isNumeric(s.Display) {
		return fmt.Errorf("%w: display %q is not a number", ErrInvalidSnapshot, s.Display)
	}
	if s.StoredValue != nil && !isFinite(*s.StoredValue) {
		return fmt.Errorf("%w: stored value is not finite", ErrInvalidSnapshot)
	}
	return nil
}

// Restore replaces the engine state with s. Observers are not notified.
func (e *Engine) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.display = s.Display
	e.waiting = s.WaitingForOperand
	e.stored, e.hasStore, e.operator = 0, false, ""
	if s.StoredValue != nil {
		e.stored, e.hasStore, e.operator = *s.StoredValue, true, s.Operator
	}
	e.err = nil
	if s.LastError != "" {
		e.err = errors.New(s.LastError)
	}

	target := e.normal
	if s.Display == ErrorDisplay {
		target = e.failed
	}
	return e.machine.Restore(target)
}

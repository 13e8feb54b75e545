// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/keymap"
)

// calcCycle exercises every input kind, including a trip through the error
// state.
const calcCycle = "12.5+3*4-2/8^2=sn0i7ri=c"

// GenKeys returns n key presses drawn from a repeating calculator session.
func GenKeys(n int) []calcx.Input {
	if n < 1 {
		n = 1
	}
	cycle, err := keymap.Default().Keys(calcCycle)
	if err != nil {
		panic(err)
	}
	out := make([]calcx.Input, n)
	for i := range out {
		out[i] = cycle[i%len(cycle)]
	}
	return out
}

// GenFlatMachine creates a flat machine with n states cycling via "tick" events.
func GenFlatMachine(n int) (*calcx.Machine, calcx.EventID) {
	if n < 1 {
		n = 1
	}
	b := calcx.NewMachineBuilder("s0")
	for i := 0; i < n; i++ {
		b.State(fmt.Sprintf("s%d", i)).On("tick", fmt.Sprintf("s%d", (i+1)%n), nil, nil)
	}
	return mustBuild(b), b.EventID("tick")
}

// GenWideTransitions creates one state with many guarded "tick" transitions
// where only the last is enabled.
func GenWideTransitions(numTransitions int) (*calcx.Machine, calcx.EventID) {
	if numTransitions < 1 {
		numTransitions = 1
	}
	b := calcx.NewMachineBuilder("main")
	main := b.State("main")
	for i := 0; i < numTransitions; i++ {
		last := i == numTransitions-1
		main.OnInternal("tick", func(context.Context, *calcx.Event, calcx.StateID, calcx.StateID) (bool, error) {
			return last, nil
		}, nil)
	}
	return mustBuild(b), b.EventID("tick")
}

// GenSnapshotYAML returns the YAML encoding of an engine after n key presses.
func GenSnapshotYAML(n int) []byte {
	e := calcx.New()
	for _, in := range GenKeys(n) {
		if _, err := e.Apply(in); err != nil {
			panic(err)
		}
	}
	data, err := yaml.Marshal(e.Snapshot())
	if err != nil {
		panic(err)
	}
	return data
}

func mustBuild(b *calcx.MachineBuilder) *calcx.Machine {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

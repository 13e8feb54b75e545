// Package benchmarks provides benchmarks for raw machine transitions.
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/comalice/calcx"
)

func BenchmarkFlatTransitions(b *testing.B) {
	for _, n := range []int{2, 10, 100} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			m, tick := GenFlatMachine(n)
			ctx := context.Background()
			if err := m.Start(ctx); err != nil {
				b.Fatal(err)
			}
			evt := calcx.Event{ID: tick}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := m.Send(ctx, evt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkGuardScan(b *testing.B) {
	for _, n := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("transitions=%d", n), func(b *testing.B) {
			m, tick := GenWideTransitions(n)
			ctx := context.Background()
			if err := m.Start(ctx); err != nil {
				b.Fatal(err)
			}
			evt := calcx.Event{ID: tick}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := m.Send(ctx, evt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestGeneratedMachines(t *testing.T) {
	ctx := context.Background()

	m, tick := GenFlatMachine(3)
	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}
	first := m.Current()
	for i := 0; i < 3; i++ {
		if err := m.Send(ctx, calcx.Event{ID: tick}); err != nil {
			t.Fatal(err)
		}
	}
	if m.Current() != first {
		t.Errorf("after a full cycle current = %v, want %v", m.Current(), first)
	}

	if got := len(GenKeys(100)); got != 100 {
		t.Errorf("GenKeys(100) returned %d inputs", got)
	}
	for _, in := range GenKeys(64) {
		if err := in.Validate(); err != nil {
			t.Errorf("generated invalid input %v: %v", in, err)
		}
	}
}

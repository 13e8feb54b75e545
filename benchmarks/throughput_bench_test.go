// Package benchmarks provides performance benchmarks for input throughput.
package benchmarks

import (
	"context"
	"sync"
	"testing"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/input"
	"github.com/comalice/calcx/internal/production"
	"github.com/comalice/calcx/internal/session"
)

func BenchmarkEngineThroughput(b *testing.B) {
	inputs := GenKeys(1024)
	e := calcx.New()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := e.Apply(inputs[i%len(inputs)]); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "inputs/sec")
}

func BenchmarkPumpThroughput(b *testing.B) {
	inputs := GenKeys(1024)
	e := calcx.New()
	ch := make(chan calcx.Input, 256)
	go func() {
		defer close(ch)
		for i := 0; i < b.N; i++ {
			ch <- inputs[i%len(inputs)]
		}
	}()
	b.ResetTimer()
	b.ReportAllocs()
	if _, err := input.Pump(context.Background(), e, input.NewChannelSource(ch)); err != nil {
		b.Fatal(err)
	}
	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "inputs/sec")
}

// Each worker owns one session, so registry locking is the only contention.
func BenchmarkRegistryThroughput(b *testing.B) {
	stores := map[string]func(b *testing.B) production.Persister{
		"memory": func(*testing.B) production.Persister { return nil },
		"json": func(b *testing.B) production.Persister {
			p, err := production.NewJSONPersister(b.TempDir())
			if err != nil {
				b.Fatal(err)
			}
			return p
		},
	}
	for name, newStore := range stores {
		b.Run(name, func(b *testing.B) {
			var opts []session.Option
			if p := newStore(b); p != nil {
				opts = append(opts, session.WithPersister(p))
			}
			reg := session.NewRegistry(opts...)
			ctx := context.Background()
			inputs := GenKeys(256)

			const numWorkers = 8
			ids := make([]string, numWorkers)
			for w := range ids {
				v, err := reg.Create(ctx)
				if err != nil {
					b.Fatal(err)
				}
				ids[w] = v.ID
			}
			perWorker := b.N / numWorkers
			if perWorker == 0 {
				perWorker = 1
			}

			var wg sync.WaitGroup
			errs := make(chan error, numWorkers)
			b.ResetTimer()
			b.ReportAllocs()
			for w := 0; w < numWorkers; w++ {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						if _, err := reg.Apply(ctx, id, inputs[i%len(inputs)]); err != nil {
							errs <- err
							return
						}
					}
				}(ids[w])
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				b.Fatal(err)
			}
			b.ReportMetric(float64(perWorker*numWorkers)/b.Elapsed().Seconds(), "inputs/sec")
		})
	}
}

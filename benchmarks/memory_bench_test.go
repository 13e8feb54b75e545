// Package benchmarks provides memory footprint benchmarks.
package benchmarks

import (
	"fmt"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/comalice/calcx"
)

func BenchmarkMemoryFootprint(b *testing.B) {
	numEngines := 1000
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	engines := make([]*calcx.Engine, numEngines)
	for i := 0; i < numEngines; i++ {
		engines[i] = calcx.New()
	}
	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	bytesPerEngine := (after.TotalAlloc - before.TotalAlloc) / uint64(numEngines)
	b.ReportMetric(float64(bytesPerEngine)/1024, "KB/engine")
	runtime.KeepAlive(engines)
}

func BenchmarkSnapshotYAML(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("keys=%d", n), func(b *testing.B) {
			data := GenSnapshotYAML(n)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var snap calcx.Snapshot
				if err := yaml.Unmarshal(data, &snap); err != nil {
					b.Fatal(err)
				}
				e := calcx.New()
				if err := e.Restore(snap); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

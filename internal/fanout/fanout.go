// Package fanout spreads independent per-record work across a bounded worker
// pool. Each record's evaluation is a pure function of that record alone, so
// the only synchronization needed is collecting results back in index order.
package fanout

import (
	"runtime"
	"sync"
)

// Map applies fn to every item and returns results in input order.
// workers <= 0 selects one worker per available CPU.
func Map[T, R any](items []T, workers int, fn func(item T, index int) R) []R {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = fn(items[i], i)
			}
		}()
	}

	for i := range items {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return results
}

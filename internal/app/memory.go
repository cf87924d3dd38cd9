package app

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// memoryGuard refuses boundary reservations while the heap is over a
// ceiling. The ceiling can change while the engine runs.
type memoryGuard struct {
	limit     atomic.Int64
	heapAlloc func() uint64
}

func newMemoryGuard(limit int64) *memoryGuard {
	g := &memoryGuard{heapAlloc: readHeapAlloc}
	g.limit.Store(limit)
	return g
}

func readHeapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

// SetLimit changes the ceiling. Zero disables the check.
func (g *memoryGuard) SetLimit(limit int64) {
	g.limit.Store(limit)
}

// Check implements the session's memory check.
func (g *memoryGuard) Check() error {
	limit := g.limit.Load()
	if limit <= 0 {
		return nil
	}
	if heap := g.heapAlloc(); heap > uint64(limit) {
		return fmt.Errorf("%w: %d > %d bytes", ErrMemoryLimit, heap, limit)
	}
	return nil
}

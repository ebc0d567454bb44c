package metrics

import "runtime"

// MemorySnapshot is a point-in-time reading of the Go runtime heap.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes of live heap objects
	HeapSys      uint64
	Sys          uint64 // total bytes obtained from the OS
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
	HeapObjects  uint64
}

// MemoryCollector reads runtime memory statistics for -details output and
// the buffer budget check.
type MemoryCollector struct {
	read func(*runtime.MemStats)
}

func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{read: runtime.ReadMemStats}
}

// Snapshot reads the current statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	mc.read(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Delta returns the allocation growth between two snapshots. Fields that
// shrank (HeapAlloc after a GC) are reported as zero.
func (s MemorySnapshot) Delta(after MemorySnapshot) MemorySnapshot {
	sub := func(a, b uint64) uint64 {
		if b < a {
			return 0
		}
		return b - a
	}
	return MemorySnapshot{
		HeapAlloc:    sub(s.HeapAlloc, after.HeapAlloc),
		HeapSys:      sub(s.HeapSys, after.HeapSys),
		Sys:          sub(s.Sys, after.Sys),
		TotalAlloc:   sub(s.TotalAlloc, after.TotalAlloc),
		NumGC:        after.NumGC - min(after.NumGC, s.NumGC),
		PauseTotalNs: sub(s.PauseTotalNs, after.PauseTotalNs),
		HeapObjects:  sub(s.HeapObjects, after.HeapObjects),
	}
}

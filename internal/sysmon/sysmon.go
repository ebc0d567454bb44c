// Package sysmon samples host CPU and memory usage for the dashboard.
package sysmon

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one host-wide snapshot.
type Stats struct {
	CPUPercent float64 // 0..100, averaged over all cores
	MemPercent float64 // 0..100
	MemUsed    uint64
	MemTotal   uint64
	// PerCore holds one 0..100 value per logical CPU.
	PerCore []float64
}

// Sample reads CPU usage since the previous call and current memory usage.
// Failed readings leave their fields at zero.
func Sample(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, true); err == nil && len(pcts) > 0 {
		s.PerCore = pcts
		var sum float64
		for _, p := range pcts {
			sum += p
		}
		s.CPUPercent = sum / float64(len(pcts))
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemUsed = vmem.Used
		s.MemTotal = vmem.Total
	}
	return s
}

// AvailableMemory returns the memory the OS reports as available for new
// allocations, or 0 when it cannot be read.
func AvailableMemory(ctx context.Context) uint64 {
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil || vmem == nil {
		return 0
	}
	return vmem.Available
}

package platform

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Host exposes host identity gathered once through gopsutil.
//
// Fields: Hostname, HostID, OS, Platform, PlatformFamily, PlatformVersion,
// KernelVersion, KernelArch, VirtualizationSystem, VirtualizationRole
// (strings) and BootTime, Procs (uint64). Empty strings count as absent.
type Host struct {
	info *host.InfoStat
	err  error
}

// NewHost queries gopsutil for host information.
func NewHost(ctx context.Context) *Host {
	info, err := host.InfoWithContext(ctx)
	return &Host{info: info, err: err}
}

// Name returns SourceHost.
func (h *Host) Name() string { return SourceHost }

// Field returns a host field.
func (h *Host) Field(_ context.Context, name string) (any, error) {
	if h.err != nil || h.info == nil {
		return nil, fmt.Errorf("%s: %w: %v", SourceHost, ErrUnavailable, h.err)
	}

	var s string
	switch name {
	case "Hostname":
		s = h.info.Hostname
	case "HostID":
		s = h.info.HostID
	case "OS":
		s = h.info.OS
	case "Platform":
		s = h.info.Platform
	case "PlatformFamily":
		s = h.info.PlatformFamily
	case "PlatformVersion":
		s = h.info.PlatformVersion
	case "KernelVersion":
		s = h.info.KernelVersion
	case "KernelArch":
		s = h.info.KernelArch
	case "VirtualizationSystem":
		s = h.info.VirtualizationSystem
	case "VirtualizationRole":
		s = h.info.VirtualizationRole
	case "BootTime":
		return h.info.BootTime, nil
	case "Procs":
		return h.info.Procs, nil
	default:
		return nil, noField(SourceHost, name)
	}
	if s == "" {
		return nil, noField(SourceHost, name)
	}
	return s, nil
}

// Call always fails: host facts are fields only.
func (h *Host) Call(_ context.Context, name string) (any, error) {
	return nil, noOperation(SourceHost, name)
}

// Memory exposes RAM totals in bytes: fields "Total", "Available", "Free".
type Memory struct {
	vm  *mem.VirtualMemoryStat
	err error
}

// NewMemory samples virtual memory statistics.
func NewMemory(ctx context.Context) *Memory {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	return &Memory{vm: vm, err: err}
}

// Name returns SourceMemory.
func (m *Memory) Name() string { return SourceMemory }

// Field returns a memory counter.
func (m *Memory) Field(_ context.Context, name string) (any, error) {
	if m.err != nil || m.vm == nil {
		return nil, fmt.Errorf("%s: %w: %v", SourceMemory, ErrUnavailable, m.err)
	}
	switch name {
	case "Total":
		return m.vm.Total, nil
	case "Available":
		return m.vm.Available, nil
	case "Free":
		return m.vm.Free, nil
	}
	return nil, noField(SourceMemory, name)
}

// Call always fails: memory has no operations.
func (m *Memory) Call(_ context.Context, name string) (any, error) {
	return nil, noOperation(SourceMemory, name)
}

// LoadAverage holds the 1, 5 and 15 minute load averages.
type LoadAverage struct {
	Load1, Load5, Load15 float64
}

// String formats the averages the way /proc/loadavg does.
func (l LoadAverage) String() string {
	return fmt.Sprintf("%.2f %.2f %.2f", l.Load1, l.Load5, l.Load15)
}

// Processor exposes CPU counts as operations "logicalCount" and
// "physicalCount" (int) and "loadAverage" (LoadAverage).
type Processor struct{}

// NewProcessor returns the processor source.
func NewProcessor() *Processor { return &Processor{} }

// Name returns SourceProcessor.
func (p *Processor) Name() string { return SourceProcessor }

// Field always fails: processor facts are sampled on demand.
func (p *Processor) Field(_ context.Context, name string) (any, error) {
	return nil, noField(SourceProcessor, name)
}

// Call samples a processor fact.
func (p *Processor) Call(ctx context.Context, name string) (any, error) {
	switch name {
	case "logicalCount", "physicalCount":
		n, err := cpu.CountsWithContext(ctx, name == "logicalCount")
		if err != nil {
			return nil, fmt.Errorf("%s.%s(): %w", SourceProcessor, name, err)
		}
		if n == 0 {
			return nil, fmt.Errorf("%s.%s(): %w", SourceProcessor, name, ErrUnavailable)
		}
		return n, nil
	case "loadAverage":
		avg, err := load.AvgWithContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s.%s(): %w", SourceProcessor, name, err)
		}
		return LoadAverage{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
	}
	return nil, noOperation(SourceProcessor, name)
}

package sysinfo

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/probe"
	"github.com/doughall/devinfo/internal/report"
)

// collectCPU reports processor counts and load followed by every
// /proc/cpuinfo entry in file order.
func collectCPU(ctx context.Context, src *Sources) *report.Node {
	p := src.Probe
	g := report.NewGroup("CPU")

	logical, ok := probe.CallAs[int](ctx, p, platform.SourceProcessor, "logicalCount")
	g.Add(report.Maybe("Logical CPUs", itoa(logical), ok))
	physical, ok := probe.CallAs[int](ctx, p, platform.SourceProcessor, "physicalCount")
	g.Add(report.Maybe("Physical Cores", itoa(physical), ok))
	load, ok := p.Call(ctx, platform.SourceProcessor, "loadAverage")
	if avg, isAvg := load.(platform.LoadAverage); ok && isAvg {
		g.Add(report.Leaf("Load Average", avg.String()))
	} else {
		g.Add(report.Unknown("Load Average"))
	}
	g.Add(report.Unknown(report.PlaceholderMarker + "Frequency Stats (time)"))

	text, err := platform.ReadFile(src.FS, platform.CPUInfoPath)
	if err != nil {
		src.Logger.Warn("cannot read pseudo-file", slog.String("error", err.Error()))
		return g
	}
	for _, kv := range platform.ParseKeyValue(text) {
		g.Add(report.Leaf(kv.Name, kv.Value))
	}
	return g
}

func itoa(n int) string { return strconv.Itoa(n) }

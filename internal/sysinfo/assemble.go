package sysinfo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/doughall/devinfo/internal/report"
)

// Options selects optional report content.
type Options struct {
	// Experimental adds sections that are partially or not yet collected.
	Experimental bool
}

type section struct {
	name         string
	experimental bool
	collect      Collector
}

// sections is the fixed report order.
var sections = []section{
	{"OS", false, collectOS},
	{"BuildInfos", false, collectBuild},
	{"Battery", false, collectBattery},
	{"Memory", false, collectMemory},
	{"Low Memory Killer Levels", false, collectLowMemoryKiller},
	{"Telephony", true, emptySection("Telephony")},
	{"Networks", true, collectNetworks},
	{"Wifi", true, emptySection("Wifi")},
	{"CPU", false, collectCPU},
	{"Camera", true, emptySection("Camera")},
	{"Screen", true, emptySection("Screen")},
	{"OpenGL", true, emptySection("OpenGL")},
	{"Sensors", true, collectSensors},
	{"Environment", false, collectEnvironment},
	{"Features", false, collectFeatures},
	{"Mount points", true, collectMounts},
	{"Runtime Properties", false, collectRuntime},
	{"Misc", false, collectMisc},
}

// SectionNames returns the section names Assemble emits for opts, in order.
func SectionNames(opts Options) []string {
	var names []string
	for _, s := range sections {
		if s.experimental && !opts.Experimental {
			continue
		}
		names = append(names, s.name)
	}
	return names
}

// Assemble runs every enabled collector in order and returns the unnamed
// root of the report. A collector that panics is logged and its section
// is emitted empty; a nil section is skipped.
func Assemble(ctx context.Context, src *Sources, opts Options) *report.Node {
	root := report.NewGroup("")
	for _, s := range sections {
		if s.experimental && !opts.Experimental {
			continue
		}
		if n := runCollector(ctx, src, s); n != nil {
			root.Add(n)
		}
	}
	return root
}

func runCollector(ctx context.Context, src *Sources, s section) (n *report.Node) {
	defer func() {
		if r := recover(); r != nil {
			src.Logger.Error("section collector failed",
				slog.String("section", s.name),
				slog.String("error", fmt.Sprint(r)),
			)
			n = report.NewGroup(s.name)
		}
	}()
	return s.collect(ctx, src)
}

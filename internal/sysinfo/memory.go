package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/probe"
	"github.com/doughall/devinfo/internal/report"
)

// collectBattery reports the battery snapshot taken before collection.
// Every entry is present; a missing snapshot leaves all values absent.
func collectBattery(_ context.Context, src *Sources) *report.Node {
	g := report.NewGroup("Battery")
	s := src.Battery
	if s == nil {
		for _, name := range []string{"Health", "Level", "Plugged", "Present", "Status", "Technology", "Temperature", "Voltage"} {
			g.Add(report.Unknown(name))
		}
		return g
	}
	logger := src.Logger.With(slog.String("section", "battery"))

	health, ok := s.HealthText(logger)
	g.Add(report.Maybe("Health", health, ok))
	level, ok := s.LevelText()
	g.Add(report.Maybe("Level", level, ok))
	plugged, ok := s.PluggedText(logger)
	g.Add(report.Maybe("Plugged", plugged, ok))
	present, ok := s.PresentText()
	g.Add(report.Maybe("Present", present, ok))
	status, ok := s.StatusText(logger)
	g.Add(report.Maybe("Status", status, ok))
	tech, ok := s.TechnologyText()
	g.Add(report.Maybe("Technology", tech, ok))
	temp, ok := s.TemperatureText()
	g.Add(report.Maybe("Temperature", temp, ok))
	volt, ok := s.VoltageText()
	g.Add(report.Maybe("Voltage", volt, ok))
	return g
}

const thresholdHint = "The threshold of Free RAM at which we consider memory to be low and start killing " +
	"background services and other non-extraneous processes."

// collectMemory reports RAM and storage capacity.
func collectMemory(ctx context.Context, src *Sources) *report.Node {
	p := src.Probe
	g := report.NewGroup("Memory")

	total, ok := probe.FieldAs[uint64](ctx, p, platform.SourceMemory, "Total")
	g.Add(report.Maybe("Total RAM", formatBytes(total), ok))
	avail, ok := probe.FieldAs[uint64](ctx, p, platform.SourceMemory, "Available")
	g.Add(report.Maybe("Free RAM", formatBytes(avail), ok))

	threshold, ok := readMinFreeKBytes(src)
	g.Add(report.Maybe("Threshold RAM", formatBytes(threshold), ok).WithHint(thresholdHint))

	g.Add(usageLeaf(ctx, p, "Download cache Max/Free", "getDownloadCacheDirectoryUsage"))
	g.Add(usageLeaf(ctx, p, "Data Max/Free", "getDataDirectoryUsage"))
	g.Add(usageLeaf(ctx, p, "External storage Max/Free", "getExternalStorageDirectoryUsage"))
	return g
}

func readMinFreeKBytes(src *Sources) (uint64, bool) {
	raw, err := platform.ReadFile(src.FS, platform.MinFreeKBytes)
	if err != nil {
		src.Logger.Warn("cannot read pseudo-file", slog.String("error", err.Error()))
		return 0, false
	}
	kb, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		src.Logger.Warn("malformed min_free_kbytes", slog.String("value", strings.TrimSpace(raw)))
		return 0, false
	}
	return kb * 1024, true
}

func usageLeaf(ctx context.Context, p *probe.Prober, name, op string) *report.Node {
	u, ok := probe.CallAs[platform.Usage](ctx, p, platform.SourceEnvironment, op)
	if !ok {
		return report.Unknown(name)
	}
	return report.Leaf(name, formatBytes(u.Total)+" / "+formatBytes(u.Free))
}

// ErrMinFreeFormat is returned by ParseMinFree for anything other than six
// comma-separated numbers.
var ErrMinFreeFormat = errors.New("invalid low memory killer levels")

// ParseMinFree parses the lowmemorykiller minfree parameter, six
// comma-separated page counts, into megabyte strings ("%.3fMB", 4 KiB pages).
func ParseMinFree(raw string) ([]string, error) {
	fields := strings.Split(strings.TrimSpace(raw), ",")
	if len(fields) != len(lmkLevels) {
		return nil, fmt.Errorf("%w: %d values", ErrMinFreeFormat, len(fields))
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		pages, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMinFreeFormat, err)
		}
		out[i] = fmt.Sprintf("%.3fMB", pages*4/1024)
	}
	return out, nil
}

var lmkLevels = []struct {
	name string
	hint string
}{
	{"FOREGROUND_APP", "This is the process running the current foreground app."},
	{"VISIBLE_APP", "This is a process only hosting activities that are visible to the user."},
	{"SECONDARY_SERVER", "This is a process holding a secondary server."},
	{"HIDDEN_APP", "This is a process only hosting activities that are not visible."},
	{"CONTENT_PROVIDER", "This is a process with a content provider that does not have any clients attached to it."},
	{"EMPTY_APP", "This is a process without anything currently running in it."},
}

// collectLowMemoryKiller reports the six lowmemorykiller thresholds, all
// absent when the parameter is unreadable or malformed.
func collectLowMemoryKiller(_ context.Context, src *Sources) *report.Node {
	var values []string
	raw, err := platform.ReadFile(src.FS, platform.LowMemMinFree)
	if err != nil {
		src.Logger.Warn("cannot read pseudo-file", slog.String("error", err.Error()))
	} else if values, err = ParseMinFree(raw); err != nil {
		src.Logger.Warn("invalid low memory killer levels", slog.String("error", err.Error()))
	}

	g := report.NewGroup("Low Memory Killer Levels")
	for i, lvl := range lmkLevels {
		var n *report.Node
		if values != nil {
			n = report.Leaf(lvl.name, values[i])
		} else {
			n = report.Unknown(lvl.name)
		}
		g.Add(n.WithHint(lvl.hint))
	}
	return g
}

// Package sysinfo collects device information into a report tree.
//
// Each section of the report is produced by a collector that reads facts
// through the probe layer, pseudo-files under the configured root and the
// latest battery snapshot. Collectors never fail: a fact that cannot be
// read is logged and rendered as absent.
//
// Sections, in report order:
//   - OS, BuildInfos, Battery, Memory, Low Memory Killer Levels
//   - Telephony, Networks, Wifi (experimental)
//   - CPU
//   - Camera, Screen, OpenGL, Sensors (experimental)
//   - Environment, Features
//   - Mount points (experimental)
//   - Runtime Properties, Misc
package sysinfo

import (
	"context"
	"io/fs"
	"log/slog"

	"github.com/doughall/devinfo/internal/battery"
	"github.com/doughall/devinfo/internal/probe"
	"github.com/doughall/devinfo/internal/report"
)

// Sources bundles everything a collector may read during one refresh.
type Sources struct {
	// Probe resolves platform fields and operations.
	Probe *probe.Prober

	// FS is rooted at the device's "/" and serves /proc, /sys and build.prop.
	FS fs.FS

	// Battery is the snapshot taken before collection; nil if none arrived yet.
	Battery *battery.Snapshot

	// Environ is the process environment as KEY=value pairs.
	Environ []string

	// CacheDir is this program's cache directory; empty when unknown.
	CacheDir string

	Logger *slog.Logger
}

// Collector builds one report section.
type Collector func(ctx context.Context, src *Sources) *report.Node

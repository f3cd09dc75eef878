package sysinfo

import (
	"context"
	"time"

	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/probe"
	"github.com/doughall/devinfo/internal/report"
)

const androidIDHint = "A 64-bit number (as a hex string) that is randomly generated on the device's first boot " +
	"and should remain constant for the lifetime of the device. " +
	"(The value may change if a factory reset is performed on the device.)"

// collectOS reports device and kernel identity.
func collectOS(ctx context.Context, src *Sources) *report.Node {
	p := src.Probe
	g := report.NewGroup("OS")

	g.Add(report.Unknown(report.PlaceholderMarker + "Browser UserAgent"))

	id, ok := p.String(ctx, platform.SourceSettings, "android_id")
	g.Add(report.Maybe("Android ID", id, ok).WithHint(androidIDHint))

	addString(ctx, g, p, "Hostname", platform.SourceHost, "Hostname")
	addString(ctx, g, p, "Host ID", platform.SourceHost, "HostID")

	plat, ok := p.String(ctx, platform.SourceHost, "Platform")
	if ok {
		if ver, vok := p.String(ctx, platform.SourceHost, "PlatformVersion"); vok {
			plat += " " + ver
		}
	}
	g.Add(report.Maybe("Platform", plat, ok))
	addString(ctx, g, p, "Platform Family", platform.SourceHost, "PlatformFamily")

	sysname, ok := p.String(ctx, platform.SourceKernel, "sysname")
	if ok {
		if rel, rok := p.String(ctx, platform.SourceKernel, "release"); rok {
			sysname += " " + rel
		}
	}
	g.Add(report.Maybe("Kernel", sysname, ok))
	addString(ctx, g, p, "Architecture", platform.SourceKernel, "machine")

	if virt, ok := probe.FieldAs[string](ctx, p, platform.SourceHost, "VirtualizationSystem"); ok {
		if role, rok := probe.FieldAs[string](ctx, p, platform.SourceHost, "VirtualizationRole"); rok {
			virt += " (" + role + ")"
		}
		g.Add(report.Leaf("Virtualization", virt))
	}

	boot, ok := probe.FieldAs[uint64](ctx, p, platform.SourceHost, "BootTime")
	if ok && boot > 0 {
		g.Add(report.Leaf("Boot Time", formatTime(time.Unix(int64(boot), 0))))
	} else {
		g.Add(report.Unknown("Boot Time"))
	}

	up, ok := probe.CallAs[time.Duration](ctx, p, platform.SourceKernel, "uptime")
	g.Add(report.Maybe("Uptime", formatUptime(up), ok))
	awake, ok := probe.CallAs[time.Duration](ctx, p, platform.SourceKernel, "uptimeAwake")
	g.Add(report.Maybe("Uptime (without sleeps)", formatUptime(awake), ok))

	return g
}

type buildEntry struct {
	name     string
	field    string
	hint     string
	optional bool
}

// versionEntries sit between "Android version" and "API LEVEL".
var versionEntries = []buildEntry{
	{"Release Codename", "VERSION.CODENAME", "", true},
	{"Release version incremental", "VERSION.INCREMENTAL",
		"The internal value used by the underlying source control to represent this build. " +
			"E.g., a perforce changelist number or a git hash.", true},
}

// buildEntries follows android.os.Build; optional entries are omitted when
// the platform does not define them.
var buildEntries = []buildEntry{
	{"CPU ABI", "CPU_ABI", "The name of the instruction set (CPU type + ABI convention) of native code.", true},
	{"CPU ABI 2", "CPU_ABI2", "The name of the second instruction set (CPU type + ABI convention) of native code.", true},
	{"Manufacturer", "MANUFACTURER", "The manufacturer of the product/hardware.", true},
	{"Bootloader", "BOOTLOADER", "The system bootloader version number.", true},
	{"Hardware", "HARDWARE", "The name of the hardware (from the kernel command line or /proc).", true},
	{"Radio", "", "The version string for the radio firmware.", true},
	{"Board", "BOARD", "The name of the underlying board.", true},
	{"Brand", "BRAND", "The brand (e.g., carrier) the software is customized for, if any.", true},
	{"Device", "DEVICE", "The name of the industrial design.", true},
	{"Display", "DISPLAY", "A build ID string meant for displaying to the user.", true},
	{"Fingerprint", "FINGERPRINT", "A string that uniquely identifies this build.", true},
	{"Host", "HOST", "", false},
	{"ID", "ID", "", false},
	{"Model", "MODEL", "The end-user-visible name for the end product.", false},
	{"Product", "PRODUCT", "The name of the overall product.", false},
	{"Tags", "TAGS", "Comma-separated tags describing the build, like \"unsigned,debug\".", false},
	{"Type", "TYPE", "The type of build.", false},
	{"User", "USER", "", false},
}

// collectBuild reports Android build metadata.
func collectBuild(ctx context.Context, src *Sources) *report.Node {
	p := src.Probe
	g := report.NewGroup("BuildInfos")

	release, ok := p.String(ctx, platform.SourceBuild, "VERSION.RELEASE")
	g.Add(report.Maybe("Android version", release, ok))
	addBuildEntries(ctx, p, g, versionEntries)

	sdk := sdkVersion(ctx, p)
	g.Add(report.Maybe("API LEVEL", itoa(sdk), sdk != -1).
		WithHint("The user-visible SDK version of the framework."))

	addBuildEntries(ctx, p, g, buildEntries)

	if ms, ok := probe.FieldAs[int64](ctx, p, platform.SourceBuild, "TIME"); ok {
		g.Add(report.Leaf("Time", formatTime(time.UnixMilli(ms))))
	} else {
		g.Add(report.Unknown("Time"))
	}
	return g
}

func addBuildEntries(ctx context.Context, p *probe.Prober, g *report.Node, entries []buildEntry) {
	for _, e := range entries {
		var (
			v  string
			ok bool
		)
		if e.name == "Radio" {
			v, ok = radioVersion(ctx, p)
		} else {
			v, ok = p.String(ctx, platform.SourceBuild, e.field)
		}
		if !ok && e.optional {
			continue
		}
		n := report.Maybe(e.name, v, ok)
		if e.hint != "" {
			n = n.WithHint(e.hint)
		}
		g.Add(n)
	}
}

// sdkVersion prefers VERSION.SDK_INT and falls back to VERSION.SDK.
func sdkVersion(ctx context.Context, p *probe.Prober) int {
	if v := p.Int(ctx, platform.SourceBuild, "VERSION.SDK_INT", -1); v != -1 {
		return v
	}
	return p.Int(ctx, platform.SourceBuild, "VERSION.SDK", -1)
}

// radioVersion prefers getRadioVersion and falls back to the RADIO field.
func radioVersion(ctx context.Context, p *probe.Prober) (string, bool) {
	if v, ok := p.CallString(ctx, platform.SourceBuild, "getRadioVersion"); ok && v != "" {
		return v, true
	}
	return p.String(ctx, platform.SourceBuild, "RADIO")
}

func addString(ctx context.Context, g *report.Node, p *probe.Prober, name, sourceID, field string) {
	v, ok := p.String(ctx, sourceID, field)
	g.Add(report.Maybe(name, v, ok))
}

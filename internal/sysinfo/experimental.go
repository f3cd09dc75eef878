package sysinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/probe"
	"github.com/doughall/devinfo/internal/report"
)

// collectNetworks lists network interfaces, one group per interface.
func collectNetworks(ctx context.Context, src *Sources) *report.Node {
	g := report.NewGroup("Networks")
	ifaces, ok := probe.CallAs[[]platform.NetInterface](ctx, src.Probe, platform.SourceDevices, "interfaces")
	if !ok {
		return g
	}
	for _, i := range ifaces {
		n := report.NewGroup(i.Name)
		n.Add(report.Maybe("Hardware Address", i.HardwareAddr, i.HardwareAddr != ""))
		n.Add(report.Leaf("MTU", itoa(i.MTU)))
		n.Add(report.Leaf("Flags", strings.Join(i.Flags, ",")))
		for _, a := range i.Addrs {
			n.Add(report.Leaf("Address", a))
		}
		g.Add(n)
	}
	return g
}

// collectSensors lists thermal sensor readings.
func collectSensors(ctx context.Context, src *Sources) *report.Node {
	g := report.NewGroup("Sensors")
	temps, ok := probe.CallAs[[]platform.Temperature](ctx, src.Probe, platform.SourceDevices, "temperatures")
	if !ok {
		return g
	}
	for _, t := range temps {
		v := fmt.Sprintf("%.1f°C", t.Celsius)
		if t.Critical > 0 {
			v += fmt.Sprintf(" (critical %.1f°C)", t.Critical)
		}
		g.Add(report.Leaf(t.Sensor, v))
	}
	return g
}

// collectMounts lists mounted filesystems as "device on mountpoint type fstype (opts)".
func collectMounts(ctx context.Context, src *Sources) *report.Node {
	g := report.NewGroup("Mount points")
	mounts, ok := probe.CallAs[[]platform.Mount](ctx, src.Probe, platform.SourceDevices, "partitions")
	if !ok {
		return g
	}
	for _, m := range mounts {
		g.Add(report.Leaf(m.Mountpoint,
			fmt.Sprintf("%s type %s (%s)", m.Device, m.Fstype, strings.Join(m.Opts, ","))))
	}
	return g
}

// emptySection returns a collector for a section with nothing to collect yet.
func emptySection(name string) Collector {
	return func(context.Context, *Sources) *report.Node {
		return report.NewGroup(name)
	}
}

package sysinfo

import (
	"context"

	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/probe"
	"github.com/doughall/devinfo/internal/report"
)

var publicDirectories = []struct {
	name  string
	field string
	hint  string
}{
	{"Alarms Directory", "DIRECTORY_ALARMS",
		"Standard directory in which to place any audio files that should be in the list of alarms that the user can select (not as regular music)."},
	{"DCIM Directory", "DIRECTORY_DCIM",
		"The traditional location for pictures and videos when mounting the device as a camera."},
	{"Downloads Directory", "DIRECTORY_DOWNLOADS",
		"Standard directory in which to place files that have been downloaded by the user."},
	{"Movies Directory", "DIRECTORY_MOVIES",
		"Standard directory in which to place movies that are available to the user."},
	{"Music Directory", "DIRECTORY_MUSIC",
		"Standard directory in which to place any audio files that should be in the regular list of music for the user."},
	{"Notifications Directory", "DIRECTORY_NOTIFICATIONS",
		"Standard directory in which to place any audio files that should be in the list of notifications that the user can select (not as regular music)."},
	{"Pictures Directory", "DIRECTORY_PICTURES",
		"Standard directory in which to place pictures that are available to the user."},
	{"Podcasts Directory", "DIRECTORY_PODCASTS",
		"Standard directory in which to place any audio files that should be in the list of podcasts that the user can select (not as regular music)."},
	{"Ringtones Directory", "DIRECTORY_RINGTONES",
		"Standard directory in which to place any audio files that should be in the list of ringtones that the user can select (not as regular music)."},
}

// collectEnvironment reports well-known directories and external storage.
func collectEnvironment(ctx context.Context, src *Sources) *report.Node {
	p := src.Probe
	g := report.NewGroup("Environment")
	const env = platform.SourceEnvironment

	root, ok := p.CallString(ctx, env, "getRootDirectory")
	g.Add(report.Maybe("Root Directory", root, ok))
	data, ok := p.CallString(ctx, env, "getDataDirectory")
	g.Add(report.Maybe("Data Directory", data, ok))
	cache, ok := p.CallString(ctx, env, "getDownloadCacheDirectory")
	g.Add(report.Maybe("Download Cache Directory", cache, ok))

	state, ok := p.CallString(ctx, env, "getExternalStorageState")
	g.Add(report.Maybe("External Storage State", state, ok))
	mounted, _ := p.String(ctx, env, "MEDIA_MOUNTED")
	if ok && state == mounted {
		dir, dok := p.CallString(ctx, env, "getExternalStorageDirectory")
		g.Add(report.Maybe("External Storage Directory", dir, dok))
	}
	if emulated, ok := p.CallBool(ctx, env, "isExternalStorageEmulated"); ok {
		g.Add(report.Leaf("External Storage Is Emulated", yesNo(emulated)))
	}
	if removable, ok := p.CallBool(ctx, env, "isExternalStorageRemovable"); ok {
		g.Add(report.Leaf("External Storage Is Removable", yesNo(removable)))
	}

	for _, d := range publicDirectories {
		v, ok := p.String(ctx, env, d.field)
		g.Add(report.Maybe(d.name, v, ok).WithHint(d.hint))
	}
	return g
}

// collectFeatures lists the system feature set.
func collectFeatures(ctx context.Context, src *Sources) *report.Node {
	g := report.NewGroup("Features")
	features, ok := probe.CallAs[[]platform.Feature](ctx, src.Probe, platform.SourcePackages, "getSystemAvailableFeatures")
	if !ok {
		g.Add(report.Leaf("feature", "is not available on this platform"))
		return g
	}
	for _, f := range features {
		if f.Name == "" {
			g.Add(report.Maybe("glEsVers", f.GlEsVersion, f.GlEsVersion != ""))
			continue
		}
		g.Add(report.Leaf("feature", f.Name))
	}
	return g
}

package sysinfo

import (
	"context"
	"log/slog"
	"os"
	"os/user"
	"runtime"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/probe"
	"github.com/doughall/devinfo/internal/report"
	"github.com/doughall/devinfo/internal/version"
)

// collectRuntime reports facts about the Go runtime and this process.
func collectRuntime(ctx context.Context, src *Sources) *report.Node {
	g := report.NewGroup("Runtime Properties")
	g.Add(
		report.Leaf("go.version", runtime.Version()),
		report.Leaf("go.os", runtime.GOOS),
		report.Leaf("go.arch", runtime.GOARCH),
		report.Leaf("go.compiler", runtime.Compiler),
		report.Leaf("go.cpus", strconv.Itoa(runtime.NumCPU())),
		report.Leaf("go.maxprocs", strconv.Itoa(runtime.GOMAXPROCS(0))),
		report.Leaf("process.pid", strconv.Itoa(os.Getpid())),
	)

	exe, err := os.Executable()
	g.Add(report.Maybe("process.executable", exe, err == nil))
	wd, err := os.Getwd()
	g.Add(report.Maybe("process.workdir", wd, err == nil))

	if u, err := user.Current(); err == nil {
		g.Add(report.Leaf("user.name", u.Username), report.Leaf("user.home", u.HomeDir))
	} else {
		src.Logger.Warn("cannot resolve current user", slog.String("error", err.Error()))
		g.Add(report.Unknown("user.name"), report.Unknown("user.home"))
	}
	g.Add(
		report.Leaf("os.tempdir", os.TempDir()),
		report.Leaf("os.path.separator", string(os.PathSeparator)),
		report.Leaf("os.path.list.separator", string(os.PathListSeparator)),
	)

	p := src.Probe
	ppid, ok := probe.FieldAs[int32](ctx, p, platform.SourceSelf, "Parent")
	g.Add(report.Maybe("process.ppid", strconv.Itoa(int(ppid)), ok))
	cmdline, ok := probe.FieldAs[string](ctx, p, platform.SourceSelf, "Cmdline")
	g.Add(report.Maybe("process.cmdline", cmdline, ok))
	created, ok := probe.FieldAs[int64](ctx, p, platform.SourceSelf, "CreateTime")
	g.Add(report.Maybe("process.started", formatTime(time.UnixMilli(created)), ok))

	g.Add(
		report.Leaf("devinfo.version", version.Version),
		report.Leaf("devinfo.commit", version.Commit),
	)
	if bi, ok := debug.ReadBuildInfo(); ok {
		g.Add(report.Leaf("build.path", bi.Path))
		g.Add(report.Leaf("build.module", bi.Main.Path+"@"+bi.Main.Version))
		for _, s := range bi.Settings {
			g.Add(report.Leaf("build."+s.Key, s.Value))
		}
	}
	return g
}

// collectMisc reports the cache directory, kernel version string and the
// process environment sorted by variable name.
func collectMisc(_ context.Context, src *Sources) *report.Node {
	g := report.NewGroup("Misc")
	g.Add(report.Maybe("CacheDir", src.CacheDir, src.CacheDir != ""))
	g.Add(report.Unknown(report.PlaceholderMarker + "ExternalCacheDir"))
	g.Add(report.Unknown(report.PlaceholderMarker + "ExternalFilesDir"))

	procVersion, err := platform.ReadFile(src.FS, platform.VersionPath)
	if err != nil {
		src.Logger.Warn("cannot read pseudo-file", slog.String("error", err.Error()))
	}
	procVersion = strings.TrimSpace(procVersion)
	g.Add(report.Maybe("Kernel version", procVersion, err == nil))
	g.Add(report.Unknown(report.PlaceholderMarker + "Android input methods"))

	for _, kv := range sortedEnviron(src.Environ) {
		g.Add(report.Leaf(kv.Name, kv.Value))
	}
	return g
}

// sortedEnviron splits KEY=value pairs and sorts them by key. A later
// duplicate key wins, as with os.Getenv.
func sortedEnviron(environ []string) []platform.KeyValue {
	vars := make(map[string]string, len(environ))
	for _, e := range environ {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]platform.KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, platform.KeyValue{Name: k, Value: vars[k]})
	}
	return out
}

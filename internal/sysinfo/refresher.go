package sysinfo

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/doughall/devinfo/internal/battery"
	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/probe"
	"github.com/doughall/devinfo/internal/report"
)

// SourceFactory builds the platform sources for one refresh.
type SourceFactory func(ctx context.Context, fsys fs.FS, environ []string) []platform.Source

// RefresherConfig configures a Refresher. Zero values select the live system.
type RefresherConfig struct {
	FS             fs.FS
	Runner         platform.Runner
	BuildPropFiles []string
	Battery        *battery.Monitor
	Environ        func() []string
	CacheDir       string

	// Sources overrides the platform adapters, mainly for tests.
	Sources SourceFactory
}

// Refresher produces a complete, independent report on every call.
type Refresher struct {
	cfg    RefresherConfig
	logger *slog.Logger
}

// NewRefresher creates a refresher over cfg.
func NewRefresher(cfg RefresherConfig, logger *slog.Logger) *Refresher {
	if cfg.FS == nil {
		cfg.FS = platform.RootFS("/")
	}
	if cfg.Runner == nil {
		cfg.Runner = &platform.ExecRunner{Timeout: platform.DefaultCommandTimeout}
	}
	if cfg.Environ == nil {
		cfg.Environ = os.Environ
	}
	if cfg.CacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cfg.CacheDir = filepath.Join(dir, "devinfo")
		}
	}
	if cfg.Sources == nil {
		cfg.Sources = liveSources(cfg.Runner, cfg.BuildPropFiles)
	}
	return &Refresher{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "sysinfo")),
	}
}

func liveSources(runner platform.Runner, buildProps []string) SourceFactory {
	return func(ctx context.Context, fsys fs.FS, environ []string) []platform.Source {
		return []platform.Source{
			platform.NewBuild(fsys, runner, buildProps...),
			platform.NewSettings(runner),
			platform.NewHost(ctx),
			platform.NewKernel(),
			platform.NewMemory(ctx),
			platform.NewProcessor(),
			platform.NewEnvironment(fsys, environ, platform.IsAndroid(fsys, environ)),
			platform.NewPackageManager(runner),
			platform.NewDevices(),
			platform.NewSelf(ctx),
		}
	}
}

// Tree collects a fresh report tree.
func (r *Refresher) Tree(ctx context.Context, opts Options) *report.Node {
	environ := r.cfg.Environ()
	src := &Sources{
		Probe:    probe.New(r.logger, r.cfg.Sources(ctx, r.cfg.FS, environ)...),
		FS:       r.cfg.FS,
		Environ:  environ,
		CacheDir: r.cfg.CacheDir,
		Logger:   r.logger,
	}
	if r.cfg.Battery != nil {
		src.Battery = r.cfg.Battery.Latest()
	}
	return Assemble(ctx, src, opts)
}

// Refresh collects a fresh report and renders it as plain text.
func (r *Refresher) Refresh(ctx context.Context, opts Options, render report.RenderOptions) string {
	return report.Render(r.Tree(ctx, opts), render)
}

// WriteReport collects a fresh report and writes it to w.
func (r *Refresher) WriteReport(ctx context.Context, w io.Writer, opts Options, render report.RenderOptions) error {
	return report.WriteText(w, r.Tree(ctx, opts), render)
}

// devinfo - Entry Point
//
// devinfo collects facts about the device it runs on (identity, build
// metadata, battery, memory, low-memory-killer tuning, CPU, storage, system
// features, runtime properties and environment) and prints them as a
// sectioned plain-text report.
//
// Configuration is loaded from /etc/devinfo/config.yaml when present (or
// the path given by --config). Flags override the file.
//
// Modes:
//   - default: print one report to stdout and exit
//   - --watch: refresh on a cron schedule into stdout or --output
//   - --listen: serve GET /report over HTTP
//
// Lifecycle of the long-running modes:
//  1. Load configuration and set up the stderr logger
//  2. Start the battery monitor
//  3. Start the reporter and/or HTTP server
//  4. Notify systemd that the service is ready (Type=notify)
//  5. Wait for SIGTERM/SIGINT
//  6. Notify systemd that the service is stopping
//  7. Coordinated shutdown with timeout
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/doughall/devinfo/internal/battery"
	"github.com/doughall/devinfo/internal/config"
	"github.com/doughall/devinfo/internal/logging"
	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/report"
	"github.com/doughall/devinfo/internal/server"
	"github.com/doughall/devinfo/internal/shutdown"
	"github.com/doughall/devinfo/internal/sysinfo"
	"github.com/doughall/devinfo/internal/systemd"
	"github.com/doughall/devinfo/internal/version"
)

// How long to wait for graceful shutdown.
const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 2
	}

	if flags.showVersion {
		fmt.Fprintln(stdout, version.Info())
		return 0
	}

	if flags.initConfig {
		cfg := config.Default()
		flags.apply(cfg)
		if err := config.Save(flags.configPath, cfg); err != nil {
			fmt.Fprintf(stderr, "ERROR: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", flags.configPath)
		return 0
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		// Use basic stderr output before the logger is configured
		fmt.Fprintf(stderr, "ERROR: failed to load configuration from %s: %v\n", flags.configPath, err)
		return 1
	}

	logger := logging.SetupLogger(cfg.LogLevel, stderr)
	logger.Debug("devinfo starting",
		slog.String("version", version.Version),
		slog.String("config_path", flags.configPath),
		slog.String("root_fs", cfg.RootFS),
		slog.Bool("watch", flags.watch),
		slog.String("listen", cfg.Listen),
	)

	fsys := platform.RootFS(cfg.RootFS)
	monitor := battery.NewMonitor(fsys, logger)
	refresher := sysinfo.NewRefresher(sysinfo.RefresherConfig{
		FS:             fsys,
		Runner:         &platform.ExecRunner{Timeout: time.Duration(cfg.CommandTimeout) * time.Second},
		BuildPropFiles: cfg.BuildPropFiles,
		Battery:        monitor,
	}, logger)

	opts := sysinfo.Options{Experimental: cfg.ExperimentalSections}
	render := report.RenderOptions{HidePlaceholders: !cfg.ShowPlaceholders}

	if !flags.watch && cfg.Listen == "" {
		return runOnce(monitor, refresher, opts, render, stdout, logger)
	}
	return runService(cfg, flags.watch, monitor, refresher, opts, render, stdout, logger)
}

func loadConfig(flags *cliFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.explicitConfig() {
		cfg, err = config.Load(flags.configPath)
	} else {
		cfg, err = config.LoadOptional(flags.configPath)
	}
	if err != nil {
		return nil, err
	}
	flags.apply(cfg)
	return cfg, cfg.Validate()
}

// runOnce reads the power supply once so the Battery section is populated,
// then prints a single report.
func runOnce(monitor *battery.Monitor, refresher *sysinfo.Refresher, opts sysinfo.Options, render report.RenderOptions, stdout io.Writer, logger *slog.Logger) int {
	if err := monitor.Poll(); err != nil {
		logger.Debug("no battery reading", slog.String("error", err.Error()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := refresher.WriteReport(ctx, stdout, opts, render); err != nil {
		logger.Error("failed to write report", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func runService(cfg *config.Config, watch bool, monitor *battery.Monitor, refresher *sysinfo.Refresher, opts sysinfo.Options, render report.RenderOptions, stdout io.Writer, logger *slog.Logger) int {
	// Create shutdown context that listens for SIGTERM and SIGINT
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	notifier := systemd.NewNotifier(logger)
	coordinator := shutdown.NewCoordinator(logger)

	go monitor.Run(ctx, time.Duration(cfg.BatteryPollInterval)*time.Second)
	coordinator.Register("battery", monitor)

	// The watchdog is fed while the latest scheduled report succeeded.
	// Server-only mode has no schedule and stays healthy.
	var healthy atomic.Bool
	healthy.Store(true)

	var serveFailed atomic.Bool

	if watch {
		var sink sysinfo.Sink = sysinfo.WriterSink{W: stdout}
		if cfg.Output != "" {
			sink = sysinfo.FileSink{Path: cfg.Output}
		}
		reporter, err := sysinfo.NewReporter(refresher, cfg.Schedule, sink, opts, render, logger)
		if err != nil {
			logger.Error("invalid schedule", slog.String("error", err.Error()))
			return 1
		}
		reporter.OnReport(func(at time.Time, err error) {
			healthy.Store(err == nil)
			next := reporter.NextReport(at).Format(time.RFC3339)
			if err != nil {
				notifier.Status("report failed at %s: %v; next report %s", at.Format(time.RFC3339), err, next)
				return
			}
			notifier.Status("last report %s; next report %s", at.Format(time.RFC3339), next)
		})
		coordinator.Register("reporter", reporter)
		go reporter.Run(ctx)
	}

	if cfg.Listen != "" {
		srv := server.New(server.Config{
			Addr:             cfg.Listen,
			ShowPlaceholders: cfg.ShowPlaceholders,
			Experimental:     cfg.ExperimentalSections,
		}, refresher, logger)
		coordinator.Register("server", srv)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				logger.Error("server failed", slog.String("error", err.Error()))
				serveFailed.Store(true)
				stop()
			}
		}()
	}

	notifier.Ready()
	notifier.StartWatchdog(ctx, healthy.Load)
	logger.Info("devinfo ready",
		slog.Bool("watch", watch),
		slog.String("listen", cfg.Listen),
		slog.Bool("under_systemd", systemd.IsRunningUnderSystemd()),
	)

	<-ctx.Done()
	logger.Info("shutdown signal received, starting graceful shutdown")
	notifier.Stopping()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	exit := 0
	if err := coordinator.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		exit = 1
	}
	if serveFailed.Load() {
		exit = 1
	}
	logger.Info("shutdown complete")
	return exit
}

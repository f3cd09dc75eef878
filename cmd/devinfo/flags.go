package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/doughall/devinfo/internal/config"
)

// cliFlags holds the parsed command line. Settings that also exist in the
// config file are applied on top of it by apply, and only when given.
type cliFlags struct {
	set *pflag.FlagSet

	configPath  string
	initConfig  bool
	showVersion bool
	watch       bool

	logLevel     string
	placeholders bool
	experimental bool
	root         string
	output       string
	schedule     string
	listen       string
	timeout      time.Duration
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: pflag.NewFlagSet("devinfo", pflag.ContinueOnError)}
	fs := f.set
	fs.SetOutput(stderr)
	fs.Usage = func() { printHelp(stderr, fs) }

	fs.StringVarP(&f.configPath, "config", "c", config.DefaultConfigPath, "path to configuration file")
	fs.BoolVar(&f.initConfig, "init-config", false, "write a default configuration file to --config and exit")
	fs.BoolVar(&f.showVersion, "version", false, "print version information and exit")
	fs.BoolVarP(&f.watch, "watch", "w", false, "refresh the report on --schedule until interrupted")

	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (logs go to stderr)")
	fs.BoolVarP(&f.placeholders, "placeholders", "v", false, "verbose: also show entries that are known but not collected (\"*Name\")")
	fs.BoolVarP(&f.experimental, "experimental", "x", false, "include the experimental sections")
	fs.StringVar(&f.root, "root", "", "directory treated as / for /proc, /sys and build.prop")
	fs.StringVarP(&f.output, "output", "o", "", "file rewritten by --watch (default stdout)")
	fs.StringVar(&f.schedule, "schedule", "", "cron expression for --watch, e.g. \"@every 5m\"")
	fs.StringVarP(&f.listen, "listen", "l", "", "serve the report over HTTP on this address")
	fs.DurationVar(&f.timeout, "command-timeout", 0, "how long getprop, settings and pm may run")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return f, nil
}

// apply copies explicitly given flags over cfg.
func (f *cliFlags) apply(cfg *config.Config) {
	changed := f.set.Changed
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("placeholders") {
		cfg.ShowPlaceholders = f.placeholders
	}
	if changed("experimental") {
		cfg.ExperimentalSections = f.experimental
	}
	if changed("root") {
		cfg.RootFS = f.root
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("schedule") {
		cfg.Schedule = f.schedule
	}
	if changed("listen") {
		cfg.Listen = f.listen
	}
	if changed("command-timeout") {
		// Rounded up so sub-second values do not become "use the default".
		cfg.CommandTimeout = int((f.timeout + time.Second - 1) / time.Second)
	}
}

// explicitConfig reports whether --config was given, in which case a
// missing file is an error.
func (f *cliFlags) explicitConfig() bool {
	return f.set.Changed("config")
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, `devinfo prints a sectioned report of facts about the device it runs on.

Usage:
  devinfo [flags]

Examples:
  # Print the report once
  devinfo

  # Keep /run/devinfo/report.txt current every five minutes
  devinfo --watch --schedule "@every 5m" --output /run/devinfo/report.txt

  # Serve the report on GET /report
  devinfo --listen 127.0.0.1:8321

Flags:
%s`, fs.FlagUsages())
}

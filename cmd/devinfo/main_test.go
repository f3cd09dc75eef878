package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doughall/devinfo/internal/config"
	"github.com/doughall/devinfo/internal/version"
)

func TestParseFlagsOverrides(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "no flags keep file values",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Listen != "127.0.0.1:9000" || cfg.ShowPlaceholders || cfg.CommandTimeout != 5 {
					t.Errorf("file values overridden: %+v", cfg)
				}
			},
		},
		{
			name: "explicit flags win",
			args: []string{"--placeholders", "-x", "--root", "/srv/dev", "--listen", ":8080", "--log-level", "debug"},
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.ShowPlaceholders || !cfg.ExperimentalSections {
					t.Errorf("bool flags not applied: %+v", cfg)
				}
				if cfg.RootFS != "/srv/dev" || cfg.Listen != ":8080" || cfg.LogLevel != "debug" {
					t.Errorf("string flags not applied: %+v", cfg)
				}
			},
		},
		{
			name: "timeout rounds up",
			args: []string{"--command-timeout", "1500ms"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.CommandTimeout != 2 {
					t.Errorf("CommandTimeout = %d, want 2", cfg.CommandTimeout)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, err := parseFlags(tt.args, io.Discard)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			cfg := config.Default()
			cfg.Listen = "127.0.0.1:9000"
			flags.apply(cfg)
			tt.check(t, cfg)
		})
	}
}

func TestParseFlagsRejectsArguments(t *testing.T) {
	if _, err := parseFlags([]string{"report"}, io.Discard); err == nil {
		t.Error("expected an error for a positional argument")
	}
}

func TestRunVersion(t *testing.T) {
	var stdout bytes.Buffer
	if code := run([]string{"--version"}, &stdout, io.Discard); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if got := strings.TrimSpace(stdout.String()); got != version.Info() {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	var stdout bytes.Buffer
	if code := run([]string{"--init-config", "--config", path, "--schedule", "@hourly"}, &stdout, io.Discard); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Schedule != "@hourly" || cfg.ShowPlaceholders {
		t.Errorf("written config = %+v", cfg)
	}
}

func TestRunBadConfig(t *testing.T) {
	var stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if code := run([]string{"--config", missing}, io.Discard, &stderr); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "failed to load configuration") {
		t.Errorf("stderr = %q", stderr.String())
	}

	if code := run([]string{"--bogus"}, io.Discard, io.Discard); code != 2 {
		t.Errorf("unknown flag exit = %d, want 2", code)
	}
}

func TestRunOnce(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "root")
	if err := os.MkdirAll(filepath.Join(root, "proc"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "proc", "cpuinfo"), []byte("processor\t: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("command_timeout: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	code := run([]string{"--config", cfgPath, "--root", root}, &stdout, io.Discard)
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "# OS #\n") {
		t.Errorf("report should start with the OS section:\n%s", out)
	}
	for _, section := range []string{"# Battery #", "# CPU #", "# Misc #"} {
		if !strings.Contains(out, section) {
			t.Errorf("report missing %q", section)
		}
	}
	if strings.Contains(out, "*Browser UserAgent") {
		t.Error("placeholders should be hidden by default")
	}

	stdout.Reset()
	if code := run([]string{"--config", cfgPath, "--root", root, "--placeholders"}, &stdout, io.Discard); code != 0 {
		t.Fatalf("verbose exit = %d", code)
	}
	if !strings.Contains(stdout.String(), " *Browser UserAgent: <None>\n") {
		t.Errorf("--placeholders should show placeholders:\n%s", stdout.String())
	}
}

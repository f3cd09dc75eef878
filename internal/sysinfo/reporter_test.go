package sysinfo

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/doughall/devinfo/internal/platform"
	"github.com/doughall/devinfo/internal/report"
)

func testRefresher() *Refresher {
	return NewRefresher(RefresherConfig{
		FS:       fixtureFS(),
		Environ:  func() []string { return []string{"HOME=/root", "LANG=C"} },
		CacheDir: "/tmp/devinfo",
		Sources: func(context.Context, fs.FS, []string) []platform.Source {
			return fixtureSources()
		},
	}, nopLogger())
}

func TestRefreshIsIdempotent(t *testing.T) {
	r := testRefresher()
	ctx := context.Background()
	opts := Options{Experimental: true}

	first := r.Refresh(ctx, opts, report.RenderOptions{})
	second := r.Refresh(ctx, opts, report.RenderOptions{})
	if first != second {
		t.Errorf("refreshes differ:\n%s\n---\n%s", first, second)
	}
	if !strings.HasPrefix(first, "# OS #\n") {
		t.Errorf("report should start with the OS section, got %q", first[:min(40, len(first))])
	}
	if !strings.Contains(first, "\n# Misc #\n") {
		t.Error("report is missing the Misc section")
	}
}

func TestRefreshIsIdempotentWithLiveProcess(t *testing.T) {
	r := NewRefresher(RefresherConfig{
		FS:       fixtureFS(),
		Environ:  func() []string { return []string{"HOME=/root"} },
		CacheDir: "/tmp/devinfo",
		Sources: func(ctx context.Context, _ fs.FS, _ []string) []platform.Source {
			return append(fixtureSources(), platform.NewSelf(ctx))
		},
	}, nopLogger())
	ctx := context.Background()

	first := r.Refresh(ctx, Options{}, report.RenderOptions{})
	second := r.Refresh(ctx, Options{}, report.RenderOptions{})
	if first != second {
		t.Errorf("refreshes differ:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(first, " process.started: ") {
		t.Error("process start time missing from Runtime Properties")
	}
}

func TestRefreshHidesPlaceholders(t *testing.T) {
	r := testRefresher()
	ctx := context.Background()

	shown := r.Refresh(ctx, Options{}, report.RenderOptions{})
	hidden := r.Refresh(ctx, Options{}, report.RenderOptions{HidePlaceholders: true})
	if !strings.Contains(shown, "*Browser UserAgent: <None>") {
		t.Error("placeholder missing from default output")
	}
	for _, p := range []string{"*Browser UserAgent", "*Frequency Stats (time)", "*ExternalCacheDir"} {
		if strings.Contains(hidden, p) {
			t.Errorf("placeholder %q leaked into hidden output", p)
		}
	}
}

func TestRefresherReadsBatteryMonitor(t *testing.T) {
	r := testRefresher()
	tree := r.Tree(context.Background(), Options{})
	if v, ok := tree.Find("Battery").Find("Level").Value(); ok {
		t.Errorf("Level = %q before any battery delivery, want absent", v)
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	sink := FileSink{Path: path}

	for _, text := range []string{"first\n", "second\n"} {
		if err := sink.WriteReport([]byte(text)); err != nil {
			t.Fatalf("WriteReport: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if string(got) != text {
			t.Errorf("file = %q, want %q", got, text)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestFileSinkMissingDir(t *testing.T) {
	sink := FileSink{Path: filepath.Join(t.TempDir(), "missing", "report.txt")}
	if err := sink.WriteReport([]byte("x")); err == nil {
		t.Error("expected error for a missing directory")
	}
}

type recordingSink struct {
	mu      sync.Mutex
	reports []string
}

func (s *recordingSink) WriteReport(text []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, string(text))
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func TestReporterRunAndShutdown(t *testing.T) {
	sink := &recordingSink{}
	rep, err := NewReporter(testRefresher(), "@every 1h", sink, Options{}, report.RenderOptions{}, nopLogger())
	if err != nil {
		t.Fatalf("NewReporter: %v", err)
	}
	reported := make(chan error, 1)
	rep.OnReport(func(_ time.Time, err error) {
		select {
		case reported <- err:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		rep.Run(context.Background())
		close(done)
	}()

	select {
	case err := <-reported:
		if err != nil {
			t.Fatalf("first report failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no report on startup")
	}
	if sink.count() != 1 {
		t.Errorf("reports = %d, want 1", sink.count())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rep.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestNewReporterRejectsBadSchedule(t *testing.T) {
	if _, err := NewReporter(testRefresher(), "every minute", &recordingSink{}, Options{}, report.RenderOptions{}, nopLogger()); err == nil {
		t.Error("expected a schedule parse error")
	}
}

func TestNextReport(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		expr string
		want time.Time
	}{
		{"", base.Add(time.Minute)},
		{"@every 1m", base.Add(time.Minute)},
		{"@hourly", base.Add(time.Hour)},
		{"30 10 * * *", base.Add(30 * time.Minute)},
	}
	for _, tt := range tests {
		rep, err := NewReporter(testRefresher(), tt.expr, &recordingSink{}, Options{}, report.RenderOptions{}, nopLogger())
		if err != nil {
			t.Errorf("NewReporter(%q): %v", tt.expr, err)
			continue
		}
		if got := rep.NextReport(base); !got.Equal(tt.want) {
			t.Errorf("NextReport(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

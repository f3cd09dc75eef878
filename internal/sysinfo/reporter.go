// Package sysinfo - Reporter Component
//
// This file implements the scheduled reporter used by watch mode. It
// refreshes the report immediately on start and then on every tick of a
// cron schedule, writing each rendered report to a sink.
//
// Key features:
//   - Reports immediately on startup
//   - Cron expressions and descriptors ("@every 1m", "@hourly")
//   - File sinks are replaced atomically so readers never see a partial report
//   - Graceful shutdown via context cancellation
package sysinfo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/doughall/devinfo/internal/report"
)

// DefaultSchedule is how often watch mode refreshes the report.
const DefaultSchedule = "@every 1m"

// Sink receives each rendered report.
type Sink interface {
	WriteReport(text []byte) error
}

// WriterSink writes every report to W, e.g. os.Stdout.
type WriterSink struct {
	W io.Writer
}

// WriteReport implements Sink.
func (s WriterSink) WriteReport(text []byte) error {
	_, err := s.W.Write(text)
	return err
}

// FileSink replaces Path with each report via a temporary file and rename.
type FileSink struct {
	Path string
}

// WriteReport implements Sink.
func (s FileSink) WriteReport(text []byte) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(text); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

// Reporter refreshes the report on a schedule.
type Reporter struct {
	refresher *Refresher
	schedule  cron.Schedule
	sink      Sink
	opts      Options
	render    report.RenderOptions
	logger    *slog.Logger
	now       func() time.Time

	// Called after every attempt; used by systemd status updates.
	onReport func(at time.Time, err error)

	// Synchronization for graceful shutdown
	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewReporter creates a reporter. expression is a cron expression; an empty
// one means DefaultSchedule.
func NewReporter(refresher *Refresher, expression string, sink Sink, opts Options, render report.RenderOptions, logger *slog.Logger) (*Reporter, error) {
	if expression == "" {
		expression = DefaultSchedule
	}
	schedule, err := ParseSchedule(expression)
	if err != nil {
		return nil, err
	}
	return &Reporter{
		refresher: refresher,
		schedule:  schedule,
		sink:      sink,
		opts:      opts,
		render:    render,
		logger:    logger.With(slog.String("component", "sysinfo-reporter")),
		now:       time.Now,
	}, nil
}

// OnReport registers fn to be called after every refresh attempt.
func (r *Reporter) OnReport(fn func(at time.Time, err error)) {
	r.onReport = fn
}

// NextReport returns the first scheduled report time after t.
func (r *Reporter) NextReport(t time.Time) time.Time {
	return r.schedule.Next(t)
}

// Run reports immediately and then on every scheduled tick.
// It blocks until the context is cancelled or Shutdown is called.
func (r *Reporter) Run(ctx context.Context) {
	internalCtx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	r.logger.Info("sysinfo reporter starting")

	r.reportOnce(internalCtx)

	for {
		next := r.NextReport(r.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-internalCtx.Done():
			timer.Stop()
			r.logger.Info("sysinfo reporter stopped")
			return
		case <-timer.C:
			r.reportOnce(internalCtx)
		}
	}
}

// reportOnce performs a single refresh and write cycle.
func (r *Reporter) reportOnce(ctx context.Context) {
	r.wg.Add(1)
	defer r.wg.Done()

	// Check if context is already cancelled
	select {
	case <-ctx.Done():
		return
	default:
	}

	started := r.now()
	var buf bytes.Buffer
	err := r.refresher.WriteReport(ctx, &buf, r.opts, r.render)
	if err == nil {
		err = r.sink.WriteReport(buf.Bytes())
	}
	if r.onReport != nil {
		r.onReport(started, err)
	}
	if err != nil {
		r.logger.Warn("failed to write report",
			slog.String("error", err.Error()),
		)
		return
	}

	r.logger.Debug("report written",
		slog.Int("bytes", buf.Len()),
		slog.Duration("took", r.now().Sub(started)),
	)
}

// Shutdown stops the reporter and waits for any in-flight work to complete.
func (r *Reporter) Shutdown(ctx context.Context) error {
	r.logger.Info("sysinfo reporter shutting down")

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	// Wait for in-flight work with timeout
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("sysinfo reporter shutdown complete")
		return nil
	case <-ctx.Done():
		r.logger.Warn("sysinfo reporter shutdown timed out")
		return ctx.Err()
	}
}

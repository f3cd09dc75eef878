package battery

import (
	"context"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPollInterval is how often Run re-reads sysfs.
const DefaultPollInterval = 30 * time.Second

// Monitor keeps the most recent battery snapshot.
//
// Deliver and Poll publish a new snapshot; Latest returns it without
// locking. Latest is nil until the first delivery.
type Monitor struct {
	fsys   fs.FS
	logger *slog.Logger
	now    func() time.Time

	latest atomic.Pointer[Snapshot]

	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewMonitor creates a monitor that polls sysfs under fsys.
func NewMonitor(fsys fs.FS, logger *slog.Logger) *Monitor {
	return &Monitor{
		fsys:   fsys,
		logger: logger.With(slog.String("component", "battery")),
		now:    time.Now,
	}
}

// Latest returns the last delivered snapshot, or nil.
func (m *Monitor) Latest() *Snapshot {
	return m.latest.Load()
}

// Deliver publishes a snapshot built from notification extras.
func (m *Monitor) Deliver(extras map[string]string) {
	s := FromExtras(extras, m.now())
	m.latest.Store(&s)
	m.logger.Debug("battery state received",
		slog.Int("health", s.Health),
		slog.Int("level", s.Level),
		slog.Int("plugged", s.Plugged),
		slog.Bool("present", s.Present),
		slog.Int("scale", s.Scale),
		slog.Int("status", s.Status),
		slog.String("technology", s.Technology),
		slog.Int("temperature", s.Temperature),
		slog.Int("voltage", s.Voltage),
	)
}

// Poll reads sysfs once and delivers the result. A missing battery is
// logged at debug level and leaves the previous snapshot in place.
func (m *Monitor) Poll() error {
	extras, err := ReadSysfs(m.fsys)
	if err != nil {
		m.logger.Debug("battery poll failed", slog.String("error", err.Error()))
		return err
	}
	m.Deliver(extras)
	return nil
}

// Run polls immediately and then every interval until ctx is cancelled or
// Shutdown is called.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	internalCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	defer m.wg.Done()
	defer cancel()

	m.logger.Info("battery monitor starting", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = m.Poll()
	for {
		select {
		case <-internalCtx.Done():
			m.logger.Info("battery monitor stopped")
			return
		case <-ticker.C:
			_ = m.Poll()
		}
	}
}

// Shutdown stops Run and waits for it to return or for ctx to expire.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

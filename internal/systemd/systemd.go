// Package systemd reports devinfo's state to systemd when it runs as a
// Type=notify service in watch or listen mode.
//
// Every call degrades to a no-op when NOTIFY_SOCKET is unset, so the same
// binary works from a shell.
package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier sends sd_notify messages.
type Notifier struct {
	logger *slog.Logger
}

// NewNotifier returns a Notifier that logs under component=systemd.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger.With(slog.String("component", "systemd"))}
}

// Ready sends READY=1 once the first report has been produced or the
// server is listening.
// Returns true if the notification was sent.
func (n *Notifier) Ready() bool {
	return n.send(daemon.SdNotifyReady, "ready")
}

// Stopping sends STOPPING=1 at the start of shutdown.
func (n *Notifier) Stopping() bool {
	return n.send(daemon.SdNotifyStopping, "stopping")
}

// Status sets the free-form STATUS= line shown by systemctl status.
func (n *Notifier) Status(format string, args ...any) bool {
	return n.send("STATUS="+fmt.Sprintf(format, args...), "status")
}

func (n *Notifier) send(state, what string) bool {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		n.logger.Warn("failed to send systemd notification",
			slog.String("state", what),
			slog.String("error", err.Error()),
		)
		return false
	}
	if sent {
		n.logger.Debug("sent systemd notification", slog.String("state", what))
	}
	return sent
}

// HealthCheckFunc reports whether the service is healthy enough to ping
// the watchdog.
type HealthCheckFunc func() bool

// StartWatchdog pings WATCHDOG=1 every half WatchdogSec while healthCheck
// returns true. It does nothing when the unit has no WatchdogSec.
// The goroutine exits when ctx is cancelled.
func (n *Notifier) StartWatchdog(ctx context.Context, healthCheck HealthCheckFunc) bool {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		n.logger.Debug("watchdog not enabled", slog.String("error", err.Error()))
		return false
	}
	if interval == 0 {
		return false
	}

	pingInterval := interval / 2
	n.logger.Info("starting systemd watchdog",
		slog.Duration("watchdog_interval", interval),
		slog.Duration("ping_interval", pingInterval),
	)

	go n.watchdogLoop(ctx, pingInterval, healthCheck)
	return true
}

func (n *Notifier) watchdogLoop(ctx context.Context, interval time.Duration, healthCheck HealthCheckFunc) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !healthCheck() {
				n.logger.Warn("health check failed, skipping watchdog ping")
				continue
			}
			n.send(daemon.SdNotifyWatchdog, "watchdog")
		}
	}
}

// IsRunningUnderSystemd returns true if NOTIFY_SOCKET is set.
func IsRunningUnderSystemd() bool {
	return os.Getenv("NOTIFY_SOCKET") != ""
}

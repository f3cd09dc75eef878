package systemd

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyWithoutSocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	t.Setenv("WATCHDOG_USEC", "")
	n := NewNotifier(nopLogger())

	if IsRunningUnderSystemd() {
		t.Error("IsRunningUnderSystemd = true without NOTIFY_SOCKET")
	}
	if n.Ready() || n.Stopping() || n.Status("refreshed %d sections", 3) {
		t.Error("notifications should not be sent without NOTIFY_SOCKET")
	}
	if n.StartWatchdog(context.Background(), func() bool { return true }) {
		t.Error("watchdog started without WATCHDOG_USEC")
	}
}

func TestNotifySendsToSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		t.Skipf("unixgram sockets unavailable: %v", err)
	}
	defer conn.Close()
	t.Setenv("NOTIFY_SOCKET", path)

	n := NewNotifier(nopLogger())
	tests := []struct {
		name string
		send func() bool
		want string
	}{
		{"ready", n.Ready, "READY=1"},
		{"status", func() bool { return n.Status("last report %s", "ok") }, "STATUS=last report ok"},
		{"stopping", n.Stopping, "STOPPING=1"},
	}
	buf := make([]byte, 256)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.send() {
				t.Fatal("notification not sent")
			}
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			nr, err := conn.Read(buf)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got := string(buf[:nr]); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

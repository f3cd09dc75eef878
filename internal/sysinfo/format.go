package sysinfo

import (
	"fmt"
	"strings"
	"time"
)

// formatBytes converts a byte count to a human-readable string: 1536 -> "1.5 KB".
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}

// formatUptime renders a duration as "2 days, 5 hours, 30 mins".
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d day%s", days, plural(days)))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hour%s", hours, plural(hours)))
	}
	if mins > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d min%s", mins, plural(mins)))
	}
	return strings.Join(parts, ", ")
}

func plural(count int) string {
	if count != 1 {
		return "s"
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// timeFormat is used for every absolute timestamp in the report.
const timeFormat = "2006-01-02 15:04:05 MST"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

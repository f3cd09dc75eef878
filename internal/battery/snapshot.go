// Package battery captures and formats the power supply state.
//
// A Snapshot is an immutable value built either from a notification's
// extras (FromExtras) or from sysfs (ReadSysfs). A Monitor keeps the most
// recent one so a refresh can read it without blocking.
package battery

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Unknown marks an integer field that was not reported.
const Unknown = -1

// Notification extra keys.
const (
	ExtraHealth      = "health"
	ExtraIconSmall   = "icon-small"
	ExtraLevel       = "level"
	ExtraPlugged     = "plugged"
	ExtraPresent     = "present"
	ExtraScale       = "scale"
	ExtraStatus      = "status"
	ExtraTechnology  = "technology"
	ExtraTemperature = "temperature"
	ExtraVoltage     = "voltage"
)

// Health codes.
const (
	HealthUnknown            = 1
	HealthGood               = 2
	HealthOverheat           = 3
	HealthDead               = 4
	HealthOverVoltage        = 5
	HealthUnspecifiedFailure = 6
	HealthCold               = 7
)

// Status codes.
const (
	StatusUnknown     = 1
	StatusCharging    = 2
	StatusDischarging = 3
	StatusNotCharging = 4
	StatusFull        = 5
)

// Plugged codes. PluggedNone means running on battery.
const (
	PluggedNone     = 0
	PluggedAC       = 1
	PluggedUSB      = 2
	PluggedWireless = 4
)

var healthNames = map[int]string{
	HealthDead:               "dead",
	HealthGood:               "good",
	HealthOverheat:           "overheat",
	HealthOverVoltage:        "over voltage",
	HealthUnknown:            "unknown",
	HealthUnspecifiedFailure: "unspecified failure",
	HealthCold:               "cold",
}

var statusNames = map[int]string{
	StatusCharging:    "charging",
	StatusDischarging: "discharging",
	StatusFull:        "full",
	StatusNotCharging: "not charging",
	StatusUnknown:     "unknown",
}

var pluggedNames = map[int]string{
	PluggedNone:     "unplugged",
	PluggedAC:       "AC",
	PluggedUSB:      "USB",
	PluggedWireless: "wireless",
}

// Snapshot is one battery state report. Integer fields hold Unknown when
// the value was not reported. Temperature is in tenths of a degree Celsius
// and Voltage in millivolts.
type Snapshot struct {
	Health        int
	IconSmall     int
	Level         int
	Plugged       int
	Present       bool
	HasPresent    bool
	Scale         int
	Status        int
	Technology    string
	HasTechnology bool
	Temperature   int
	Voltage       int
	ReceivedAt    time.Time
}

// FromExtras builds a snapshot from notification extras. Missing or
// malformed integers become Unknown.
func FromExtras(extras map[string]string, receivedAt time.Time) Snapshot {
	s := Snapshot{
		Health:      intExtra(extras, ExtraHealth),
		IconSmall:   intExtra(extras, ExtraIconSmall),
		Level:       intExtra(extras, ExtraLevel),
		Plugged:     intExtra(extras, ExtraPlugged),
		Scale:       intExtra(extras, ExtraScale),
		Status:      intExtra(extras, ExtraStatus),
		Temperature: intExtra(extras, ExtraTemperature),
		Voltage:     intExtra(extras, ExtraVoltage),
		ReceivedAt:  receivedAt,
	}
	if raw, ok := extras[ExtraPresent]; ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			s.Present, s.HasPresent = b, true
		}
	}
	if tech, ok := extras[ExtraTechnology]; ok {
		s.Technology, s.HasTechnology = tech, true
	}
	return s
}

func intExtra(extras map[string]string, key string) int {
	raw, ok := extras[key]
	if !ok {
		return Unknown
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Unknown
	}
	return n
}

// FormatLevel renders level as a percentage of scale.
func FormatLevel(level, scale int) (string, bool) {
	if level == Unknown {
		return "", false
	}
	if scale <= 0 {
		return strconv.Itoa(level), true
	}
	pct := 100 * float64(level) / float64(scale)
	if scale == 10 || scale == 100 {
		return fmt.Sprintf("%3.0f%%", pct), true
	}
	return fmt.Sprintf("%5.2f%%", pct), true
}

// FormatTemperature renders tenths of a degree Celsius in both scales:
// 250 -> "25.0°C (77.0°F)".
func FormatTemperature(raw int) (string, bool) {
	if raw == Unknown {
		return "", false
	}
	c := float64(raw) / 10
	f := 9*c/5 + 32
	return fmt.Sprintf("%4.1f°C (%4.1f°F)", c, f), true
}

// FormatVoltage renders millivolts as volts: 3700 -> "3.7000V".
func FormatVoltage(mv int) (string, bool) {
	if mv == Unknown {
		return "", false
	}
	return fmt.Sprintf("%5.4fV", float64(mv)/1000), true
}

// HealthText names the health code. Unknown codes other than -1 are logged.
func (s Snapshot) HealthText(logger *slog.Logger) (string, bool) {
	return enumText(logger, "health", s.Health, healthNames)
}

// StatusText names the charging status.
func (s Snapshot) StatusText(logger *slog.Logger) (string, bool) {
	return enumText(logger, "status", s.Status, statusNames)
}

// PluggedText names the power source.
func (s Snapshot) PluggedText(logger *slog.Logger) (string, bool) {
	return enumText(logger, "plugged", s.Plugged, pluggedNames)
}

// PresentText renders the presence flag as "yes" or "no".
func (s Snapshot) PresentText() (string, bool) {
	if !s.HasPresent {
		return "", false
	}
	if s.Present {
		return "yes", true
	}
	return "no", true
}

// LevelText is FormatLevel over the snapshot.
func (s Snapshot) LevelText() (string, bool) { return FormatLevel(s.Level, s.Scale) }

// TemperatureText is FormatTemperature over the snapshot.
func (s Snapshot) TemperatureText() (string, bool) { return FormatTemperature(s.Temperature) }

// VoltageText is FormatVoltage over the snapshot.
func (s Snapshot) VoltageText() (string, bool) { return FormatVoltage(s.Voltage) }

// TechnologyText returns the battery chemistry, when reported.
func (s Snapshot) TechnologyText() (string, bool) {
	return s.Technology, s.HasTechnology
}

func enumText(logger *slog.Logger, kind string, code int, names map[int]string) (string, bool) {
	if code == Unknown {
		return "", false
	}
	if name, ok := names[code]; ok {
		return name, true
	}
	if logger != nil {
		logger.Warn("unknown battery code",
			slog.String("kind", kind),
			slog.Int("value", code),
		)
	}
	return "", false
}

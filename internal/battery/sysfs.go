package battery

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/doughall/devinfo/internal/platform"
)

// ErrNoBattery is returned when no battery power supply is present.
var ErrNoBattery = errors.New("no battery power supply")

var sysfsHealth = map[string]int{
	"unknown":             HealthUnknown,
	"good":                HealthGood,
	"overheat":            HealthOverheat,
	"dead":                HealthDead,
	"over voltage":        HealthOverVoltage,
	"unspecified failure": HealthUnspecifiedFailure,
	"cold":                HealthCold,
}

var sysfsStatus = map[string]int{
	"unknown":      StatusUnknown,
	"charging":     StatusCharging,
	"discharging":  StatusDischarging,
	"not charging": StatusNotCharging,
	"full":         StatusFull,
}

var sysfsPlugged = map[string]int{
	"mains":    PluggedAC,
	"usb":      PluggedUSB,
	"wireless": PluggedWireless,
}

// ReadSysfs reads sys/class/power_supply/*/uevent from fsys and returns the
// equivalent notification extras. The first supply of type Battery, in
// name order, provides the battery fields; online Mains, USB and Wireless
// supplies provide the plugged code.
func ReadSysfs(fsys fs.FS) (map[string]string, error) {
	entries, err := fs.ReadDir(fsys, platform.PowerSupplyDir)
	if err != nil {
		return nil, fmt.Errorf("list power supplies: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var bat map[string]string
	plugged := PluggedNone
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(platform.PowerSupplyDir, name, "uevent"))
		if err != nil {
			continue
		}
		props, err := platform.ParseProperties(data)
		if err != nil {
			continue
		}
		typ := strings.ToLower(props["POWER_SUPPLY_TYPE"])
		if typ == "battery" {
			if bat == nil {
				bat = props
			}
			continue
		}
		if code, ok := sysfsPlugged[typ]; ok && props["POWER_SUPPLY_ONLINE"] == "1" && plugged == PluggedNone {
			plugged = code
		}
	}
	if bat == nil {
		return nil, ErrNoBattery
	}

	extras := map[string]string{
		ExtraPlugged: strconv.Itoa(plugged),
	}
	if v, ok := bat["POWER_SUPPLY_STATUS"]; ok {
		if code, ok := sysfsStatus[strings.ToLower(v)]; ok {
			extras[ExtraStatus] = strconv.Itoa(code)
		}
	}
	if v, ok := bat["POWER_SUPPLY_HEALTH"]; ok {
		if code, ok := sysfsHealth[strings.ToLower(v)]; ok {
			extras[ExtraHealth] = strconv.Itoa(code)
		}
	}
	if v, ok := bat["POWER_SUPPLY_PRESENT"]; ok {
		extras[ExtraPresent] = strconv.FormatBool(v == "1")
	}
	if v, ok := bat["POWER_SUPPLY_TECHNOLOGY"]; ok {
		extras[ExtraTechnology] = v
	}
	if v, ok := bat["POWER_SUPPLY_CAPACITY"]; ok {
		extras[ExtraLevel] = v
		extras[ExtraScale] = "100"
	}
	if v, ok := bat["POWER_SUPPLY_TEMP"]; ok {
		extras[ExtraTemperature] = v
	}
	if v, ok := bat["POWER_SUPPLY_VOLTAGE_NOW"]; ok {
		if uv, err := strconv.Atoi(v); err == nil {
			extras[ExtraVoltage] = strconv.Itoa(uv / 1000)
		}
	}
	return extras, nil
}

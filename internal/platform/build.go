package platform

import (
	"context"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// buildFields maps android.os.Build field names to system properties.
// Fields that older builds do not define are simply missing from the
// property files and surface as ErrNoField.
var buildFields = map[string]string{
	"VERSION.RELEASE":     "ro.build.version.release",
	"VERSION.CODENAME":    "ro.build.version.codename",
	"VERSION.INCREMENTAL": "ro.build.version.incremental",
	"VERSION.SDK":         "ro.build.version.sdk",
	"CPU_ABI":             "ro.product.cpu.abi",
	"CPU_ABI2":            "ro.product.cpu.abi2",
	"MANUFACTURER":        "ro.product.manufacturer",
	"BOOTLOADER":          "ro.bootloader",
	"HARDWARE":            "ro.hardware",
	"RADIO":               "gsm.version.baseband",
	"BOARD":               "ro.product.board",
	"BRAND":               "ro.product.brand",
	"DEVICE":              "ro.product.device",
	"DISPLAY":             "ro.build.display.id",
	"FINGERPRINT":         "ro.build.fingerprint",
	"HOST":                "ro.build.host",
	"ID":                  "ro.build.id",
	"MODEL":               "ro.product.model",
	"PRODUCT":             "ro.product.name",
	"TAGS":                "ro.build.tags",
	"TYPE":                "ro.build.type",
	"USER":                "ro.build.user",
}

// Build exposes Android build metadata read from build.prop files.
//
// Fields are named after android.os.Build: "MODEL", "VERSION.RELEASE", ...
// Two fields are typed: "VERSION.SDK_INT" (int) and "TIME" (build time in
// Unix milliseconds, int64). The only operation is "getRadioVersion",
// which asks the live property service through getprop.
type Build struct {
	props  map[string]string
	err    error
	runner Runner
}

// NewBuild loads the property files from fsys. A load failure is kept and
// reported as ErrUnavailable on every field access.
func NewBuild(fsys fs.FS, runner Runner, files ...string) *Build {
	if len(files) == 0 {
		files = DefaultBuildPropFiles
	}
	props, err := ReadProperties(fsys, files...)
	return &Build{props: props, err: err, runner: runner}
}

// Name returns SourceBuild.
func (b *Build) Name() string { return SourceBuild }

// Field returns a build field.
func (b *Build) Field(_ context.Context, name string) (any, error) {
	if b.err != nil {
		return nil, fmt.Errorf("%s: %w: %v", SourceBuild, ErrUnavailable, b.err)
	}

	switch name {
	case "VERSION.SDK_INT":
		raw, ok := b.props["ro.build.version.sdk"]
		if !ok {
			return nil, noField(SourceBuild, name)
		}
		sdk, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", SourceBuild, name, err)
		}
		return sdk, nil
	case "TIME":
		raw, ok := b.props["ro.build.date.utc"]
		if !ok {
			return nil, noField(SourceBuild, name)
		}
		secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", SourceBuild, name, err)
		}
		return secs * 1000, nil
	}

	prop, ok := buildFields[name]
	if !ok {
		return nil, noField(SourceBuild, name)
	}
	v, ok := b.props[prop]
	if !ok {
		return nil, noField(SourceBuild, name)
	}
	return v, nil
}

// Call runs a build operation.
func (b *Build) Call(ctx context.Context, name string) (any, error) {
	if name != "getRadioVersion" {
		return nil, noOperation(SourceBuild, name)
	}
	if b.runner == nil {
		return nil, fmt.Errorf("%s.%s(): %w", SourceBuild, name, ErrUnavailable)
	}
	out, err := b.runner.Run(ctx, "getprop", "gsm.version.baseband")
	if err != nil {
		return nil, fmt.Errorf("%s.%s(): %w", SourceBuild, name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Settings reads Android secure settings such as "android_id".
type Settings struct {
	runner Runner
}

// NewSettings returns a settings source using runner.
func NewSettings(runner Runner) *Settings {
	return &Settings{runner: runner}
}

// Name returns SourceSettings.
func (s *Settings) Name() string { return SourceSettings }

// Field runs "settings get secure <name>". The literal "null" printed for
// an unset key counts as absent.
func (s *Settings) Field(ctx context.Context, name string) (any, error) {
	if s.runner == nil {
		return nil, fmt.Errorf("%s: %w", SourceSettings, ErrUnavailable)
	}
	out, err := s.runner.Run(ctx, "settings", "get", "secure", name)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", SourceSettings, name, err)
	}
	v := strings.TrimSpace(string(out))
	if v == "" || v == "null" {
		return nil, noField(SourceSettings, name)
	}
	return v, nil
}

// Call always fails: settings has no operations.
func (s *Settings) Call(_ context.Context, name string) (any, error) {
	return nil, noOperation(SourceSettings, name)
}

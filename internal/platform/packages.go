package platform

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Feature is one entry of the system feature list. Name is empty for the
// OpenGL ES requirement entry, which carries GlEsVersion instead.
type Feature struct {
	Name        string
	GlEsVersion string
}

// PackageManager lists system features through "pm list features".
// Its only operation is "getSystemAvailableFeatures", returning []Feature.
type PackageManager struct {
	runner Runner
}

// NewPackageManager returns a package manager source using runner.
func NewPackageManager(runner Runner) *PackageManager {
	return &PackageManager{runner: runner}
}

// Name returns SourcePackages.
func (p *PackageManager) Name() string { return SourcePackages }

// Field always fails: the package manager has no fields.
func (p *PackageManager) Field(_ context.Context, name string) (any, error) {
	return nil, noField(SourcePackages, name)
}

// Call runs a package manager operation.
func (p *PackageManager) Call(ctx context.Context, name string) (any, error) {
	if name != "getSystemAvailableFeatures" {
		return nil, noOperation(SourcePackages, name)
	}
	if p.runner == nil {
		return nil, fmt.Errorf("%s.%s(): %w", SourcePackages, name, ErrUnavailable)
	}
	out, err := p.runner.Run(ctx, "pm", "list", "features")
	if err != nil {
		return nil, fmt.Errorf("%s.%s(): %w", SourcePackages, name, err)
	}
	return ParseFeatures(out), nil
}

// ParseFeatures parses "pm list features" output:
//
//	feature:android.hardware.camera
//	feature:reqGlEsVersion=0x30002
func ParseFeatures(out []byte) []Feature {
	var features []Feature
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		name, ok := strings.CutPrefix(line, "feature:")
		if !ok || name == "" {
			continue
		}
		if raw, ok := strings.CutPrefix(name, "reqGlEsVersion="); ok {
			features = append(features, Feature{GlEsVersion: glEsVersion(raw)})
			continue
		}
		features = append(features, Feature{Name: name})
	}
	return features
}

// glEsVersion turns the packed 0xMMMMmmmm requirement into "major.minor".
// Unparseable input is returned unchanged.
func glEsVersion(raw string) string {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(raw), "0x"), 16, 32)
	if err != nil {
		return raw
	}
	return fmt.Sprintf("%d.%d", v>>16, v&0xffff)
}

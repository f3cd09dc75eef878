// Package platform adapts external fact sources to a single typed interface.
//
// Each adapter exposes named fields (constants or properties that may or may
// not exist on a given platform revision) and named zero-argument
// operations. Adapters report absence with the sentinel errors below rather
// than guessing a value; the probe package turns those errors into logged,
// non-fatal "unknown" results.
//
// Sources shipped here:
//   - build: Android build properties (build.prop, getprop)
//   - settings: Android secure settings
//   - host: host identity from gopsutil
//   - kernel: uname and clocks from x/sys/unix
//   - memory: RAM totals from gopsutil
//   - processor: CPU counts and load from gopsutil
//   - environment: well-known directories and storage state
//   - package-manager: system feature list
//   - devices: network, thermal and mount inventories from gopsutil
//   - self: statistics of the running process
package platform

import (
	"context"
	"errors"
	"fmt"
)

// Source IDs used to register adapters with the probe layer.
const (
	SourceBuild       = "build"
	SourceSettings    = "settings"
	SourceHost        = "host"
	SourceKernel      = "kernel"
	SourceMemory      = "memory"
	SourceProcessor   = "processor"
	SourceEnvironment = "environment"
	SourcePackages    = "package-manager"
	SourceDevices     = "devices"
	SourceSelf        = "self"
)

// Absence errors returned by adapters. Callers match them with errors.Is.
var (
	ErrUnavailable = errors.New("source unavailable")
	ErrNoField     = errors.New("no such field")
	ErrNoOperation = errors.New("no such operation")
)

// Source is a typed adapter over one external fact source.
type Source interface {
	// Name returns the source ID.
	Name() string

	// Field returns the value of a named field or constant.
	Field(ctx context.Context, name string) (any, error)

	// Call invokes a named zero-argument operation.
	Call(ctx context.Context, name string) (any, error)
}

// Map is a Source backed by fixed tables. Fields hold plain values;
// Ops hold operations that are invoked on each Call.
type Map struct {
	ID     string
	Fields map[string]any
	Ops    map[string]func(ctx context.Context) (any, error)
}

// Name returns the source ID.
func (m *Map) Name() string { return m.ID }

// Field returns m.Fields[name] or ErrNoField.
func (m *Map) Field(_ context.Context, name string) (any, error) {
	v, ok := m.Fields[name]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", m.ID, name, ErrNoField)
	}
	return v, nil
}

// Call runs m.Ops[name] or returns ErrNoOperation.
func (m *Map) Call(ctx context.Context, name string) (any, error) {
	op, ok := m.Ops[name]
	if !ok || op == nil {
		return nil, fmt.Errorf("%s.%s(): %w", m.ID, name, ErrNoOperation)
	}
	return op(ctx)
}

func noField(source, name string) error {
	return fmt.Errorf("%s.%s: %w", source, name, ErrNoField)
}

func noOperation(source, name string) error {
	return fmt.Errorf("%s.%s(): %w", source, name, ErrNoOperation)
}

//go:build linux

package platform

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Kernel exposes uname(2) fields ("sysname", "nodename", "release",
// "version", "machine") and the clock operations "uptime"
// (CLOCK_BOOTTIME, includes suspend) and "uptimeAwake" (CLOCK_MONOTONIC,
// excludes suspend). Both operations return a time.Duration.
type Kernel struct {
	uts unix.Utsname
	err error
}

// NewKernel calls uname(2) once.
func NewKernel() *Kernel {
	k := &Kernel{}
	k.err = unix.Uname(&k.uts)
	return k
}

// Name returns SourceKernel.
func (k *Kernel) Name() string { return SourceKernel }

// Field returns a uname field.
func (k *Kernel) Field(_ context.Context, name string) (any, error) {
	if k.err != nil {
		return nil, fmt.Errorf("%s: %w: %v", SourceKernel, ErrUnavailable, k.err)
	}
	var raw []byte
	switch name {
	case "sysname":
		raw = k.uts.Sysname[:]
	case "nodename":
		raw = k.uts.Nodename[:]
	case "release":
		raw = k.uts.Release[:]
	case "version":
		raw = k.uts.Version[:]
	case "machine":
		raw = k.uts.Machine[:]
	default:
		return nil, noField(SourceKernel, name)
	}
	return unix.ByteSliceToString(raw), nil
}

// Call reads a clock.
func (k *Kernel) Call(_ context.Context, name string) (any, error) {
	var clock int32
	switch name {
	case "uptime":
		clock = unix.CLOCK_BOOTTIME
	case "uptimeAwake":
		clock = unix.CLOCK_MONOTONIC
	default:
		return nil, noOperation(SourceKernel, name)
	}
	var ts unix.Timespec
	if err := unix.ClockGettime(clock, &ts); err != nil {
		return nil, fmt.Errorf("%s.%s(): %w", SourceKernel, name, err)
	}
	return time.Duration(ts.Nano()), nil
}

//go:build !linux

package platform

import (
	"context"
	"fmt"
)

// Kernel is unavailable outside Linux.
type Kernel struct{}

// NewKernel returns a kernel source that reports ErrUnavailable.
func NewKernel() *Kernel { return &Kernel{} }

// Name returns SourceKernel.
func (k *Kernel) Name() string { return SourceKernel }

// Field always fails with ErrUnavailable.
func (k *Kernel) Field(_ context.Context, name string) (any, error) {
	return nil, fmt.Errorf("%s.%s: %w", SourceKernel, name, ErrUnavailable)
}

// Call always fails with ErrUnavailable.
func (k *Kernel) Call(_ context.Context, name string) (any, error) {
	return nil, fmt.Errorf("%s.%s(): %w", SourceKernel, name, ErrUnavailable)
}

// Package probe implements tolerant lookups over platform sources.
//
// Facts vary between platform revisions: a field or operation may exist on
// one device and not on the next. Instead of branching on a version number,
// collectors ask the Prober for the capability directly. Every failure
// (unknown source, missing field or operation, wrong value type, adapter
// error or panic) is logged at warn level and turned into a default or
// "absent" result, so one missing fact never stops a report.
//
// Usage:
//
//	p := probe.New(logger, platform.NewBuild(fsys, runner))
//	sdk := p.Int(ctx, platform.SourceBuild, "VERSION.SDK_INT", -1)
//	model, ok := p.String(ctx, platform.SourceBuild, "MODEL")
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/doughall/devinfo/internal/platform"
)

// Prober resolves fields and operations on registered sources.
type Prober struct {
	sources map[string]platform.Source
	logger  *slog.Logger
}

// New returns a Prober over the given sources, keyed by Source.Name.
// A nil source is ignored; a later source replaces an earlier one with the
// same name.
func New(logger *slog.Logger, sources ...platform.Source) *Prober {
	p := &Prober{
		sources: make(map[string]platform.Source, len(sources)),
		logger:  logger.With(slog.String("component", "probe")),
	}
	for _, s := range sources {
		if s == nil {
			continue
		}
		p.sources[s.Name()] = s
	}
	return p
}

// Source returns the registered source with the given ID.
func (p *Prober) Source(id string) (platform.Source, bool) {
	s, ok := p.sources[id]
	return s, ok
}

// Int returns an integer field, or def when it cannot be read.
// Integer kinds and decimal strings are accepted.
func (p *Prober) Int(ctx context.Context, sourceID, field string, def int) int {
	v, ok := p.field(ctx, sourceID, field)
	if !ok {
		return def
	}
	n, err := toInt(v)
	if err != nil {
		p.warnField(sourceID, field, err)
		return def
	}
	return n
}

// String returns a string field and whether it could be read.
func (p *Prober) String(ctx context.Context, sourceID, field string) (string, bool) {
	v, ok := p.field(ctx, sourceID, field)
	if !ok {
		return "", false
	}
	s, err := toString(v)
	if err != nil {
		p.warnField(sourceID, field, err)
		return "", false
	}
	return s, true
}

// Call invokes a zero-argument operation on a registered source.
func (p *Prober) Call(ctx context.Context, sourceID, op string) (any, bool) {
	src, ok := p.sources[sourceID]
	if !ok {
		p.warnOp(sourceID, op, fmt.Errorf("source %q: %w", sourceID, platform.ErrUnavailable))
		return nil, false
	}
	return p.CallOn(ctx, src, op)
}

// CallOn invokes a zero-argument operation on src directly. A nil src
// yields an absent result.
func (p *Prober) CallOn(ctx context.Context, src platform.Source, op string) (v any, ok bool) {
	if src == nil {
		p.warnOp("<nil>", op, fmt.Errorf("nil receiver: %w", platform.ErrUnavailable))
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			p.warnOp(src.Name(), op, fmt.Errorf("panic: %v", r))
			v, ok = nil, false
		}
	}()

	v, err := src.Call(ctx, op)
	if err != nil {
		p.warnOp(src.Name(), op, err)
		return nil, false
	}
	if v == nil {
		p.warnOp(src.Name(), op, fmt.Errorf("nil result: %w", platform.ErrUnavailable))
		return nil, false
	}
	return v, true
}

// CallString invokes an operation that returns a string.
func (p *Prober) CallString(ctx context.Context, sourceID, op string) (string, bool) {
	v, ok := p.Call(ctx, sourceID, op)
	if !ok {
		return "", false
	}
	s, err := toString(v)
	if err != nil {
		p.warnOp(sourceID, op, err)
		return "", false
	}
	return s, true
}

// CallBool invokes an operation that returns a bool.
func (p *Prober) CallBool(ctx context.Context, sourceID, op string) (value, ok bool) {
	v, ok := p.Call(ctx, sourceID, op)
	if !ok {
		return false, false
	}
	b, isBool := v.(bool)
	if !isBool {
		p.warnOp(sourceID, op, fmt.Errorf("want bool, got %T", v))
		return false, false
	}
	return b, true
}

// CallAs invokes an operation and asserts its result to T.
func CallAs[T any](ctx context.Context, p *Prober, sourceID, op string) (T, bool) {
	var zero T
	v, ok := p.Call(ctx, sourceID, op)
	if !ok {
		return zero, false
	}
	t, isT := v.(T)
	if !isT {
		p.warnOp(sourceID, op, fmt.Errorf("want %T, got %T", zero, v))
		return zero, false
	}
	return t, true
}

// FieldAs reads a field and asserts its value to T.
func FieldAs[T any](ctx context.Context, p *Prober, sourceID, field string) (T, bool) {
	var zero T
	v, ok := p.field(ctx, sourceID, field)
	if !ok {
		return zero, false
	}
	t, isT := v.(T)
	if !isT {
		p.warnField(sourceID, field, fmt.Errorf("want %T, got %T", zero, v))
		return zero, false
	}
	return t, true
}

func (p *Prober) field(ctx context.Context, sourceID, field string) (v any, ok bool) {
	src, found := p.sources[sourceID]
	if !found {
		p.warnField(sourceID, field, fmt.Errorf("source %q: %w", sourceID, platform.ErrUnavailable))
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			p.warnField(sourceID, field, fmt.Errorf("panic: %v", r))
			v, ok = nil, false
		}
	}()

	v, err := src.Field(ctx, field)
	if err != nil {
		p.warnField(sourceID, field, err)
		return nil, false
	}
	if v == nil {
		p.warnField(sourceID, field, fmt.Errorf("nil value: %w", platform.ErrNoField))
		return nil, false
	}
	return v, true
}

func (p *Prober) warnField(source, field string, err error) {
	p.logger.Warn("field not available",
		slog.String("source", source),
		slog.String("field", field),
		slog.String("error", err.Error()),
	)
}

func (p *Prober) warnOp(source, op string, err error) {
	p.logger.Warn("operation not available",
		slog.String("source", source),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case uint:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %w", err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("want integer, got %T", v)
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", fmt.Errorf("want string, got %T", v)
}

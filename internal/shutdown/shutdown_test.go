package shutdown

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestShutdownOrder(t *testing.T) {
	var order []string
	coord := NewCoordinator(nopLogger())
	for _, name := range []string{"battery", "reporter", "server"} {
		name := name
		coord.Register(name, Func(func(context.Context) error {
			order = append(order, name)
			return nil
		}))
	}
	if coord.ComponentCount() != 3 {
		t.Fatalf("ComponentCount = %d", coord.ComponentCount())
	}
	if err := coord.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if want := []string{"server", "reporter", "battery"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestShutdownCollectsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var calls int
	coord := NewCoordinator(nopLogger())
	coord.Register("a", Func(func(context.Context) error { calls++; return errA }))
	coord.Register("ok", Func(func(context.Context) error { calls++; return nil }))
	coord.Register("b", Func(func(context.Context) error { calls++; return errB }))

	err := coord.Shutdown(context.Background())
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("err = %v, want both failures", err)
	}
}

func TestShutdownDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ran []string
	coord := NewCoordinator(nopLogger())
	coord.Register("first", Func(func(context.Context) error { ran = append(ran, "first"); return nil }))
	coord.Register("cancels", Func(func(context.Context) error {
		ran = append(ran, "cancels")
		cancel()
		return nil
	}))

	err := coord.Shutdown(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if !reflect.DeepEqual(ran, []string{"cancels"}) {
		t.Errorf("ran = %v", ran)
	}
}

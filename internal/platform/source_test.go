package platform

import (
	"context"
	"errors"
	"testing"
)

func TestMapSource(t *testing.T) {
	ctx := context.Background()
	m := &Map{
		ID:     "fake",
		Fields: map[string]any{"SDK_INT": 29},
		Ops: map[string]func(context.Context) (any, error){
			"ok":   func(context.Context) (any, error) { return "yes", nil },
			"fail": func(context.Context) (any, error) { return nil, errors.New("boom") },
		},
	}

	if m.Name() != "fake" {
		t.Errorf("Name() = %q", m.Name())
	}
	if v, err := m.Field(ctx, "SDK_INT"); err != nil || v != 29 {
		t.Errorf("Field(SDK_INT) = %v, %v", v, err)
	}
	if _, err := m.Field(ctx, "missing"); !errors.Is(err, ErrNoField) {
		t.Errorf("Field(missing) error = %v, want ErrNoField", err)
	}
	if v, err := m.Call(ctx, "ok"); err != nil || v != "yes" {
		t.Errorf("Call(ok) = %v, %v", v, err)
	}
	if _, err := m.Call(ctx, "fail"); err == nil {
		t.Error("Call(fail) should fail")
	}
	if _, err := m.Call(ctx, "missing"); !errors.Is(err, ErrNoOperation) {
		t.Errorf("Call(missing) error = %v, want ErrNoOperation", err)
	}
}

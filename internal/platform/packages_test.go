package platform

import (
	"context"
	"errors"
	"testing"
)

func TestParseFeatures(t *testing.T) {
	out := []byte(`feature:android.hardware.camera
feature:reqGlEsVersion=0x30002
garbage line
feature:android.software.webview
`)
	got := ParseFeatures(out)
	want := []Feature{
		{Name: "android.hardware.camera"},
		{GlEsVersion: "3.2"},
		{Name: "android.software.webview"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d features %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("feature %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGlEsVersion(t *testing.T) {
	tests := map[string]string{
		"0x20000": "2.0",
		"0x30001": "3.1",
		"bogus":   "bogus",
	}
	for in, want := range tests {
		if got := glEsVersion(in); got != want {
			t.Errorf("glEsVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPackageManagerCall(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{out: map[string]string{
		"pm list features": "feature:android.hardware.wifi\n",
	}}
	pm := NewPackageManager(runner)

	v, err := pm.Call(ctx, "getSystemAvailableFeatures")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	features, ok := v.([]Feature)
	if !ok || len(features) != 1 || features[0].Name != "android.hardware.wifi" {
		t.Errorf("features = %#v", v)
	}

	if _, err := NewPackageManager(&fakeRunner{}).Call(ctx, "getSystemAvailableFeatures"); err == nil {
		t.Error("expected error when pm is missing")
	}
	if _, err := pm.Call(ctx, "getInstalledPackages"); !errors.Is(err, ErrNoOperation) {
		t.Errorf("unknown op error = %v, want ErrNoOperation", err)
	}
}

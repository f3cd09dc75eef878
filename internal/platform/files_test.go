package platform

import (
	"testing"
	"testing/fstest"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []KeyValue
	}{
		{
			name: "colon and bare line",
			in:   "foo: bar\nbaz\n",
			want: []KeyValue{{"foo", "bar"}, {"baz", ""}},
		},
		{
			name: "splits on first colon only",
			in:   "time: 12:30:00",
			want: []KeyValue{{"time", "12:30:00"}},
		},
		{
			name: "runs of CR and LF collapse",
			in:   "processor\t: 0\r\n\r\n\nBogoMIPS\t: 38.40\r\n",
			want: []KeyValue{{"processor", "0"}, {"BogoMIPS", "38.40"}},
		},
		{
			name: "empty value after colon",
			in:   "flags:",
			want: []KeyValue{{"flags", ""}},
		},
		{
			name: "empty input",
			in:   "",
			want: []KeyValue{},
		},
		{
			name: "blank and nameless lines dropped",
			in:   "a: b\n   \n: x\nc\n",
			want: []KeyValue{{"a", "b"}, {"c", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKeyValue(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseProperties(t *testing.T) {
	data := []byte(`# begin build properties
ro.build.id=QQ3A.200805.001
ro.build.fingerprint=google/sargo/sargo:10/QQ3A.200805.001/6578210:user/release-keys
NAME="Ubuntu"
ro.build.tags=release-keys
`)
	props, err := ParseProperties(data)
	if err != nil {
		t.Fatalf("ParseProperties: %v", err)
	}

	want := map[string]string{
		"ro.build.id":          "QQ3A.200805.001",
		"ro.build.fingerprint": "google/sargo/sargo:10/QQ3A.200805.001/6578210:user/release-keys",
		"NAME":                 "Ubuntu",
		"ro.build.tags":        "release-keys",
	}
	for k, v := range want {
		if props[k] != v {
			t.Errorf("props[%q] = %q, want %q", k, props[k], v)
		}
	}
}

func TestReadProperties(t *testing.T) {
	fsys := fstest.MapFS{
		"system/build.prop": {Data: []byte("ro.product.model=Pixel\nro.product.brand=google\n")},
		"vendor/build.prop": {Data: []byte("ro.product.model=Pixel 3a\n")},
	}

	t.Run("later files override", func(t *testing.T) {
		props, err := ReadProperties(fsys, SystemBuildProp, VendorBuildProp)
		if err != nil {
			t.Fatalf("ReadProperties: %v", err)
		}
		if props["ro.product.model"] != "Pixel 3a" {
			t.Errorf("model = %q, want vendor override", props["ro.product.model"])
		}
		if props["ro.product.brand"] != "google" {
			t.Errorf("brand = %q, want google", props["ro.product.brand"])
		}
	})

	t.Run("missing files are skipped", func(t *testing.T) {
		props, err := ReadProperties(fsys, "odm/build.prop", SystemBuildProp)
		if err != nil {
			t.Fatalf("ReadProperties: %v", err)
		}
		if props["ro.product.model"] != "Pixel" {
			t.Errorf("model = %q, want Pixel", props["ro.product.model"])
		}
	})

	t.Run("no readable file is an error", func(t *testing.T) {
		if _, err := ReadProperties(fsys, "odm/build.prop"); err == nil {
			t.Error("expected error when nothing could be read")
		}
	})
}

func TestReadFileAcceptsAbsolutePaths(t *testing.T) {
	fsys := fstest.MapFS{"proc/version": {Data: []byte("Linux version 6.1\n")}}
	got, err := ReadFile(fsys, "/proc/version")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "Linux version 6.1\n" {
		t.Errorf("got %q", got)
	}
	if _, err := ReadFile(fsys, "/proc/missing"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsAndroid(t *testing.T) {
	android := fstest.MapFS{"system/build.prop": {Data: []byte("ro.build.id=x\n")}}
	if !IsAndroid(android, nil) {
		t.Error("build.prop present should detect Android")
	}
	if !IsAndroid(fstest.MapFS{}, []string{"ANDROID_ROOT=/system"}) {
		t.Error("ANDROID_ROOT should detect Android")
	}
	if IsAndroid(fstest.MapFS{}, []string{"HOME=/root"}) {
		t.Error("plain Linux detected as Android")
	}
}

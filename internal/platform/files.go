package platform

import (
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"
)

// Well-known pseudo-file paths, relative to the filesystem root.
const (
	CPUInfoPath      = "proc/cpuinfo"
	VersionPath      = "proc/version"
	MinFreeKBytes    = "proc/sys/vm/min_free_kbytes"
	LowMemMinFree    = "sys/module/lowmemorykiller/parameters/minfree"
	PowerSupplyDir   = "sys/class/power_supply"
	SystemBuildProp  = "system/build.prop"
	VendorBuildProp  = "vendor/build.prop"
	OSReleasePath    = "etc/os-release"
	sysBlockPattern  = "sys/block/%s/removable"
	userDirsFileName = "user-dirs.dirs"
)

// DefaultBuildPropFiles lists the property files read by the build source,
// in load order. Later files override earlier ones.
var DefaultBuildPropFiles = []string{SystemBuildProp, VendorBuildProp}

// RootFS returns an fs.FS rooted at dir. An empty dir means "/".
func RootFS(dir string) fs.FS {
	if dir == "" {
		dir = "/"
	}
	return os.DirFS(dir)
}

// RelPath converts an absolute path to one usable with an fs.FS rooted at "/".
func RelPath(p string) string {
	return strings.TrimLeft(p, "/")
}

// ReadFile reads a pseudo-file from fsys and returns its contents as text.
func ReadFile(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, RelPath(name))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// KeyValue is one "name: value" entry of a pseudo-file such as /proc/cpuinfo.
type KeyValue struct {
	Name  string
	Value string
}

// ParseKeyValue splits text into lines on any run of CR/LF characters and
// each line on its first colon. Name and value are trimmed; a line without
// a colon becomes a name with an empty value, and a line whose name is empty
// after trimming is dropped. Order follows the input.
func ParseKeyValue(text string) []KeyValue {
	lines := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
	out := make([]KeyValue, 0, len(lines))
	for _, line := range lines {
		name, value, _ := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, KeyValue{Name: name, Value: strings.TrimSpace(value)})
	}
	return out
}

// ParseProperties parses "key=value" text (build.prop, os-release,
// user-dirs.dirs, sysfs uevent). Comments start with '#'; surrounding
// double quotes are removed from values.
func ParseProperties(data []byte) (map[string]string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:      "=",
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	return f.Section(ini.DefaultSection).KeysHash(), nil
}

// ReadProperties reads and merges property files from fsys. Missing files
// are skipped; the error is non-nil only when no file could be read.
func ReadProperties(fsys fs.FS, names ...string) (map[string]string, error) {
	merged := make(map[string]string)
	var lastErr error
	read := 0
	for _, name := range names {
		data, err := fs.ReadFile(fsys, RelPath(name))
		if err != nil {
			lastErr = err
			continue
		}
		props, err := ParseProperties(data)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", name, err)
			continue
		}
		for k, v := range props {
			merged[k] = v
		}
		read++
	}
	if read == 0 && lastErr != nil {
		return nil, lastErr
	}
	return merged, nil
}

// IsAndroid reports whether the filesystem or environment looks like Android.
func IsAndroid(fsys fs.FS, environ []string) bool {
	if runtime.GOOS == "android" {
		return true
	}
	if _, ok := lookupEnv(environ, "ANDROID_ROOT"); ok {
		return true
	}
	_, err := fs.Stat(fsys, SystemBuildProp)
	return err == nil
}

func lookupEnv(environ []string, key string) (string, bool) {
	for i := len(environ) - 1; i >= 0; i-- {
		k, v, ok := strings.Cut(environ[i], "=")
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}

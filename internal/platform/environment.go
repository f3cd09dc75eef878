package platform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
)

// External storage states, as reported by getExternalStorageState.
const (
	MediaMounted         = "mounted"
	MediaMountedReadOnly = "mounted_ro"
	MediaUnmounted       = "unmounted"
	MediaRemoved         = "removed"
)

// androidDirectories are the public directory names Android has defined
// since API level 8.
var androidDirectories = map[string]string{
	"DIRECTORY_ALARMS":        "Alarms",
	"DIRECTORY_DCIM":          "DCIM",
	"DIRECTORY_DOWNLOADS":     "Download",
	"DIRECTORY_MOVIES":        "Movies",
	"DIRECTORY_MUSIC":         "Music",
	"DIRECTORY_NOTIFICATIONS": "Notifications",
	"DIRECTORY_PICTURES":      "Pictures",
	"DIRECTORY_PODCASTS":      "Podcasts",
	"DIRECTORY_RINGTONES":     "Ringtones",
}

// xdgDirectories maps the same fields to XDG user-dirs keys on desktop Linux.
var xdgDirectories = map[string]string{
	"DIRECTORY_DOWNLOADS": "XDG_DOWNLOAD_DIR",
	"DIRECTORY_MOVIES":    "XDG_VIDEOS_DIR",
	"DIRECTORY_MUSIC":     "XDG_MUSIC_DIR",
	"DIRECTORY_PICTURES":  "XDG_PICTURES_DIR",
}

// Usage is the capacity and free space of a filesystem, in bytes.
type Usage struct {
	Total uint64
	Free  uint64
}

// Environment exposes well-known directories and external storage state.
//
// Fields: the DIRECTORY_* public directory names and MEDIA_MOUNTED.
// Operations: getRootDirectory, getDataDirectory, getDownloadCacheDirectory,
// getExternalStorageDirectory, getExternalStorageState (string);
// isExternalStorageEmulated, isExternalStorageRemovable (bool);
// getDataDirectoryUsage, getDownloadCacheDirectoryUsage,
// getExternalStorageDirectoryUsage (Usage).
type Environment struct {
	fsys    fs.FS
	environ []string
	android bool

	partitions func(ctx context.Context) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	exists     func(path string) bool
	resolve    func(path string) string
}

// NewEnvironment returns an environment source. android selects Android
// directory conventions over desktop Linux ones.
func NewEnvironment(fsys fs.FS, environ []string, android bool) *Environment {
	return &Environment{
		fsys:    fsys,
		environ: environ,
		android: android,
		partitions: func(ctx context.Context) ([]disk.PartitionStat, error) {
			return disk.PartitionsWithContext(ctx, true)
		},
		usage: disk.UsageWithContext,
		exists: func(p string) bool {
			_, err := os.Stat(p)
			return err == nil
		},
		resolve: func(p string) string {
			if r, err := filepath.EvalSymlinks(p); err == nil {
				return r
			}
			return p
		},
	}
}

// Name returns SourceEnvironment.
func (e *Environment) Name() string { return SourceEnvironment }

// Field returns a directory name constant.
func (e *Environment) Field(_ context.Context, name string) (any, error) {
	if name == "MEDIA_MOUNTED" {
		return MediaMounted, nil
	}
	if e.android {
		if v, ok := androidDirectories[name]; ok {
			return v, nil
		}
		return nil, noField(SourceEnvironment, name)
	}
	key, ok := xdgDirectories[name]
	if !ok {
		return nil, noField(SourceEnvironment, name)
	}
	dir, ok := e.userDir(key)
	if !ok {
		return nil, noField(SourceEnvironment, name)
	}
	return dir, nil
}

// Call runs an environment operation.
func (e *Environment) Call(ctx context.Context, name string) (any, error) {
	switch name {
	case "getRootDirectory":
		return e.rootDir(), nil
	case "getDataDirectory":
		return e.dataDir(), nil
	case "getDownloadCacheDirectory":
		return e.cacheDir(), nil
	case "getExternalStorageDirectory":
		return e.externalDir(), nil
	case "getExternalStorageState":
		return e.externalState(ctx), nil
	case "isExternalStorageEmulated":
		p, err := e.externalPartition(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s.%s(): %w", SourceEnvironment, name, err)
		}
		return isEmulatedFS(p.Fstype), nil
	case "isExternalStorageRemovable":
		p, err := e.externalPartition(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s.%s(): %w", SourceEnvironment, name, err)
		}
		removable, err := e.removable(p.Device)
		if err != nil {
			return nil, fmt.Errorf("%s.%s(): %w", SourceEnvironment, name, err)
		}
		return removable, nil
	case "getDataDirectoryUsage":
		return e.usageOf(ctx, name, e.dataDir())
	case "getDownloadCacheDirectoryUsage":
		return e.usageOf(ctx, name, e.cacheDir())
	case "getExternalStorageDirectoryUsage":
		if st := e.externalState(ctx); st != MediaMounted && st != MediaMountedReadOnly {
			return nil, fmt.Errorf("%s.%s(): external storage %s: %w", SourceEnvironment, name, st, ErrUnavailable)
		}
		return e.usageOf(ctx, name, e.externalDir())
	}
	return nil, noOperation(SourceEnvironment, name)
}

func (e *Environment) env(key string) (string, bool) {
	v, ok := lookupEnv(e.environ, key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *Environment) envOr(key, def string) string {
	if v, ok := e.env(key); ok {
		return v
	}
	return def
}

func (e *Environment) home() string {
	return e.envOr("HOME", "/")
}

func (e *Environment) rootDir() string {
	if e.android {
		return e.envOr("ANDROID_ROOT", "/system")
	}
	return "/"
}

func (e *Environment) dataDir() string {
	if e.android {
		return e.envOr("ANDROID_DATA", "/data")
	}
	return e.envOr("XDG_DATA_HOME", path.Join(e.home(), ".local/share"))
}

func (e *Environment) cacheDir() string {
	if e.android {
		return e.envOr("DOWNLOAD_CACHE", "/cache")
	}
	return e.envOr("XDG_CACHE_HOME", path.Join(e.home(), ".cache"))
}

func (e *Environment) externalDir() string {
	if e.android {
		return e.envOr("EXTERNAL_STORAGE", "/sdcard")
	}
	return e.envOr("EXTERNAL_STORAGE", "/media")
}

// userDir resolves an XDG user directory from the environment or from
// user-dirs.dirs.
func (e *Environment) userDir(key string) (string, bool) {
	if v, ok := e.env(key); ok {
		return v, true
	}
	cfgHome := e.envOr("XDG_CONFIG_HOME", path.Join(e.home(), ".config"))
	data, err := fs.ReadFile(e.fsys, RelPath(path.Join(cfgHome, userDirsFileName)))
	if err != nil {
		return "", false
	}
	props, err := ParseProperties(data)
	if err != nil {
		return "", false
	}
	v, ok := props[key]
	if !ok || v == "" {
		return "", false
	}
	return os.Expand(v, func(k string) string {
		s, _ := lookupEnv(e.environ, k)
		return s
	}), true
}

func (e *Environment) externalState(ctx context.Context) string {
	dir := e.externalDir()
	if !e.exists(dir) {
		return MediaRemoved
	}
	parts, err := e.partitions(ctx)
	if err != nil {
		return MediaUnmounted
	}
	resolved := e.resolve(dir)
	for _, p := range parts {
		if p.Mountpoint == "/" {
			continue
		}
		if within(p.Mountpoint, resolved) || within(resolved, p.Mountpoint) {
			if hasOption(p.Opts, "ro") {
				return MediaMountedReadOnly
			}
			return MediaMounted
		}
	}
	return MediaUnmounted
}

// externalPartition returns the mount holding the external storage directory.
func (e *Environment) externalPartition(ctx context.Context) (disk.PartitionStat, error) {
	parts, err := e.partitions(ctx)
	if err != nil {
		return disk.PartitionStat{}, err
	}
	resolved := e.resolve(e.externalDir())
	var best disk.PartitionStat
	for _, p := range parts {
		if within(resolved, p.Mountpoint) && len(p.Mountpoint) > len(best.Mountpoint) {
			best = p
		}
	}
	if best.Mountpoint == "" || best.Mountpoint == "/" {
		return disk.PartitionStat{}, fmt.Errorf("no dedicated mount for %s: %w", resolved, ErrUnavailable)
	}
	return best, nil
}

// removable reads /sys/block/<dev>/removable for the disk behind device.
func (e *Environment) removable(device string) (bool, error) {
	if !strings.HasPrefix(device, "/dev/") {
		return false, fmt.Errorf("device %q is not a block device: %w", device, ErrUnavailable)
	}
	name := blockDevice(path.Base(device))
	raw, err := ReadFile(e.fsys, fmt.Sprintf(sysBlockPattern, name))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(raw) == "1", nil
}

func (e *Environment) usageOf(ctx context.Context, op, dir string) (any, error) {
	u, err := e.usage(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("%s.%s(): %w", SourceEnvironment, op, err)
	}
	if u == nil {
		return nil, fmt.Errorf("%s.%s(): %w", SourceEnvironment, op, errors.New("empty usage"))
	}
	return Usage{Total: u.Total, Free: u.Free}, nil
}

// blockDevice strips the partition suffix: sda1 -> sda, mmcblk0p1 -> mmcblk0.
func blockDevice(name string) string {
	trimmed := strings.TrimRight(name, "0123456789")
	if trimmed == name {
		return name
	}
	if strings.HasSuffix(trimmed, "p") && len(trimmed) > 1 {
		prev := trimmed[len(trimmed)-2]
		if prev >= '0' && prev <= '9' {
			return trimmed[:len(trimmed)-1]
		}
	}
	if strings.HasPrefix(name, "mmcblk") || strings.HasPrefix(name, "nvme") || strings.HasPrefix(name, "loop") {
		// Whole-disk names that end in digits.
		return name
	}
	return trimmed
}

func isEmulatedFS(fstype string) bool {
	return strings.HasPrefix(fstype, "fuse") || fstype == "sdcardfs" || fstype == "esdfs"
}

func hasOption(opts []string, want string) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}

// within reports whether p equals dir or lies below it.
func within(p, dir string) bool {
	if dir == "" {
		return false
	}
	if p == dir {
		return true
	}
	if dir == "/" {
		return strings.HasPrefix(p, "/")
	}
	return strings.HasPrefix(p, dir+"/")
}

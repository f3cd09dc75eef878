package platform

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"
)

// NetInterface is one network interface and its addresses.
type NetInterface struct {
	Name         string
	HardwareAddr string
	MTU          int
	Flags        []string
	Addrs        []string
}

// Temperature is one thermal sensor reading in degrees Celsius.
type Temperature struct {
	Sensor   string
	Celsius  float64
	High     float64
	Critical float64
}

// Mount is one mounted filesystem.
type Mount struct {
	Device     string
	Mountpoint string
	Fstype     string
	Opts       []string
}

// Devices exposes hardware inventories used by the experimental sections.
// Operations: interfaces ([]NetInterface), temperatures ([]Temperature),
// partitions ([]Mount).
type Devices struct{}

// NewDevices returns a devices source.
func NewDevices() *Devices { return &Devices{} }

// Name returns SourceDevices.
func (d *Devices) Name() string { return SourceDevices }

// Field always fails: devices only has operations.
func (d *Devices) Field(_ context.Context, name string) (any, error) {
	return nil, noField(SourceDevices, name)
}

// Call runs a device inventory operation.
func (d *Devices) Call(ctx context.Context, name string) (any, error) {
	switch name {
	case "interfaces":
		ifaces, err := net.InterfacesWithContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s.%s(): %w", SourceDevices, name, err)
		}
		out := make([]NetInterface, 0, len(ifaces))
		for _, i := range ifaces {
			ni := NetInterface{
				Name:         i.Name,
				HardwareAddr: i.HardwareAddr,
				MTU:          i.MTU,
				Flags:        i.Flags,
			}
			for _, a := range i.Addrs {
				ni.Addrs = append(ni.Addrs, a.Addr)
			}
			out = append(out, ni)
		}
		return out, nil
	case "temperatures":
		temps, err := sensors.TemperaturesWithContext(ctx)
		// Partial results come back together with a warnings error.
		if err != nil && len(temps) == 0 {
			return nil, fmt.Errorf("%s.%s(): %w", SourceDevices, name, err)
		}
		out := make([]Temperature, 0, len(temps))
		for _, t := range temps {
			out = append(out, Temperature{
				Sensor:   t.SensorKey,
				Celsius:  t.Temperature,
				High:     t.High,
				Critical: t.Critical,
			})
		}
		return out, nil
	case "partitions":
		parts, err := disk.PartitionsWithContext(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("%s.%s(): %w", SourceDevices, name, err)
		}
		out := make([]Mount, 0, len(parts))
		for _, p := range parts {
			out = append(out, Mount{Device: p.Device, Mountpoint: p.Mountpoint, Fstype: p.Fstype, Opts: p.Opts})
		}
		return out, nil
	}
	return nil, noOperation(SourceDevices, name)
}

// Self describes the running process. Only facts fixed for the life of the
// process are exposed, so repeated refreshes read the same values.
// Fields: Parent (int32 pid), Cmdline (string), CreateTime (int64 ms).
type Self struct {
	proc *process.Process
	err  error
}

// NewSelf returns a source for the current process.
func NewSelf(ctx context.Context) *Self {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	return &Self{proc: p, err: err}
}

// Name returns SourceSelf.
func (s *Self) Name() string { return SourceSelf }

// Field reads a process statistic.
func (s *Self) Field(ctx context.Context, name string) (any, error) {
	if s.err != nil || s.proc == nil {
		return nil, fmt.Errorf("%s: %w: %v", SourceSelf, ErrUnavailable, s.err)
	}
	var (
		v   any
		err error
	)
	switch name {
	case "Parent":
		v, err = s.proc.PpidWithContext(ctx)
	case "Cmdline":
		v, err = s.proc.CmdlineWithContext(ctx)
	case "CreateTime":
		v, err = s.proc.CreateTimeWithContext(ctx)
	default:
		return nil, noField(SourceSelf, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", SourceSelf, name, err)
	}
	return v, nil
}

// Call always fails: the process source has no operations.
func (s *Self) Call(_ context.Context, name string) (any, error) {
	return nil, noOperation(SourceSelf, name)
}

package probe

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/temoto/kiosk/helpers"
	"github.com/temoto/kiosk/internal/types"
)

// ReadHost collects what it can, Err holds all failures.
func ReadHost(ctx context.Context) types.HostInfo {
	var hi types.HostInfo
	var errs []error
	if info, err := host.InfoWithContext(ctx); err != nil {
		errs = append(errs, errors.Annotate(err, "host"))
	} else {
		hi.Hostname = info.Hostname
		hi.Platform = info.Platform + " " + info.PlatformVersion
		hi.Kernel = info.KernelVersion + " " + info.KernelArch
		hi.Uptime = time.Duration(info.Uptime) * time.Second
	}
	if avg, err := load.AvgWithContext(ctx); err != nil {
		errs = append(errs, errors.Annotate(err, "load"))
	} else {
		hi.Load1 = avg.Load1
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, errors.Annotate(err, "mem"))
	} else {
		hi.MemUsedPct = vm.UsedPercent
	}
	if usage, err := disk.UsageWithContext(ctx, "/"); err != nil {
		errs = append(errs, errors.Annotate(err, "disk"))
	} else {
		hi.DiskUsedPct = usage.UsedPercent
	}
	hi.Err = helpers.FoldErrors(errs)
	return hi
}

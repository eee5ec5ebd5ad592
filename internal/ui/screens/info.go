package screens

import (
	"fmt"
	"sort"
	"time"

	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

// Info shows host facts and application versions from update manifest.
// Host facts are read by ui.App on its own interval.
type Info struct {
	types.ScreenBase
}

func NewInfo() *Info { return &Info{} }

func (self *Info) Kind() types.ScreenKind { return types.ScreenInfo }

func (self *Info) Display(ctx types.Context, c *display.Canvas) {
	hi := ctx.System.Host
	kv := func(k, v string) string { return fmt.Sprintf("%-9s %s", k, v) }
	y := 0
	c.SetLine(y, kv("Host", hi.Hostname))
	y++
	c.SetLine(y, kv("OS", hi.Platform))
	y++
	c.SetLine(y, kv("Kernel", hi.Kernel))
	y++
	c.SetLine(y, kv("Uptime", hi.Uptime.Truncate(time.Minute).String()))
	y++
	c.SetLine(y, kv("Load", fmt.Sprintf("%.2f  mem %.0f%%  disk %.0f%%", hi.Load1, hi.MemUsedPct, hi.DiskUsedPct)))
	y++
	if hi.Err != nil {
		c.SetLine(y, c.Style().Foreground(display.ColorBad).Render(hi.Err.Error()))
		y++
	}
	y++

	apps := ctx.System.Update.Applications
	if len(apps) == 0 {
		c.Center(y, "No applications found")
		return
	}
	c.Center(y, c.Style().Bold(true).Render("APPLICATION VERSIONS"))
	y++
	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		app := apps[name]
		s := fmt.Sprintf("%-10s %s", name, app.CurrentVersion)
		if app.Ready() {
			s += c.Style().Foreground(display.ColorDegraded).Render(" -> " + app.PendingVersion)
		}
		c.SetLine(y, s)
		y++
	}
}

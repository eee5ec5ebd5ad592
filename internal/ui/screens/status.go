package screens

import (
	"fmt"
	"strings"

	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/internal/ui"
)

// Status lists latest known network, service, wifi and update state.
type Status struct {
	types.ScreenBase
}

func NewStatus() *Status { return &Status{} }

func (self *Status) Kind() types.ScreenKind { return types.ScreenStatus }

func (self *Status) Display(ctx types.Context, c *display.Canvas) {
	sys := ctx.System
	label := func(s string) string { return fmt.Sprintf("%-9s ", s) }
	health := func(h types.Health, s string) string {
		return c.Style().Foreground(ui.HealthColor(h)).Render(s)
	}

	y := 0
	c.SetLine(y, label("Network")+health(sys.Network.Health(), sys.Network.String()))
	y += 2

	svc := sys.Service
	c.SetLine(y, label("Service")+svc.Name)
	y++
	state := svc.Active.String()
	if svc.SubState != "" {
		state += " (" + svc.SubState + ")"
	}
	c.SetLine(y, label("State")+health(svc.Health(), state))
	y++
	enabled := svc.Enabled.String()
	if svc.MainPID != 0 {
		enabled += fmt.Sprintf("  pid %d", svc.MainPID)
	}
	c.SetLine(y, label("Enabled")+enabled)
	y++
	if svc.Error != "" {
		c.SetLine(y, label("Error")+health(types.HealthBad, svc.Error))
		y++
	}
	y++

	c.SetLine(y, label("WiFi")+sys.Wifi.String())
	y += 2

	pending := sys.Update.PendingNames()
	if len(pending) == 0 {
		c.SetLine(y, label("Updates")+"none")
		return
	}
	c.SetLine(y, label("Updates")+strings.Join(pending, ", "))
	y++
	for _, name := range pending {
		app := sys.Update.Applications[name]
		c.SetLine(y, fmt.Sprintf("  %s %s -> %s", name, app.CurrentVersion, app.PendingVersion))
		y++
	}
}

package screens

import (
	"time"

	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

const logoArt = `▄▀▀▄  █▄ ▄█ ▄▀▀▄  █▀▀▄ █  █
█▀▀█  █ ▀ █ █▀▀█  █▀▀▄ ▀▄▄▀`

// Logo is splash screen, advances to next screen once after duration since startup.
type Logo struct {
	types.ScreenBase
	Duration time.Duration
	Subtitle string
	advanced bool
}

func NewLogo(d time.Duration, subtitle string) *Logo {
	return &Logo{Duration: d, Subtitle: subtitle}
}

func (self *Logo) Kind() types.ScreenKind { return types.ScreenLogo }

func (self *Logo) Update(ctx types.Context) types.ScreenAction {
	if self.advanced || self.Duration <= 0 {
		return types.ScreenAction{}
	}
	if ctx.Frame.SinceStartup >= self.Duration {
		self.advanced = true
		return types.ScreenAction{Kind: types.ScreenActionNext}
	}
	return types.ScreenAction{}
}

func (self *Logo) Display(ctx types.Context, c *display.Canvas) {
	top := (c.Height() - 4) / 2
	c.Center(top, c.Style().Foreground(display.ColorAccent).Render(logoArt))
	if self.Subtitle != "" {
		c.Center(top+3, self.Subtitle)
	}
}

package screens

import (
	"fmt"

	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

// Tip shows latest chain slot announced by managed service.
type Tip struct {
	types.ScreenBase
}

func NewTip() *Tip { return &Tip{} }

func (self *Tip) Kind() types.ScreenKind { return types.ScreenTip }

func (self *Tip) Display(ctx types.Context, c *display.Canvas) {
	j := ctx.System.Journal
	mid := c.Height() / 2
	if !j.TipKnown {
		c.Center(mid, c.Style().Foreground(display.ColorUnknown).Render("Bootstrapping"))
		return
	}
	c.Center(mid-1, "Slot")
	c.Center(mid, c.Style().Foreground(display.ColorAccent).Bold(true).Render(fmt.Sprintf("#%d", j.TipSlot)))
}

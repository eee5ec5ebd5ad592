package screens

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/skip2/go-qrcode"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

const scanCaption = "Scan to configure the Pi"

// Scan shows configuration URL as QR code, plain URL when the code does not fit.
type Scan struct {
	types.ScreenBase
	URL string
}

func NewScan(url string) *Scan { return &Scan{URL: url} }

func (self *Scan) Kind() types.ScreenKind { return types.ScreenScan }

func (self *Scan) Display(ctx types.Context, c *display.Canvas) {
	caption := c.Style().Foreground(display.ColorDegraded).Render(scanCaption)
	qr := c.Region(0, c.Height()-1)
	if err := qr.QR(0, self.URL, qrcode.Low); err != nil {
		c.Center(c.Height()/2-2, caption)
		c.Block(c.Height()/2, c.Style().Width(c.Width()).Align(lipgloss.Center).Render(self.URL))
		return
	}
	c.Center(c.Height()-1, caption)
}

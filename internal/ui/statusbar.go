package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

const statusLight = "●"

// StatusBar is one line: title on the left, service and network lights on the right.
type StatusBar struct {
	Title string
}

func HealthColor(h types.Health) lipgloss.Color {
	switch h {
	case types.HealthGood:
		return display.ColorGood
	case types.HealthDegraded:
		return display.ColorDegraded
	case types.HealthBad:
		return display.ColorBad
	}
	return display.ColorUnknown
}

func (self StatusBar) Draw(sys types.SystemState, c *display.Canvas) {
	lights := " " +
		c.Style().Foreground(HealthColor(sys.Service.Health())).Render(statusLight) +
		c.Style().Foreground(HealthColor(sys.Network.Health())).Render(statusLight) +
		" "
	title := c.Style().Bold(true).Render(self.Title)
	gap := c.Width() - lipgloss.Width(lights) - lipgloss.Width(title) - 1
	if gap < 0 {
		gap = 0
	}
	c.SetLine(0, " "+title+strings.Repeat(" ", gap)+lights)
}

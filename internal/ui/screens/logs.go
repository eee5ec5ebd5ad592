package screens

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

// Logs lists recent managed service journal entries, newest on top.
type Logs struct {
	types.ScreenBase
}

func NewLogs() *Logs { return &Logs{} }

func (self *Logs) Kind() types.ScreenKind { return types.ScreenLogs }

func levelColor(l types.LogLevel) lipgloss.Color {
	switch l {
	case types.LogInfo:
		return display.ColorGood
	case types.LogWarn:
		return display.ColorDegraded
	case types.LogError:
		return display.ColorBad
	}
	return display.ColorAccent
}

func (self *Logs) Display(ctx types.Context, c *display.Canvas) {
	entries := ctx.System.Journal.Entries
	if len(entries) == 0 {
		c.Center(c.Height()/2, c.Style().Foreground(display.ColorUnknown).Render("No logs"))
		return
	}
	for y, e := range entries {
		if y >= c.Height() {
			break
		}
		level := "[" + e.Level.String() + "] "
		msg := runewidth.Truncate(e.Message, c.Width()-len(level), "...")
		c.SetLine(y, c.Style().Foreground(levelColor(e.Level)).Render(level)+msg)
	}
}

package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

type ModalKind uint8

const (
	ModalNone ModalKind = iota
	ModalUpdatePopup
)

// Modal is the single optional overlay. While active it owns all input.
type Modal struct {
	kind     ModalKind
	names    []string
	accepted bool // update requested, never raise again in this process
	snoozeH  int
}

func (self *Modal) Kind() ModalKind      { return self.kind }
func (self *Modal) IsActive() bool       { return self.kind != ModalNone }
func (self *Modal) Names() []string      { return self.names }
func (self *Modal) Accepted() bool       { return self.accepted }
func (self *Modal) close()               { self.kind, self.names = ModalNone, nil }
func (self *Modal) SetSnoozeHours(h int) { self.snoozeH = h }

// MaybeRaise shows update popup when manifest has pending updates and is not snoozed.
// Returns true if modal became active.
func (self *Modal) MaybeRaise(m types.UpdateManifest, now time.Time) bool {
	if self.IsActive() || self.accepted {
		return false
	}
	names := m.ReadyToNotify(now)
	if len(names) == 0 {
		return false
	}
	self.kind, self.names = ModalUpdatePopup, names
	return true
}

// HandleInput returns consumed=true for every event while active.
// A-short accepts the update, B-short snoozes it, others are swallowed.
func (self *Modal) HandleInput(ev types.InputEvent) (bool, types.AppAction) {
	switch self.kind {
	case ModalNone:
		return false, types.AppAction{}

	case ModalUpdatePopup:
		switch {
		case ev.Is(types.ButtonA, types.PressShort):
			self.accepted = true
			self.close()
			return true, types.AppAction{Kind: types.ActionRequestUpdate}
		case ev.Is(types.ButtonB, types.PressShort):
			self.close()
			return true, types.AppAction{Kind: types.ActionSnoozeUpdate}
		}
		return true, types.AppAction{}
	}
	return false, types.AppAction{}
}

// Draw renders overlay above whatever is on canvas.
func (self *Modal) Draw(c *display.Canvas) {
	if self.kind != ModalUpdatePopup {
		return
	}
	accent := c.Style().Foreground(display.ColorAccent).Bold(true)
	var lines []string
	switch len(self.names) {
	case 0:
		lines = append(lines, "A system update is available")
	case 1:
		lines = append(lines, "An update is available for:", accent.Render(self.names[0]))
	default:
		lines = append(lines, "Updates are available for:", accent.Render(strings.Join(self.names, ", ")))
	}
	snooze := self.snoozeH
	if snooze <= 0 {
		snooze = 48
	}
	lines = append(lines,
		"",
		"Restart and apply it?",
		"",
		c.Style().Foreground(display.ColorGood).Render("[A] Yes, restart now"),
		c.Style().Foreground(display.ColorDegraded).Render("[B] Remind me in "+strconv.Itoa(snooze)+"h"),
	)
	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	box := c.Style().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MaxWidth(c.Width()).
		Render(body)
	c.Overlay(box)
}

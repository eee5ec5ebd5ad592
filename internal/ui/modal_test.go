package ui

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

func pendingManifest(names ...string) types.UpdateManifest {
	m := types.UpdateManifest{Applications: map[string]types.AppUpdateState{}}
	for _, name := range names {
		m.Applications[name] = types.AppUpdateState{CurrentVersion: "1", PendingVersion: "2", StagedPath: "/tmp/" + name}
	}
	return m
}

func TestModal(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	cases := []struct {
		name       string
		input      types.InputEvent
		expectAct  types.ActionKind
		expectOpen bool
		reraise    bool
	}{
		{"accept", ev(types.ButtonA, types.PressShort), types.ActionRequestUpdate, false, false},
		{"snooze", ev(types.ButtonB, types.PressShort), types.ActionSnoozeUpdate, false, true},
		{"swallow-x", ev(types.ButtonX, types.PressShort), types.ActionNone, true, false},
		{"swallow-long-a", ev(types.ButtonA, types.PressLong), types.ActionNone, true, false},
		{"swallow-y", ev(types.ButtonY, types.PressShort), types.ActionNone, true, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			var m Modal
			assert.True(t, m.MaybeRaise(pendingManifest("amaru"), now))
			assert.Equal(t, []string{"amaru"}, m.Names())
			consumed, act := m.HandleInput(c.input)
			assert.True(t, consumed)
			assert.Equal(t, c.expectAct, act.Kind)
			assert.Equal(t, c.expectOpen, m.IsActive())
			assert.Equal(t, c.expectAct == types.ActionRequestUpdate, m.Accepted())
			if !c.expectOpen {
				assert.Equal(t, c.reraise, m.MaybeRaise(pendingManifest("amaru"), now))
			}
		})
	}
}

func TestModalRaise(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	var m Modal
	assert.False(t, m.MaybeRaise(types.UpdateManifest{}, now))
	assert.False(t, m.MaybeRaise(pendingManifest("a").Snooze(now, time.Hour), now))
	consumed, _ := m.HandleInput(ev(types.ButtonA, types.PressShort))
	assert.False(t, consumed, "inactive modal must not consume")

	assert.True(t, m.MaybeRaise(pendingManifest("b", "a"), now))
	assert.Equal(t, []string{"a", "b"}, m.Names())
	assert.False(t, m.MaybeRaise(pendingManifest("c"), now), "already active")
	assert.Equal(t, []string{"a", "b"}, m.Names())
}

func TestModalDraw(t *testing.T) {
	t.Parallel()

	c := display.NewCanvas(lipgloss.NewRenderer(io.Discard), 40, 15)
	var m Modal
	m.Draw(c)
	assert.Equal(t, display.NewCanvas(lipgloss.NewRenderer(io.Discard), 40, 15).String(), c.String())

	m.MaybeRaise(pendingManifest("amaru"), time.Unix(1, 0))
	m.Draw(c)
	s := c.String()
	assert.Contains(t, s, "amaru")
	assert.Contains(t, s, "[A] Yes, restart now")
	assert.Contains(t, s, "Remind me in 48h")
}

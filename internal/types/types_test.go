package types

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScreenList(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  string
		expect []ScreenKind
		valid  bool
	}{
		{"logo,info,scan", []ScreenKind{ScreenLogo, ScreenInfo, ScreenScan}, true},
		{" Logo , wifi ,exit", []ScreenKind{ScreenLogo, ScreenWiFiSettings, ScreenExit}, true},
		{"", []ScreenKind{}, true},
		{"logo,tetris", nil, false},
		{"invalid", nil, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			t.Parallel()
			kinds, err := ParseScreenList(c.input)
			if !c.valid {
				require.Error(t, err)
				assert.True(t, errors.IsNotValid(errors.Cause(err)), errors.ErrorStack(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, kinds)
		})
	}
}

func TestUpdateManifest(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	m := UpdateManifest{Applications: map[string]AppUpdateState{
		"node":    {CurrentVersion: "1", PendingVersion: "2", StagedPath: "/staged/node"},
		"amaru":   {CurrentVersion: "1", PendingVersion: "2", StagedPath: "/staged/amaru"},
		"halfway": {CurrentVersion: "1", PendingVersion: "2"},
		"latest":  {CurrentVersion: "3"},
	}}
	assert.Equal(t, []string{"amaru", "node"}, m.PendingNames())
	assert.Equal(t, []string{"amaru", "node"}, m.ReadyToNotify(now))

	snoozed := m.Snooze(now, 48*time.Hour)
	assert.True(t, snoozed.Snoozed(now))
	assert.Nil(t, snoozed.ReadyToNotify(now.Add(47*time.Hour)))
	assert.Equal(t, []string{"amaru", "node"}, snoozed.ReadyToNotify(now.Add(48*time.Hour)))
	assert.False(t, m.Snoozed(now), "receiver unchanged")

	assert.Nil(t, UpdateManifest{}.ReadyToNotify(now))
}

func TestStatusParse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NetworkConnectedGlobal, ParseNetworkState("connected-global\n"))
	assert.Equal(t, NetworkUnknown, ParseNetworkState("asleep"))
	assert.Equal(t, "connected-site", ParseNetworkState("connected-site").String())
	assert.Equal(t, ConnectivityLimited, ParseConnectivity("limited"))
	assert.Equal(t, HealthGood, NetworkStatus{State: NetworkConnectedGlobal, Connectivity: ConnectivityFull}.Health())
	assert.Equal(t, HealthBad, NetworkStatus{State: NetworkDisconnected}.Health())
	assert.Equal(t, HealthUnknown, NetworkStatus{}.Health())

	assert.Equal(t, ActiveFailed, ParseActiveState("failed"))
	assert.Equal(t, EnabledMasked, ParseEnabledState("masked"))
	assert.Equal(t, EnabledUnknown, ParseEnabledState("bogus"))
	assert.Equal(t, HealthGood, ServiceInfo{Active: ActiveActive}.Health())
	assert.Equal(t, HealthUnknown, ServiceInfo{}.Health())
}

func TestFrameState(t *testing.T) {
	t.Parallel()

	var f FrameState
	base := time.Unix(100, 0)
	f.Update(base)
	assert.Equal(t, uint64(1), f.Count)
	assert.Equal(t, time.Duration(0), f.SinceLastFrame)
	f.Update(base.Add(40 * time.Millisecond))
	f.Update(base.Add(90 * time.Millisecond))
	assert.Equal(t, uint64(3), f.Count)
	assert.Equal(t, 50*time.Millisecond, f.SinceLastFrame)
	assert.Equal(t, 90*time.Millisecond, f.SinceStartup)
}

func TestScreenActionBubble(t *testing.T) {
	t.Parallel()

	assert.True(t, ScreenAction{Kind: ScreenActionNext}.AppAction().IsZero())
	assert.Equal(t, AppAction{Kind: ActionConnectWifi, SSID: "home", Password: "secret"},
		ScreenAction{Kind: ScreenActionConnectWifi, SSID: "home", Password: "secret"}.AppAction())
	assert.Equal(t, ActionQuit, ScreenAction{Kind: ScreenActionQuit}.AppAction().Kind)
	assert.NotContains(t, AppAction{Kind: ActionConnectWifi, SSID: "home", Password: "secret"}.String(), "secret")
}

func TestJournalAppend(t *testing.T) {
	t.Parallel()

	var j JournalState
	j = j.Append([]LogEntry{
		{Level: LogInfo, Message: "a"},
		{Level: LogDebug, Message: "hidden"},
		{Level: LogInfo, Message: TipChangedMessage, Tip: "100.aa"},
		{Level: LogWarn, Message: "b"},
		{Level: LogInfo, Message: TipChangedMessage, Tip: "101.bb"},
	})
	assert.True(t, j.TipKnown)
	assert.Equal(t, uint64(101), j.TipSlot)
	require.Len(t, j.Entries, 4)
	assert.Equal(t, "b", j.Entries[1].Message)
	assert.Equal(t, "a", j.Entries[3].Message)

	prev := j
	many := make([]LogEntry, JournalMaxEntries)
	for i := range many {
		many[i] = LogEntry{Level: LogError, Message: "x"}
	}
	j = j.Append(many)
	assert.Len(t, j.Entries, JournalMaxEntries)
	assert.Equal(t, LogError, j.Entries[len(j.Entries)-1].Level)
	assert.Len(t, prev.Entries, 4, "receiver untouched")
	assert.Equal(t, uint64(101), j.TipSlot, "tip kept without new tip_changed")
}

func TestLogEntryTipSlot(t *testing.T) {
	t.Parallel()

	cases := []struct {
		entry LogEntry
		slot  uint64
		ok    bool
	}{
		{LogEntry{Message: TipChangedMessage, Tip: "71234.ab12"}, 71234, true},
		{LogEntry{Message: TipChangedMessage, Tip: "5"}, 5, true},
		{LogEntry{Message: TipChangedMessage, Tip: "x.ab"}, 0, false},
		{LogEntry{Message: TipChangedMessage}, 0, false},
		{LogEntry{Message: "other", Tip: "1.a"}, 0, false},
	}
	for _, c := range cases {
		slot, ok := c.entry.TipSlot()
		assert.Equal(t, c.ok, ok, "tip=%q", c.entry.Tip)
		assert.Equal(t, c.slot, slot, "tip=%q", c.entry.Tip)
	}
	assert.True(t, LogError.AtLeast(LogInfo))
	assert.False(t, LogTrace.AtLeast(LogInfo))
	assert.True(t, LogInfo.AtLeast(LogInfo))
}

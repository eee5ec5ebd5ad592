package probe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

func TestParseNmcliGeneral(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  string
		expect types.NetworkStatus
		valid  bool
	}{
		{"connected:full\n", types.NetworkStatus{State: types.NetworkConnectedGlobal, Connectivity: types.ConnectivityFull}, true},
		{"connected-site:limited", types.NetworkStatus{State: types.NetworkConnectedSite, Connectivity: types.ConnectivityLimited}, true},
		{"disconnected:none", types.NetworkStatus{State: types.NetworkDisconnected, Connectivity: types.ConnectivityNone}, true},
		{"asleep:weird", types.NetworkStatus{}, true},
		{"garbage", types.NetworkStatus{}, false},
		{"", types.NetworkStatus{}, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			t.Parallel()
			ns, err := ParseNmcliGeneral(c.input)
			if !c.valid {
				require.Error(t, err)
				assert.True(t, errors.IsNotValid(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, ns)
		})
	}
}

func TestNetworkCheck(t *testing.T) {
	t.Parallel()

	const cmd = "nmcli -t -f STATE,CONNECTIVITY general status"
	run := &MockRunner{Out: map[string]string{cmd: "connected:portal"}}
	ns, err := NewNetwork(run).Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ConnectivityPortal, ns.Connectivity)

	run.Err = map[string]error{cmd: errors.New("exit status 8")}
	ns, err = NewNetwork(run).Check(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.NetworkStatus{}, ns)
}

func TestParseSystemctlShow(t *testing.T) {
	t.Parallel()

	out := `Id=amaru.service
Description=Amaru node
ActiveState=active
SubState=running
UnitFileState=enabled
MainPID=1234`
	info := ParseSystemctlShow("amaru", out)
	assert.Equal(t, types.ServiceInfo{
		Name: "amaru.service", Description: "Amaru node",
		Active: types.ActiveActive, SubState: "running",
		Enabled: types.EnabledEnabled, MainPID: 1234,
	}, info)

	info = ParseSystemctlShow("ghost", "ActiveState=inactive\nMainPID=0\nbroken line")
	assert.Equal(t, "ghost", info.Name)
	assert.Equal(t, "Unknown", info.Description)
	assert.Equal(t, types.ActiveInactive, info.Active)
	assert.Equal(t, uint32(0), info.MainPID)
	assert.Equal(t, types.EnabledUnknown, info.Enabled)
}

func TestServiceFromProperties(t *testing.T) {
	t.Parallel()

	props := map[string]interface{}{
		"Id":            "amaru.service",
		"Description":   "Amaru node",
		"ActiveState":   "failed",
		"SubState":      "failed",
		"UnitFileState": "disabled",
	}
	info := ServiceFromProperties("amaru", props, uint32(0))
	assert.Equal(t, types.ActiveFailed, info.Active)
	assert.Equal(t, types.EnabledDisabled, info.Enabled)
	assert.Equal(t, uint32(0), info.MainPID)
	assert.Equal(t, types.HealthBad, info.Health())

	info = ServiceFromProperties("amaru", props, uint32(77))
	assert.Equal(t, uint32(77), info.MainPID)
	assert.Equal(t, "amaru.service", UnitName("amaru"))
	assert.Equal(t, "amaru.timer", UnitName("amaru.timer"))
}

func TestServiceCheckFallback(t *testing.T) {
	t.Parallel()

	run := &MockRunner{Out: map[string]string{
		"systemctl show amaru.service --no-pager --property Id,Description,ActiveState,SubState,UnitFileState,MainPID": "Id=amaru.service\nActiveState=activating",
	}}
	s := NewService(log2.NewTest(t, log2.LDebug), "amaru", run)
	s.noBus = true
	info, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ActiveActivating, info.Active)
}

type fakeBus struct {
	mu     sync.Mutex
	block  chan struct{}
	err    error
	closed int
}

func (self *fakeBus) GetUnitProperties(unit string) (map[string]interface{}, error) {
	if self.block != nil {
		<-self.block
	}
	return map[string]interface{}{"Id": unit, "ActiveState": "active", "SubState": "running"}, self.err
}
func (self *fakeBus) GetUnitTypeProperties(string, string) (map[string]interface{}, error) {
	return map[string]interface{}{"MainPID": uint32(42)}, nil
}
func (self *fakeBus) Close() {
	self.mu.Lock()
	self.closed++
	self.mu.Unlock()
}
func (self *fakeBus) Closed() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.closed
}

func TestServiceCheckBus(t *testing.T) {
	t.Parallel()

	bus := &fakeBus{}
	dials := 0
	s := NewService(log2.NewTest(t, log2.LDebug), "amaru", nil)
	s.dial = func() (unitBus, error) { dials++; return bus, nil }
	info, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ActiveActive, info.Active)
	assert.Equal(t, uint32(42), info.MainPID)
	_, err = s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dials)
}

func TestServiceCheckBusStuck(t *testing.T) {
	t.Parallel()

	bus := &fakeBus{block: make(chan struct{})}
	defer close(bus.block)
	dials := 0
	s := NewService(log2.NewTest(t, log2.LDebug), "amaru", &MockRunner{})
	s.dial = func() (unitBus, error) { dials++; return bus, nil }

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	started := time.Now()
	_, err := s.Check(ctx)
	require.Error(t, err)
	assert.Equal(t, context.DeadlineExceeded, errors.Cause(err))
	assert.Less(t, time.Since(started), 2*time.Second)
	assert.Equal(t, 1, bus.Closed())

	// lock released, connection dropped, next check dials again
	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	_, err = s.Check(ctx2)
	require.Error(t, err)
	assert.Equal(t, 2, dials)
}

func TestServiceCheckBusErrorFallback(t *testing.T) {
	t.Parallel()

	bus := &fakeBus{err: errors.New("bus restarted")}
	run := &MockRunner{Out: map[string]string{
		"systemctl show amaru.service --no-pager --property Id,Description,ActiveState,SubState,UnitFileState,MainPID": "Id=amaru.service\nActiveState=failed",
	}}
	s := NewService(log2.NewTest(t, log2.LDebug), "amaru", run)
	s.dial = func() (unitBus, error) { return bus, nil }
	info, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ActiveFailed, info.Active)
	assert.Equal(t, 1, bus.Closed())
}

func TestParseJournalLine(t *testing.T) {
	t.Parallel()

	const prefix = "2025-01-02T03:04:05+0000 pi amaru[12]: "
	cases := []struct {
		name   string
		line   string
		expect types.LogEntry
		ok     bool
	}{
		{"info", prefix + `{"level":"INFO","fields":{"message":"peer connected"}}`, types.LogEntry{Level: types.LogInfo, Message: "peer connected"}, true},
		{"warn-lower", prefix + `{"level":"warn","fields":{"message":"slow"}}`, types.LogEntry{Level: types.LogWarn, Message: "slow"}, true},
		{"no-level", prefix + `{"fields":{"message":"x"}}`, types.LogEntry{Level: types.LogInfo, Message: "x"}, true},
		{"tip", prefix + `{"level":"INFO","fields":{"message":"tip_changed","tip":"71234.ab12"}}`, types.LogEntry{Level: types.LogInfo, Message: "tip_changed", Tip: "71234.ab12"}, true},
		{"bad-level", prefix + `{"level":"LOUD","fields":{"message":"x"}}`, types.LogEntry{}, false},
		{"plain-text", prefix + "starting node", types.LogEntry{}, false},
		{"broken-json", prefix + `{"level":`, types.LogEntry{}, false},
		{"journal-marker", "-- No entries --", types.LogEntry{}, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			e, ok := ParseJournalLine(c.line)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.expect, e)
		})
	}
}

func TestJournalReadCursor(t *testing.T) {
	t.Parallel()

	const base = "journalctl -u amaru.service --output=short-iso --show-cursor --no-pager"
	run := &MockRunner{Out: map[string]string{
		base + " --since 1 minute ago": `2025-01-02T03:04:05+0000 pi amaru[12]: {"level":"INFO","fields":{"message":"one"}}
2025-01-02T03:04:06+0000 pi amaru[12]: {"level":"DEBUG","fields":{"message":"two"}}
-- cursor: s=abc;i=1`,
		base + " --after-cursor s=abc;i=1": `2025-01-02T03:04:07+0000 pi amaru[12]: {"level":"ERROR","fields":{"message":"three"}}
-- cursor: s=abc;i=2`,
	}}
	j := NewJournal(run, "amaru")
	entries, err := j.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0].Message)
	assert.Equal(t, types.LogDebug, entries[1].Level)

	entries, err = j.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.LogError, entries[0].Level)

	// failed read keeps cursor
	run.Err = map[string]error{base + " --after-cursor s=abc;i=2": errors.New("exit status 1")}
	_, err = j.Read(context.Background())
	require.Error(t, err)
	_, err = j.Read(context.Background())
	require.Error(t, err)
	assert.Equal(t, base+" --after-cursor s=abc;i=2", run.Calls[len(run.Calls)-1])
}

func TestUpdateStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewUpdateStore(filepath.Join(dir, "state.json"), filepath.Join(dir, "update_requested"))

	m, err := store.Read()
	require.NoError(t, err, "missing manifest is empty")
	assert.Empty(t, m.PendingNames())

	const manifest = `{
  "notify_after": 0,
  "updater_version": "7",
  "applications": {
    "amaru": {"current_version": "1.0", "pending_version": "1.1", "staged_path": "/var/staged/amaru"},
    "pi": {"current_version": "2.0"}
  }
}`
	require.NoError(t, os.WriteFile(store.ManifestPath, []byte(manifest), 0644))
	now := time.Unix(1700000000, 0)
	m, err = store.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"amaru"}, m.ReadyToNotify(now))

	require.NoError(t, store.Snooze(now, 48*time.Hour))
	m, err = store.Read()
	require.NoError(t, err)
	assert.Equal(t, now.Add(48*time.Hour).Unix(), m.NotifyAfter)
	assert.Nil(t, m.ReadyToNotify(now.Add(time.Hour)))
	assert.Equal(t, []string{"amaru"}, m.PendingNames(), "applications kept")

	var doc map[string]interface{}
	b, err := os.ReadFile(store.ManifestPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "7", doc["updater_version"], "unknown keys kept")

	require.NoError(t, store.RequestUpdate())
	_, err = os.Stat(store.TriggerPath)
	assert.NoError(t, err)

	require.NoError(t, os.WriteFile(store.ManifestPath, []byte("{broken"), 0644))
	_, err = store.Read()
	assert.Error(t, err)
}

func TestWifiConnect(t *testing.T) {
	t.Parallel()

	run := &MockRunner{Sudo: true, Out: map[string]string{
		"nmcli -t -f NAME con show": "Wired connection 1\nmobile",
	}}
	w := &Wifi{Run: run, Ifname: "wlan0", Connection: "mobile", UpTimeout: time.Second}
	require.NoError(t, w.Connect(context.Background(), "home", "secret"))
	assert.Equal(t, []string{
		"nmcli -t -f NAME con show",
		"sudo nmcli con modify mobile wifi.ssid home",
		"sudo nmcli con modify mobile wifi-sec.key-mgmt wpa-psk",
		"sudo nmcli con modify mobile wifi-sec.psk secret",
		"sudo nmcli con up mobile",
	}, run.Calls)
	require.NoError(t, w.Down(context.Background()))
	assert.Equal(t, "sudo nmcli con down mobile", run.Calls[len(run.Calls)-1])

	run2 := &MockRunner{}
	w2 := &Wifi{Run: run2, Ifname: "wlan0", Connection: "mobile", UpTimeout: time.Second}
	require.NoError(t, w2.Connect(context.Background(), "cafe", ""))
	assert.Equal(t, "nmcli con add type wifi ifname wlan0 con-name mobile ssid cafe", run2.Calls[1])
	assert.Equal(t, "nmcli con up mobile", run2.Calls[len(run2.Calls)-1])

	assert.True(t, errors.IsNotValid(errors.Cause(w2.Connect(context.Background(), "", "x"))))
}

func TestWifiPasswordNotInError(t *testing.T) {
	t.Parallel()

	run := &MockRunner{
		Out: map[string]string{"nmcli -t -f NAME con show": "mobile"},
		Err: map[string]error{"nmcli con modify mobile wifi-sec.psk hunter2": errors.New("exit status 2: nmcli con modify mobile wifi-sec.psk hunter2")},
	}
	w := &Wifi{Run: run, Ifname: "wlan0", Connection: "mobile", UpTimeout: time.Second}
	err := w.Connect(context.Background(), "home", "hunter2")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "hunter2")
}

package ui

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

type fakeProbes struct {
	mu       sync.Mutex
	network  types.NetworkStatus
	service  types.ServiceInfo
	manifest types.UpdateManifest
	journal  []types.LogEntry
	host     types.HostInfo
	err      error
	block    chan struct{} // if set, async probes wait for close
	calls    []string
}

var _ Prober = &fakeProbes{}

func (self *fakeProbes) called(name string) {
	self.mu.Lock()
	self.calls = append(self.calls, name)
	self.mu.Unlock()
	if self.block != nil {
		<-self.block
	}
}

func (self *fakeProbes) Calls() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]string(nil), self.calls...)
}

func (self *fakeProbes) CheckNetwork(context.Context) (types.NetworkStatus, error) {
	self.called("network")
	return self.network, self.err
}
func (self *fakeProbes) CheckService(context.Context) (types.ServiceInfo, error) {
	self.called("service")
	return self.service, self.err
}
func (self *fakeProbes) ConnectWifi(_ context.Context, ssid, _ string) error {
	self.called("wifi:" + ssid)
	return self.err
}
func (self *fakeProbes) ReadUpdate() (types.UpdateManifest, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.manifest, nil
}
func (self *fakeProbes) RequestUpdate() error {
	self.called("request")
	return self.err
}
func (self *fakeProbes) SnoozeUpdate(time.Time) error {
	self.called("snooze")
	return self.err
}

func (self *fakeProbes) ReadJournal(context.Context) ([]types.LogEntry, error) {
	self.called("journal")
	return self.journal, self.err
}
func (self *fakeProbes) ReadHost(context.Context) types.HostInfo {
	self.called("host")
	return self.host
}

var errProbe = errors.New("probe broken")

// fakeScreen records lifecycle calls into shared journal.
type fakeScreen struct {
	types.ScreenBase
	kind    types.ScreenKind
	journal *[]string
	consume map[types.InputEvent]bool
	action  types.ScreenAction
	inputs  []types.InputEvent
	lastCtx types.Context
	body    string
}

func newFakeScreen(kind types.ScreenKind, journal *[]string) *fakeScreen {
	return &fakeScreen{kind: kind, journal: journal, consume: map[types.InputEvent]bool{}}
}

func (self *fakeScreen) Kind() types.ScreenKind { return self.kind }
func (self *fakeScreen) Enter()                 { *self.journal = append(*self.journal, "enter:"+self.kind.String()) }
func (self *fakeScreen) Exit()                  { *self.journal = append(*self.journal, "exit:"+self.kind.String()) }
func (self *fakeScreen) HandleInput(ev types.InputEvent) bool {
	self.inputs = append(self.inputs, ev)
	return self.consume[ev]
}
func (self *fakeScreen) Update(ctx types.Context) types.ScreenAction {
	self.lastCtx = ctx
	a := self.action
	self.action = types.ScreenAction{}
	return a
}
func (self *fakeScreen) Display(ctx types.Context, c *display.Canvas) {
	body := self.body
	if body == "" {
		body = self.kind.String()
	}
	c.SetLine(0, body)
}

func ev(b types.ButtonId, p types.PressKind) types.InputEvent {
	return types.InputEvent{Button: b, Press: p}
}

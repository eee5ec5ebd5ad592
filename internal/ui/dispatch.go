package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/kiosk/helpers/cacheval"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

const (
	CompletionQueueSize = 100
	ProbeTimeout        = 10 * time.Second
)

// Prober is the set of blocking external operations.
type Prober interface {
	CheckNetwork(ctx context.Context) (types.NetworkStatus, error)
	CheckService(ctx context.Context) (types.ServiceInfo, error)
	ConnectWifi(ctx context.Context, ssid, password string) error
	ReadUpdate() (types.UpdateManifest, error)
	RequestUpdate() error
	SnoozeUpdate(now time.Time) error
	ReadJournal(ctx context.Context) ([]types.LogEntry, error)
	ReadHost(ctx context.Context) types.HostInfo
}

// Caches are owned by tick loop, see App.Tick.
// Nil Journal and Host mean no screen shows them.
type Caches struct {
	Network *cacheval.Periodic[types.NetworkStatus]
	Service *cacheval.Periodic[types.ServiceInfo]
	Update  *cacheval.Periodic[types.UpdateManifest]
	Journal *cacheval.Periodic[types.JournalState]
	Host    *cacheval.Periodic[types.HostInfo]
}

type wifiRequest struct {
	ctx context.Context
	act types.AppAction
}

// Dispatcher executes AppAction inline or on a worker goroutine.
// Every worker sends exactly one AppActionComplete,
// Drain applies them on tick goroutine in arrival order.
type Dispatcher struct {
	Log    *log2.Log
	alive  *alive.Alive
	probes Prober
	ch     chan types.AppActionComplete
	// set on dispatch, cleared when completion is drained
	inflight [types.ActionKindCount]bool
	// credentials of in-flight connect and latest different request made meanwhile
	wifiCurrent types.AppAction
	wifiNext    *wifiRequest
	quit        bool
	now         func() time.Time
}

func NewDispatcher(log *log2.Log, a *alive.Alive, probes Prober) *Dispatcher {
	return &Dispatcher{
		Log:    log,
		alive:  a,
		probes: probes,
		ch:     make(chan types.AppActionComplete, CompletionQueueSize),
		now:    time.Now,
	}
}

func (self *Dispatcher) InFlight(kind types.ActionKind) bool { return self.inflight[kind] }
func (self *Dispatcher) QuitRequested() bool                 { return self.quit }

// Dispatch must be called from tick goroutine.
// Async action of a kind already in flight is dropped,
// except ConnectWifi with new credentials which runs after the current one.
func (self *Dispatcher) Dispatch(ctx context.Context, sys *types.SystemState, act types.AppAction) {
	if !act.Kind.Async() {
		self.dispatchSync(sys, act)
		return
	}
	if act.Kind == types.ActionConnectWifi && self.inflight[act.Kind] {
		self.queueWifi(ctx, sys, act)
		return
	}
	if self.inflight[act.Kind] {
		self.Log.Debugf("dispatch %s already in flight, dropped", act)
		return
	}
	self.Log.Debugf("dispatch %s", act)

	switch act.Kind {
	case types.ActionCheckNetwork:
		self.spawn(ctx, act.Kind, func(ctx context.Context) (c types.AppActionComplete) {
			ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
			defer cancel()
			c.Network, c.Err = self.probes.CheckNetwork(ctx)
			return
		})

	case types.ActionCheckService:
		self.spawn(ctx, act.Kind, func(ctx context.Context) (c types.AppActionComplete) {
			ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
			defer cancel()
			c.Service, c.Err = self.probes.CheckService(ctx)
			return
		})

	case types.ActionConnectWifi:
		self.connectWifi(ctx, sys, act)

	case types.ActionRequestUpdate:
		self.spawn(ctx, act.Kind, func(context.Context) (c types.AppActionComplete) {
			c.Err = self.probes.RequestUpdate()
			return
		})

	case types.ActionSnoozeUpdate:
		now := self.now()
		self.spawn(ctx, act.Kind, func(context.Context) (c types.AppActionComplete) {
			c.Err = self.probes.SnoozeUpdate(now)
			return
		})

	case types.ActionReadJournal:
		self.spawn(ctx, act.Kind, func(ctx context.Context) (c types.AppActionComplete) {
			ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
			defer cancel()
			c.Journal, c.Err = self.probes.ReadJournal(ctx)
			return
		})

	case types.ActionReadHost:
		self.spawn(ctx, act.Kind, func(ctx context.Context) (c types.AppActionComplete) {
			ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
			defer cancel()
			c.Host = self.probes.ReadHost(ctx)
			return
		})

	default:
		self.Log.Errorf("code error dispatch unhandled action=%s", act)
	}
}

func (self *Dispatcher) connectWifi(ctx context.Context, sys *types.SystemState, act types.AppAction) {
	ssid, password := act.SSID, act.Password
	if self.spawn(ctx, act.Kind, func(ctx context.Context) (c types.AppActionComplete) {
		c.Err = self.probes.ConnectWifi(ctx, ssid, password)
		return
	}) {
		self.wifiCurrent = act
		sys.Wifi = types.WifiConnectingTo(ssid)
	}
}

// Same credentials as in flight only restore Connecting status,
// new ones replace any queued request.
func (self *Dispatcher) queueWifi(ctx context.Context, sys *types.SystemState, act types.AppAction) {
	if act == self.wifiCurrent {
		self.wifiNext = nil
		self.Log.Debugf("dispatch %s already in flight", act)
	} else {
		self.wifiNext = &wifiRequest{ctx: ctx, act: act}
		self.Log.Debugf("dispatch %s queued after ssid=%q", act, self.wifiCurrent.SSID)
	}
	sys.Wifi = types.WifiConnectingTo(act.SSID)
}

func (self *Dispatcher) dispatchSync(sys *types.SystemState, act types.AppAction) {
	switch act.Kind {
	case types.ActionNone:
	case types.ActionResetWifiStatus:
		sys.Wifi = types.WifiConnectionStatus{State: types.WifiIdle}
	case types.ActionQuit:
		self.Log.Infof("quit requested")
		self.quit = true
	default:
		self.Log.Errorf("code error dispatch unhandled action=%s", act)
	}
}

func (self *Dispatcher) spawn(ctx context.Context, kind types.ActionKind, fun func(context.Context) types.AppActionComplete) bool {
	if !self.alive.Add(1) {
		self.Log.Debugf("dispatch %s after stop, ignored", kind)
		return false
	}
	self.inflight[kind] = true
	go func() {
		defer self.alive.Done()
		c := runWorker(ctx, kind, fun)
		// inflight guard keeps pending completions under ActionKindCount, send never blocks
		self.ch <- c
	}()
	return true
}

func runWorker(ctx context.Context, kind types.ActionKind, fun func(context.Context) types.AppActionComplete) (c types.AppActionComplete) {
	defer func() {
		if x := recover(); x != nil {
			c = types.AppActionComplete{Err: fmt.Errorf("panic: %v", x)}
		}
		c.Kind = kind
	}()
	return fun(ctx)
}

// Drain applies all queued completions without blocking, returns count.
func (self *Dispatcher) Drain(sys *types.SystemState, caches *Caches) int {
	n := 0
	for {
		select {
		case c := <-self.ch:
			self.apply(sys, caches, c)
			n++
		default:
			return n
		}
	}
}

// Status results go to caches when given, App reads them back from there.
func (self *Dispatcher) apply(sys *types.SystemState, caches *Caches, c types.AppActionComplete) {
	self.inflight[c.Kind] = false
	if c.Err != nil {
		self.Log.Error(errors.Annotatef(c.Err, "action=%s", c.Kind))
	}

	switch c.Kind {
	case types.ActionCheckNetwork:
		if c.Err != nil {
			c.Network = types.NetworkStatus{}
		}
		if caches != nil && caches.Network != nil {
			caches.Network.Set(c.Network)
		} else {
			sys.Network = c.Network
		}

	case types.ActionCheckService:
		if c.Err != nil {
			c.Service = types.ServiceInfo{Name: sys.Service.Name, Error: c.Err.Error()}
		}
		if caches != nil && caches.Service != nil {
			caches.Service.Set(c.Service)
		} else {
			sys.Service = c.Service
		}

	case types.ActionConnectWifi:
		self.applyWifi(sys, c)

	case types.ActionReadJournal:
		if c.Err != nil {
			return
		}
		if caches != nil && caches.Journal != nil {
			caches.Journal.Set(caches.Journal.Get().Append(c.Journal))
		} else {
			sys.Journal = sys.Journal.Append(c.Journal)
		}

	case types.ActionReadHost:
		if caches != nil && caches.Host != nil {
			caches.Host.Set(c.Host)
		} else {
			sys.Host = c.Host
		}

	case types.ActionRequestUpdate, types.ActionSnoozeUpdate:
		// manifest is reread by cache interval

	default:
		self.Log.Errorf("code error completion unhandled kind=%s", c.Kind)
	}
}

// Result is shown only while status still waits for that network,
// a queued request supersedes it.
func (self *Dispatcher) applyWifi(sys *types.SystemState, c types.AppActionComplete) {
	ssid := self.wifiCurrent.SSID
	self.wifiCurrent = types.AppAction{}
	if next := self.wifiNext; next != nil {
		self.wifiNext = nil
		self.Log.Debugf("wifi ssid=%q result superseded by ssid=%q", ssid, next.act.SSID)
		self.connectWifi(next.ctx, sys, next.act)
		return
	}
	if sys.Wifi.State != types.WifiConnecting || sys.Wifi.SSID != ssid {
		self.Log.Debugf("wifi ssid=%q result after reset, status=%s", ssid, sys.Wifi)
		return
	}
	if c.Err != nil {
		sys.Wifi = types.WifiFailedf("%s", c.Err.Error())
	} else {
		sys.Wifi = types.WifiConnectionStatus{State: types.WifiSuccess}
	}
	sys.Wifi.SSID = ssid
}

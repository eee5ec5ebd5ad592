package ui

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/helpers/cacheval"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

const (
	DefaultTickPeriod      = 40 * time.Millisecond
	DefaultProbeInterval   = 5 * time.Second
	DefaultJournalInterval = 2 * time.Second
	DefaultHostInterval    = 10 * time.Second
	DefaultSnoozeDuration  = 48 * time.Hour
)

type AppConfig struct {
	Log    *log2.Log
	Alive  *alive.Alive
	Probes Prober
	Flow   *ScreenFlow
	Input  <-chan types.InputEvent

	ServiceName     string
	TickPeriod      time.Duration
	NetworkInterval time.Duration
	ServiceInterval time.Duration
	UpdateInterval  time.Duration
	// journal is read only with Logs or Tip screen in flow, host facts only with Info
	JournalInterval time.Duration
	HostInterval    time.Duration
	SnoozeDuration  time.Duration

	// OnState is called from tick goroutine after a tick changed anything.
	OnState func(types.SystemState)
}

// Drawer is the render surface, see display.Display.
type Drawer interface {
	Draw(func(*display.Canvas)) error
}

// App is the single owned aggregate, all fields belong to tick goroutine.
type App struct {
	Log    *log2.Log
	alive  *alive.Alive
	config AppConfig
	probes Prober
	input  <-chan types.InputEvent

	frame  types.FrameState
	system types.SystemState
	caches Caches
	disp   *Dispatcher
	modal  Modal
	flow   *ScreenFlow

	pending []types.AppAction
	quit    bool
	// local snooze wins over manifest reread before the snooze worker wrote it
	snoozedUntil int64
}

func NewApp(config AppConfig) (*App, error) {
	if config.Flow == nil {
		return nil, errors.NotValidf("screen flow nil")
	}
	if config.Probes == nil {
		return nil, errors.NotValidf("probes nil")
	}
	if config.Alive == nil {
		config.Alive = alive.NewAlive()
	}
	if config.TickPeriod <= 0 {
		config.TickPeriod = DefaultTickPeriod
	}
	if config.NetworkInterval <= 0 {
		config.NetworkInterval = DefaultProbeInterval
	}
	if config.ServiceInterval <= 0 {
		config.ServiceInterval = DefaultProbeInterval
	}
	if config.UpdateInterval <= 0 {
		config.UpdateInterval = DefaultProbeInterval
	}
	if config.JournalInterval <= 0 {
		config.JournalInterval = DefaultJournalInterval
	}
	if config.HostInterval <= 0 {
		config.HostInterval = DefaultHostInterval
	}
	if config.SnoozeDuration <= 0 {
		config.SnoozeDuration = DefaultSnoozeDuration
	}

	self := &App{
		Log:    config.Log,
		alive:  config.Alive,
		config: config,
		probes: config.Probes,
		input:  config.Input,
		flow:   config.Flow,
	}
	self.disp = NewDispatcher(config.Log, config.Alive, config.Probes)
	self.modal.SetSnoozeHours(int(config.SnoozeDuration / time.Hour))
	serviceSeed := types.ServiceInfo{Name: config.ServiceName}
	self.caches = Caches{
		Network: cacheval.NewPeriodic[types.NetworkStatus](config.NetworkInterval, nil),
		Service: cacheval.NewPeriodic(config.ServiceInterval, func() types.ServiceInfo { return serviceSeed }),
		Update:  cacheval.NewPeriodic[types.UpdateManifest](config.UpdateInterval, nil),
	}
	if config.Flow.Screen(types.ScreenLogs) != nil || config.Flow.Screen(types.ScreenTip) != nil {
		self.caches.Journal = cacheval.NewPeriodic[types.JournalState](config.JournalInterval, nil)
	}
	if config.Flow.Screen(types.ScreenInfo) != nil {
		self.caches.Host = cacheval.NewPeriodic[types.HostInfo](config.HostInterval, nil)
	}
	self.syncCaches()
	return self, nil
}

func (self *App) State() types.SystemState { return self.system }
func (self *App) Frame() types.FrameState  { return self.frame }
func (self *App) Modal() *Modal            { return &self.modal }
func (self *App) Flow() *ScreenFlow        { return self.flow }
func (self *App) Dispatcher() *Dispatcher  { return self.disp }
func (self *App) QuitRequested() bool      { return self.quit }

func (self *App) context() types.Context {
	return types.Context{Frame: self.frame, System: self.system}
}

// Tick advances state by one frame. Completions that arrived before Tick
// are applied first, so the following Draw shows them.
func (self *App) Tick(ctx context.Context, now time.Time) {
	self.frame.Update(now)
	changed := self.disp.Drain(&self.system, &self.caches) > 0
	if changed {
		self.syncCaches()
	}
	self.pending = self.pending[:0]

	if self.caches.Network.Begin(now) {
		self.pending = append(self.pending, types.AppAction{Kind: types.ActionCheckNetwork})
	}
	if self.caches.Service.Begin(now) {
		self.pending = append(self.pending, types.AppAction{Kind: types.ActionCheckService})
	}
	if self.caches.Journal != nil && self.caches.Journal.Begin(now) {
		self.pending = append(self.pending, types.AppAction{Kind: types.ActionReadJournal})
	}
	if self.caches.Host != nil && self.caches.Host.Begin(now) {
		self.pending = append(self.pending, types.AppAction{Kind: types.ActionReadHost})
	}

	if !self.modal.IsActive() && self.caches.Update.Due(now) {
		m := self.caches.Update.RefreshIfDue(now, self.readUpdate)
		if m.NotifyAfter < self.snoozedUntil {
			m.NotifyAfter = self.snoozedUntil
		}
		self.system.Update = m
		changed = true
		if self.modal.MaybeRaise(m, now) {
			self.Log.Infof("update available apps=%v", self.modal.Names())
		}
	}

	self.routeInput(now)

	if act := self.flow.Tick(self.context()); !act.IsZero() {
		self.pending = append(self.pending, act)
	}

	for _, act := range self.pending {
		self.disp.Dispatch(ctx, &self.system, act)
	}
	if len(self.pending) != 0 {
		changed = true
	}
	if self.disp.QuitRequested() {
		self.quit = true
	}

	if changed && self.config.OnState != nil {
		self.config.OnState(self.system)
	}
}

// syncCaches copies cached status into the state screens read.
func (self *App) syncCaches() {
	self.system.Network = self.caches.Network.Get()
	self.system.Service = self.caches.Service.Get()
	if self.caches.Journal != nil {
		self.system.Journal = self.caches.Journal.Get()
	}
	if self.caches.Host != nil {
		self.system.Host = self.caches.Host.Get()
	}
}

// Each event is routed completely before next one is taken.
func (self *App) routeInput(now time.Time) {
	if self.input == nil {
		return
	}
	for {
		select {
		case ev := <-self.input:
			if consumed, act := self.modal.HandleInput(ev); consumed {
				self.Log.Debugf("input %s modal", ev)
				if act.Kind == types.ActionSnoozeUpdate {
					self.system.Update = self.system.Update.Snooze(now, self.config.SnoozeDuration)
					self.snoozedUntil = self.system.Update.NotifyAfter
					self.caches.Update.Set(self.system.Update)
				}
				if !act.IsZero() {
					self.pending = append(self.pending, act)
				}
				continue
			}
			self.flow.RouteInput(ev)
		default:
			return
		}
	}
}

func (self *App) readUpdate() types.UpdateManifest {
	m, err := self.probes.ReadUpdate()
	if err != nil {
		self.Log.Error(errors.Annotate(err, "update manifest"))
		return self.caches.Update.Get()
	}
	return m
}

// Draw renders focused screen then modal overlay.
func (self *App) Draw(c *display.Canvas) {
	ctx := self.context()
	self.flow.Render(ctx, c)
	self.modal.Draw(c)
}

// Run ticks and draws at configured period until Quit, ctx done or alive stop.
func (self *App) Run(ctx context.Context, d Drawer) error {
	if !self.alive.Add(1) {
		return nil
	}
	defer self.alive.Done()

	tmr := time.NewTicker(self.config.TickPeriod)
	defer tmr.Stop()
	stopch := self.alive.StopChan()
	for {
		self.Tick(ctx, time.Now())
		if err := d.Draw(self.Draw); err != nil {
			self.Log.Error(errors.Annotate(err, "draw"))
		}
		if self.quit {
			self.Log.Debugf("ui loop quit")
			return nil
		}
		select {
		case <-tmr.C:
		case <-stopch:
			self.Log.Debugf("ui loop stopping because alive")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

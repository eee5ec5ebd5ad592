package ui

import (
	"github.com/juju/errors"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

// ScreenFlow owns screen registry, cyclic order and current focus.
type ScreenFlow struct {
	Log     *log2.Log
	Bar     StatusBar
	screens map[types.ScreenKind]types.Screen
	order   []types.ScreenKind
	index   map[types.ScreenKind]int
	current types.ScreenKind
}

// NewScreenFlow fails on duplicate screen kind, order entry without screen,
// screen missing from order or empty order. Initial screen is entered.
func NewScreenFlow(log *log2.Log, screens []types.Screen, order []types.ScreenKind) (*ScreenFlow, error) {
	if len(order) == 0 {
		return nil, errors.NotValidf("screen order empty")
	}
	self := &ScreenFlow{
		Log:     log,
		screens: make(map[types.ScreenKind]types.Screen, len(screens)),
		order:   append([]types.ScreenKind(nil), order...),
		index:   make(map[types.ScreenKind]int, len(order)),
	}
	for _, s := range screens {
		k := s.Kind()
		if _, ok := self.screens[k]; ok {
			return nil, errors.AlreadyExistsf("screen=%s duplicate", k)
		}
		self.screens[k] = s
	}
	for i, k := range order {
		if _, ok := self.screens[k]; !ok {
			return nil, errors.NotFoundf("screen=%s in order", k)
		}
		if _, ok := self.index[k]; ok {
			return nil, errors.AlreadyExistsf("screen=%s duplicate in order", k)
		}
		self.index[k] = i
	}
	for k := range self.screens {
		if _, ok := self.index[k]; !ok {
			return nil, errors.NotValidf("screen=%s registered but not in order", k)
		}
	}

	self.current = order[0]
	self.screens[self.current].Enter()
	return self, nil
}

func (self *ScreenFlow) Current() types.ScreenKind              { return self.current }
func (self *ScreenFlow) Order() []types.ScreenKind              { return self.order }
func (self *ScreenFlow) Screen(k types.ScreenKind) types.Screen { return self.screens[k] }

func (self *ScreenFlow) NextKind(k types.ScreenKind) types.ScreenKind {
	return self.order[(self.index[k]+1)%len(self.order)]
}

func (self *ScreenFlow) PreviousKind(k types.ScreenKind) types.ScreenKind {
	n := len(self.order)
	return self.order[(self.index[k]+n-1)%n]
}

func (self *ScreenFlow) Next()     { self.Jump(self.NextKind(self.current)) }
func (self *ScreenFlow) Previous() { self.Jump(self.PreviousKind(self.current)) }

// Jump switches focus: exit old, enter new, then update current.
// Unknown kind is a code error and ignored.
func (self *ScreenFlow) Jump(k types.ScreenKind) {
	next, ok := self.screens[k]
	if !ok {
		self.Log.Errorf("code error screen=%s not registered", k)
		return
	}
	old := self.current
	self.screens[old].Exit()
	next.Enter()
	self.current = k
	self.Log.Debugf("screen %s -> %s", old, k)
}

// RouteInput offers event to focused screen, then global bindings:
// Y-short next, B-short previous.
func (self *ScreenFlow) RouteInput(ev types.InputEvent) bool {
	if self.screens[self.current].HandleInput(ev) {
		return true
	}
	switch {
	case ev.Is(types.ButtonY, types.PressShort):
		self.Next()
	case ev.Is(types.ButtonB, types.PressShort):
		self.Previous()
	}
	return false
}

// Tick runs focused screen update. Next is handled here, other intents bubble.
func (self *ScreenFlow) Tick(ctx types.Context) types.AppAction {
	sa := self.screens[self.current].Update(ctx)
	if sa.Kind == types.ScreenActionNext {
		self.Next()
		return types.AppAction{}
	}
	return sa.AppAction()
}

// Render draws status bar on first line and focused screen body below.
func (self *ScreenFlow) Render(ctx types.Context, c *display.Canvas) {
	c.Clear()
	self.Bar.Draw(ctx.System, c.Region(0, 1))
	self.screens[self.current].Display(ctx, c.Region(1, c.Height()-1))
}

// Button sampling: raw levels from a Source are polled at fixed cadence,
// classified per button and queued as InputEvent for the UI tick.
package input

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

const (
	DefaultSamplePeriod = 10 * time.Millisecond
	DefaultQueueSize    = 64
)

// Levels is raw state per button, index is ButtonId, true means low (pressed).
type Levels [types.ButtonCount]bool

type Source interface {
	ReadLevels(*Levels) error
	Close() error
	String() string
}

func Drain(ch <-chan types.InputEvent) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// Sampler is the only code touching button hardware.
// Single producer of Events().
type Sampler struct {
	Log     *log2.Log
	source  Source
	period  time.Duration
	buttons [types.ButtonCount]Button
	out     chan types.InputEvent
	failing bool
}

func NewSampler(log *log2.Log, source Source, period time.Duration, queueSize int) *Sampler {
	if period <= 0 {
		period = DefaultSamplePeriod
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Sampler{
		Log:    log,
		source: source,
		period: period,
		out:    make(chan types.InputEvent, queueSize),
	}
}

func (self *Sampler) Events() <-chan types.InputEvent { return self.out }

// Step reads levels once and emits recognized gestures.
func (self *Sampler) Step(now time.Time) {
	var levels Levels
	if err := self.source.ReadLevels(&levels); err != nil {
		if !self.failing {
			self.Log.Error(errors.Annotatef(err, "input source=%s", self.source))
		}
		// failed read is "nothing pressed", pending gestures still resolve
		self.failing = true
		levels = Levels{}
	} else if self.failing {
		self.failing = false
		self.Log.Infof("input source=%s recovered", self.source)
	}

	for i, b := range types.AllButtons {
		kind, ok := self.buttons[i].Sample(levels[i], now)
		if !ok {
			continue
		}
		self.Emit(types.InputEvent{Button: b, Press: kind})
	}
}

// Emit never blocks, events are dropped when consumer is stuck.
func (self *Sampler) Emit(event types.InputEvent) {
	select {
	case self.out <- event:
		self.Log.Debugf("input emit=%s", event)
	default:
		self.Log.Errorf("input queue full, dropped event=%s", event)
	}
}

// Run polls source until a is stopped, then closes source.
func (self *Sampler) Run(a *alive.Alive) {
	if !a.Add(1) {
		return
	}
	defer a.Done()
	defer func() {
		if err := self.source.Close(); err != nil {
			self.Log.Errorf("input source=%s close err=%v", self.source, err)
		}
	}()

	tmr := time.NewTicker(self.period)
	defer tmr.Stop()
	stopch := a.StopChan()
	for {
		select {
		case now := <-tmr.C:
			self.Step(now)
		case <-stopch:
			return
		}
	}
}

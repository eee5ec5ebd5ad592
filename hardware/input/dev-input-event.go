package input

import (
	"io"
	"os"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

const DevInputEventTag = "dev-input-event"

// linux/input-event-codes.h
const evKey = 0x01

// DevInputEventSource simulates buttons with keyboard keys.
// Key edges from the device are kept as levels for the sampler.
type DevInputEventSource struct {
	Log  *log2.Log
	f    io.ReadCloser
	keys map[uint16]int // scan code -> button index

	mu     sync.Mutex
	levels Levels
	err    error
}

var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag }

// NewDevInputEventSource opens device, keys are scan codes in ButtonId order.
func NewDevInputEventSource(log *log2.Log, device string, keys [types.ButtonCount]uint16) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s device=%s", DevInputEventTag, device)
	}
	self := newDevInputEvent(log, f, keys)
	go self.readLoop()
	return self, nil
}

func newDevInputEvent(log *log2.Log, f io.ReadCloser, keys [types.ButtonCount]uint16) *DevInputEventSource {
	self := &DevInputEventSource{
		Log:  log,
		f:    f,
		keys: make(map[uint16]int, len(keys)),
	}
	for i, code := range keys {
		self.keys[code] = i
	}
	return self
}

func (self *DevInputEventSource) ReadLevels(levels *Levels) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.err != nil {
		return self.err
	}
	*levels = self.levels
	return nil
}

func (self *DevInputEventSource) Close() error { return self.f.Close() }

func (self *DevInputEventSource) readLoop() {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			self.mu.Lock()
			self.err = errors.Annotate(err, DevInputEventTag)
			self.mu.Unlock()
			return
		}
		self.handle(ie)
	}
}

func (self *DevInputEventSource) handle(ie inputevent.InputEvent) {
	if ie.Type != evKey {
		return
	}
	idx, ok := self.keys[ie.Code]
	if !ok {
		self.Log.Debugf("%s ignore key=%d", DevInputEventTag, ie.Code)
		return
	}
	down := inputevent.KeyEventState(ie.Value) != inputevent.KeyStateUp
	self.mu.Lock()
	self.levels[idx] = down
	self.mu.Unlock()
}

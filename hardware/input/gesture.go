package input

import (
	"time"

	"github.com/temoto/kiosk/internal/types"
)

const (
	Debounce     = 50 * time.Millisecond
	LongPress    = 1000 * time.Millisecond
	DoubleWindow = 400 * time.Millisecond
)

// Button turns raw level samples of one button into press kinds.
// Not safe for concurrent use, owned by sampler goroutine.
type Button struct {
	pressed       bool
	lastChange    time.Time
	pressStart    time.Time
	longTriggered bool
	lastRelease   time.Time
	pendingShort  bool
}

// Sample feeds current level, isLow means pressed.
// Returns at most one press kind per call.
func (self *Button) Sample(isLow bool, now time.Time) (types.PressKind, bool) {
	if isLow != self.pressed && now.Sub(self.lastChange) >= Debounce {
		self.lastChange = now
		self.pressed = isLow
		if isLow {
			self.pressStart = now
			self.longTriggered = false
		} else if !self.longTriggered && now.Sub(self.pressStart) >= Debounce {
			if self.pendingShort && now.Sub(self.lastRelease) <= DoubleWindow {
				self.pendingShort = false
				self.lastRelease = time.Time{}
				return types.PressDouble, true
			}
			self.pendingShort = true
			self.lastRelease = now
		}
	}

	if self.pressed && !self.longTriggered && now.Sub(self.pressStart) >= LongPress {
		// long press cancels pending short of the same gesture
		self.longTriggered = true
		self.pendingShort = false
		return types.PressLong, true
	}

	if self.pendingShort && now.Sub(self.lastRelease) > DoubleWindow {
		self.pendingShort = false
		return types.PressShort, true
	}
	return types.PressInvalid, false
}

func (self *Button) Pressed() bool { return self.pressed }

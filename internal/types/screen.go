package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/hardware/display"
)

type ScreenKind uint8

const (
	ScreenInvalid ScreenKind = iota
	ScreenLogo
	ScreenInfo
	ScreenScan
	ScreenStatus
	ScreenWiFiSettings
	ScreenExit
	ScreenLogs
	ScreenTip
)

var screenKindNames = [...]string{
	ScreenInvalid:      "invalid",
	ScreenLogo:         "logo",
	ScreenInfo:         "info",
	ScreenScan:         "scan",
	ScreenStatus:       "status",
	ScreenWiFiSettings: "wifi",
	ScreenExit:         "exit",
	ScreenLogs:         "logs",
	ScreenTip:          "tip",
}

func (k ScreenKind) String() string {
	if int(k) < len(screenKindNames) {
		return screenKindNames[k]
	}
	return fmt.Sprintf("ScreenKind(%d)", uint8(k))
}

func ParseScreenKind(s string) (ScreenKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range screenKindNames {
		if i != int(ScreenInvalid) && name == s {
			return ScreenKind(i), nil
		}
	}
	return ScreenInvalid, errors.NotValidf("screen=%q", s)
}

// ParseScreenList parses comma separated screen names, e.g. "logo,info,scan".
func ParseScreenList(s string) ([]ScreenKind, error) {
	parts := strings.Split(s, ",")
	kinds := make([]ScreenKind, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		k, err := ParseScreenKind(p)
		if err != nil {
			return nil, errors.Trace(err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

type FrameState struct {
	Count          uint64
	Startup        time.Time
	Now            time.Time
	SinceStartup   time.Duration
	SinceLastFrame time.Duration
}

// Update advances frame counters. First call sets Startup.
func (f *FrameState) Update(now time.Time) {
	if f.Startup.IsZero() {
		f.Startup = now
		f.Now = now
	}
	f.SinceLastFrame = now.Sub(f.Now)
	f.SinceStartup = now.Sub(f.Startup)
	f.Now = now
	f.Count++
}

// Context is the read-only view screens get on update and display.
type Context struct {
	Frame  FrameState
	System SystemState
}

// Screen is one navigable page, exactly one is focused at a time.
type Screen interface {
	Kind() ScreenKind
	// Enter is called when screen gains focus, after Exit of the previous one.
	Enter()
	Exit()
	// HandleInput returns true when event is consumed.
	HandleInput(InputEvent) bool
	Update(Context) ScreenAction
	Display(Context, *display.Canvas)
}

// ScreenBase provides no-op lifecycle for screens that don't need it.
type ScreenBase struct{}

func (ScreenBase) Enter()                      {}
func (ScreenBase) Exit()                       {}
func (ScreenBase) HandleInput(InputEvent) bool { return false }
func (ScreenBase) Update(Context) ScreenAction { return ScreenAction{} }

package screens

import (
	"time"

	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

const (
	ExitTextDuration  = 1500 * time.Millisecond
	ExitClearDuration = 200 * time.Millisecond
)

const exitArt = `█   ▄▀▀▄ ▀█▀ █▀▀ █▀▀▄
█   █▀▀█  █  █▀  █▀▀▄
█▄▄ █  █  █  █▄▄ █  █`

type exitStage uint8

const (
	exitIdle exitStage = iota
	exitText
	exitClear
	exitFinished
)

// Exit asks for long press A, shows farewell, then requests Quit.
type Exit struct {
	stage   exitStage
	inStage time.Duration
}

func NewExit() *Exit { return &Exit{} }

func (self *Exit) Kind() types.ScreenKind { return types.ScreenExit }
func (self *Exit) Enter()                 { self.stage, self.inStage = exitIdle, 0 }
func (self *Exit) Exit()                  {}
func (self *Exit) Finished() bool         { return self.stage == exitFinished }

func (self *Exit) HandleInput(ev types.InputEvent) bool {
	if self.stage != exitIdle {
		return true
	}
	if ev.Is(types.ButtonA, types.PressLong) {
		self.stage, self.inStage = exitText, 0
		return true
	}
	return false
}

func (self *Exit) Update(ctx types.Context) types.ScreenAction {
	if self.stage == exitIdle {
		return types.ScreenAction{}
	}
	self.inStage += ctx.Frame.SinceLastFrame
	switch self.stage {
	case exitText:
		if self.inStage >= ExitTextDuration {
			self.stage, self.inStage = exitClear, 0
		}
	case exitClear:
		if self.inStage >= ExitClearDuration {
			self.stage = exitFinished
		}
	}
	if self.stage == exitFinished {
		return types.ScreenAction{Kind: types.ScreenActionQuit}
	}
	return types.ScreenAction{}
}

func (self *Exit) Display(ctx types.Context, c *display.Canvas) {
	switch self.stage {
	case exitIdle:
		c.Overlay("Hold A to exit")
	case exitText:
		c.Overlay(exitArt)
	}
}

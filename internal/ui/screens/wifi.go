package screens

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/internal/types"
)

type wifiField uint8

const (
	fieldSSID wifiField = iota
	fieldPassword
	fieldShowPassword
	fieldConnect
	wifiFieldCount
)

type wifiFocus uint8

const (
	focusFields wifiFocus = iota
	focusKeyboard
	focusPopup
)

// WiFi edits ssid and password with on-screen keyboard and requests connection.
type WiFi struct {
	ssid         string
	password     string
	showPassword bool
	field        wifiField
	focus        wifiFocus
	keyboard     Keyboard
	dismissed    bool
}

func NewWiFi() *WiFi { return &WiFi{} }

func (self *WiFi) Kind() types.ScreenKind { return types.ScreenWiFiSettings }

// Enter starts each visit at first field, entered text is kept.
func (self *WiFi) Enter() {
	self.field = fieldSSID
	self.focus = focusFields
	self.dismissed = false
	self.keyboard.Reset()
}

func (self *WiFi) Exit() {}

func (self *WiFi) HandleInput(ev types.InputEvent) bool {
	switch self.focus {
	case focusKeyboard:
		self.keyboardInput(ev)
		return true

	case focusPopup:
		if ev.Press != types.PressShort {
			return false
		}
		self.focus = focusFields
		self.dismissed = true
		return true
	}

	switch {
	case ev.Is(types.ButtonA, types.PressShort):
		self.field = (self.field + wifiFieldCount - 1) % wifiFieldCount
	case ev.Is(types.ButtonX, types.PressShort):
		self.field = (self.field + 1) % wifiFieldCount
	case ev.Is(types.ButtonA, types.PressDouble):
		switch self.field {
		case fieldSSID, fieldPassword:
			self.keyboard.Reset()
			self.focus = focusKeyboard
		case fieldShowPassword:
			self.showPassword = !self.showPassword
		case fieldConnect:
			self.focus = focusPopup
		}
	default:
		return false
	}
	return true
}

func (self *WiFi) keyboardInput(ev types.InputEvent) {
	text := &self.ssid
	if self.field == fieldPassword {
		text = &self.password
	}
	switch result, s := self.keyboard.HandleInput(ev); result {
	case keyboardText:
		*text += s
	case keyboardBackspace:
		if r := []rune(*text); len(r) != 0 {
			*text = string(r[:len(r)-1])
		}
	case keyboardExit:
		self.focus = focusFields
	}
}

func (self *WiFi) Update(ctx types.Context) types.ScreenAction {
	if self.dismissed {
		self.dismissed = false
		return types.ScreenAction{Kind: types.ScreenActionResetWifiStatus}
	}
	if self.focus == focusPopup && ctx.System.Wifi.State == types.WifiIdle {
		return types.ScreenAction{Kind: types.ScreenActionConnectWifi, SSID: self.ssid, Password: self.password}
	}
	return types.ScreenAction{}
}

func (self *WiFi) Display(ctx types.Context, c *display.Canvas) {
	focused := c.Style().Foreground(display.ColorAccent).Bold(true)
	line := func(f wifiField, s string) string {
		if self.field == f {
			return focused.Render("> " + s)
		}
		return "  " + s
	}
	cursor := ""
	if self.focus == focusKeyboard {
		cursor = "_"
	}
	ssid, password := self.ssid, self.password
	if !self.showPassword {
		password = strings.Repeat("*", len([]rune(password)))
	}
	switch self.field {
	case fieldSSID:
		ssid += cursor
	case fieldPassword:
		password += cursor
	}
	check := "[ ]"
	if self.showPassword {
		check = "[x]"
	}

	c.Center(0, "WiFi settings")
	c.SetLine(2, line(fieldSSID, "SSID:     "+ssid))
	c.SetLine(3, line(fieldPassword, "Password: "+password))
	c.SetLine(4, line(fieldShowPassword, check+" Show password"))
	c.SetLine(5, line(fieldConnect, "[ Connect ]"))

	if self.focus == focusKeyboard {
		c.Center(7, strings.Join(self.keyboard.Rows(), "\n"))
	} else if c.Height() > 8 {
		c.SetLine(c.Height()-1, c.Style().Foreground(display.ColorUnknown).Render("A/X select  AA activate"))
	}

	if self.focus == focusPopup {
		self.drawPopup(ctx.System.Wifi, c)
	}
}

// Status names the network it belongs to, typed ssid may have changed since.
func (self *WiFi) drawPopup(w types.WifiConnectionStatus, c *display.Canvas) {
	ssid := w.SSID
	if ssid == "" {
		ssid = self.ssid
	}
	var text string
	color := display.ColorDegraded
	switch w.State {
	case types.WifiIdle, types.WifiConnecting:
		text = "Connecting to " + ssid + "..."
	case types.WifiSuccess:
		text, color = "Connected to "+ssid, display.ColorGood
	case types.WifiFailed:
		text, color = "Failed: "+w.Reason, display.ColorBad
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		c.Style().Foreground(color).Render(text),
		"",
		"press any button",
	)
	box := c.Style().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(c.Width() - 4).Align(lipgloss.Center).Render(body)
	c.Overlay(box)
}

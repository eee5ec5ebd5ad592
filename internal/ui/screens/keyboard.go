package screens

import (
	"strings"
	"unicode"

	"github.com/temoto/kiosk/internal/types"
)

const (
	keyShift = "shift"
	keyCaps  = "caps"
	keySpace = "space"
	keyDone  = "Done"
)

var keyboardLayout = [][]string{
	{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "="},
	{"q", "w", "e", "r", "t", "y", "u", "i", "o", "p", "[", "]"},
	{"a", "s", "d", "f", "g", "h", "j", "k", "l", ";", "'"},
	{"z", "x", "c", "v", "b", "n", "m", ",", ".", "/"},
	{keyShift, keyCaps, keySpace, keyDone},
}

var shiftedSymbols = map[string]string{
	"1": "!", "2": "@", "3": "#", "4": "$", "5": "%", "6": "^",
	"7": "&", "8": "*", "9": "(", "0": ")", "-": "_", "=": "+",
	"[": "{", "]": "}", ";": ":", "'": "\"", ",": "<", ".": ">", "/": "?",
}

type keyboardMode uint8

const (
	modeNormal keyboardMode = iota
	modeShift               // one key, then back to normal
	modeCaps
)

type keyboardResult uint8

const (
	keyboardNone keyboardResult = iota
	keyboardText
	keyboardBackspace
	keyboardExit
)

// Keyboard is on-screen character grid driven by four buttons.
// Short A/B move column, short X/Y move row, double X/Y jump two rows,
// double A types current key, double B is backspace.
type Keyboard struct {
	row, col int
	mode     keyboardMode
}

func (self *Keyboard) Reset() { self.row, self.col, self.mode = 0, 0, modeNormal }

func (self *Keyboard) Cursor() (int, int) { return self.row, self.col }

func (self *Keyboard) shifted() bool { return self.mode != modeNormal }

func (self *Keyboard) clamp() {
	if last := len(keyboardLayout[self.row]) - 1; self.col > last {
		self.col = last
	}
}

func (self *Keyboard) moveRow(delta int) {
	row := self.row + delta
	if row < 0 || row >= len(keyboardLayout) {
		return
	}
	self.row = row
	self.clamp()
}

// HandleInput returns result kind and text to append for keyboardText.
func (self *Keyboard) HandleInput(ev types.InputEvent) (keyboardResult, string) {
	width := len(keyboardLayout[self.row])
	switch ev.Press {
	case types.PressShort:
		switch ev.Button {
		case types.ButtonA:
			self.col = (self.col + 1) % width
		case types.ButtonB:
			self.col = (self.col + width - 1) % width
		case types.ButtonX:
			self.moveRow(-1)
		case types.ButtonY:
			self.moveRow(1)
		}
	case types.PressDouble:
		switch ev.Button {
		case types.ButtonA:
			return self.press()
		case types.ButtonB:
			return keyboardBackspace, ""
		case types.ButtonX:
			self.moveRow(-2)
		case types.ButtonY:
			self.moveRow(2)
		}
	}
	return keyboardNone, ""
}

func (self *Keyboard) press() (keyboardResult, string) {
	key := keyboardLayout[self.row][self.col]
	switch key {
	case keyDone:
		return keyboardExit, ""
	case keyShift:
		if self.mode == modeShift {
			self.mode = modeNormal
		} else {
			self.mode = modeShift
		}
		return keyboardNone, ""
	case keyCaps:
		if self.mode == modeCaps {
			self.mode = modeNormal
		} else {
			self.mode = modeCaps
		}
		return keyboardNone, ""
	case keySpace:
		return keyboardText, " "
	}
	s := self.label(key)
	if self.mode == modeShift {
		self.mode = modeNormal
	}
	return keyboardText, s
}

func (self *Keyboard) label(key string) string {
	if !self.shifted() || len(key) != 1 {
		return key
	}
	if s, ok := shiftedSymbols[key]; ok {
		return s
	}
	return strings.ToUpper(key)
}

// Rows renders grid, current key in brackets.
func (self *Keyboard) Rows() []string {
	rows := make([]string, len(keyboardLayout))
	b := strings.Builder{}
	for r, keys := range keyboardLayout {
		b.Reset()
		for c, key := range keys {
			label := self.label(key)
			if key == keyShift && self.mode == modeShift || key == keyCaps && self.mode == modeCaps {
				label = string(unicode.ToUpper(rune(label[0]))) + label[1:]
			}
			if r == self.row && c == self.col {
				b.WriteString("[" + label + "]")
			} else {
				b.WriteString(" " + label + " ")
			}
		}
		rows[r] = b.String()
	}
	return rows
}

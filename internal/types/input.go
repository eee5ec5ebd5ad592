package types

import "fmt"

type ButtonId uint8

const (
	ButtonA ButtonId = iota
	ButtonB
	ButtonX
	ButtonY
)

// AllButtons is the fixed set of physical buttons in sampling order.
var AllButtons = [...]ButtonId{ButtonA, ButtonB, ButtonX, ButtonY}

const ButtonCount = len(AllButtons)

func (b ButtonId) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonX:
		return "X"
	case ButtonY:
		return "Y"
	}
	return fmt.Sprintf("ButtonId(%d)", uint8(b))
}

type PressKind uint8

const (
	PressInvalid PressKind = iota
	PressShort
	PressLong
	PressDouble
)

func (p PressKind) String() string {
	switch p {
	case PressShort:
		return "short"
	case PressLong:
		return "long"
	case PressDouble:
		return "double"
	}
	return fmt.Sprintf("PressKind(%d)", uint8(p))
}

type InputEvent struct {
	Button ButtonId
	Press  PressKind
}

func (e InputEvent) Is(b ButtonId, p PressKind) bool { return e.Button == b && e.Press == p }
func (e InputEvent) IsZero() bool                    { return e.Press == PressInvalid }
func (e InputEvent) String() string                  { return fmt.Sprintf("%s-%s", e.Button, e.Press) }

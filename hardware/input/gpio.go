package input

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/gpio-cdev-go"
	"github.com/temoto/kiosk/internal/types"
)

const GpioConsumer = "kiosk-buttons"

// GpioSource reads buttons wired to ground with pull-ups, low = pressed.
type GpioSource struct {
	chip  gpio.Chiper // only for resource cleanup
	lines gpio.Lineser
	pins  [types.ButtonCount]uint32
}

var _ Source = new(GpioSource)

// NewGpioSource opens chip device, pins are line offsets in ButtonId order.
func NewGpioSource(chipPath string, pins [types.ButtonCount]uint32) (*GpioSource, error) {
	chip, err := gpio.Open(chipPath, GpioConsumer)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio open chip=%s", chipPath)
	}
	self, err := OpenGpioSource(chip, pins)
	if err != nil {
		_ = chip.Close()
		return nil, errors.Annotatef(err, "chip=%s", chipPath)
	}
	return self, nil
}

func OpenGpioSource(chip gpio.Chiper, pins [types.ButtonCount]uint32) (*GpioSource, error) {
	lines, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_INPUT, GpioConsumer, pins[:]...)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio open lines=%v", pins)
	}
	return &GpioSource{chip: chip, lines: lines, pins: pins}, nil
}

func (self *GpioSource) String() string { return fmt.Sprintf("gpio%v", self.pins) }

func (self *GpioSource) ReadLevels(levels *Levels) error {
	data, err := self.lines.Read()
	if err != nil {
		return errors.Annotate(err, "gpio read")
	}
	for i := range levels {
		levels[i] = data.Values[i] == 0
	}
	return nil
}

func (self *GpioSource) Close() error {
	err := self.lines.Close()
	if self.chip != nil {
		if cerr := self.chip.Close(); err == nil {
			err = cerr
		}
	}
	return errors.Annotate(err, "gpio close")
}

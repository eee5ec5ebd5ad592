package input

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"github.com/temoto/gpio-cdev-go"
	gpio_mock "github.com/temoto/gpio-cdev-go/mock"
	"github.com/temoto/inputevent-go"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

func TestSamplerStep(t *testing.T) {
	t.Parallel()

	src := NewMockSource()
	s := NewSampler(log2.NewTest(t, log2.LDebug), src, 0, 0)
	base := time.Unix(1600000000, 0)
	at := func(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }

	src.Set(types.ButtonY, true)
	s.Step(at(0))
	src.Set(types.ButtonY, false)
	s.Step(at(100))
	src.Set(types.ButtonA, true)
	for ms := 110; ms <= 1200; ms += 10 {
		s.Step(at(ms))
	}

	require.Len(t, s.Events(), 2)
	assert.Equal(t, types.InputEvent{Button: types.ButtonY, Press: types.PressShort}, <-s.Events())
	assert.Equal(t, types.InputEvent{Button: types.ButtonA, Press: types.PressLong}, <-s.Events())
}

func TestSamplerSourceError(t *testing.T) {
	t.Parallel()

	src := NewMockSource()
	s := NewSampler(log2.NewTest(t, log2.LDebug), src, 0, 0)
	base := time.Unix(1600000000, 0)
	src.Set(types.ButtonB, true)
	s.Step(base)
	src.Set(types.ButtonB, false)
	src.Err = errors.New("bus gone")
	s.Step(base.Add(100 * time.Millisecond))
	// pending short still resolves while source fails
	s.Step(base.Add(600 * time.Millisecond))
	require.Len(t, s.Events(), 1)
	assert.Equal(t, types.InputEvent{Button: types.ButtonB, Press: types.PressShort}, <-s.Events())
}

func TestSamplerQueueFull(t *testing.T) {
	t.Parallel()

	s := NewSampler(log2.NewTest(t, log2.LAll), NewMockSource(), 0, 1)
	s.Emit(types.InputEvent{Button: types.ButtonA, Press: types.PressShort})
	s.Emit(types.InputEvent{Button: types.ButtonB, Press: types.PressShort})
	require.Len(t, s.Events(), 1)
	Drain(s.Events())
	assert.Len(t, s.Events(), 0)
}

func TestSamplerRunStop(t *testing.T) {
	t.Parallel()

	src := NewMockSource()
	s := NewSampler(log2.NewTest(t, log2.LDebug), src, time.Millisecond, 0)
	a := alive.NewAlive()
	src.Set(types.ButtonX, true)
	go s.Run(a)
	select {
	case e := <-s.Events():
		assert.Equal(t, types.InputEvent{Button: types.ButtonX, Press: types.PressLong}, e)
	case <-time.After(5 * time.Second):
		t.Fatal("no long press")
	}
	a.Stop()
	a.Wait()
}

func TestGpioSource(t *testing.T) {
	t.Parallel()

	chip := &gpio_mock.MockChip{}
	lines := &gpio_mock.MockLines{}
	chip.On("OpenLines", gpio.GPIOHANDLE_REQUEST_INPUT, GpioConsumer, uint32(5), uint32(6), uint32(16), uint32(24)).Return(lines, nil)
	var data gpio.HandleData
	data.Values = [gpio.GPIOHANDLES_MAX]byte{1, 0, 1, 0}
	lines.On("Read").Return(data, nil).Once()
	lines.On("Read").Return(gpio.HandleData{}, errors.New("EIO")).Once()
	lines.On("Close").Return(nil)
	chip.On("Close").Return(nil)

	src, err := OpenGpioSource(chip, [4]uint32{5, 6, 16, 24})
	require.NoError(t, err)
	var levels Levels
	require.NoError(t, src.ReadLevels(&levels))
	assert.Equal(t, Levels{false, true, false, true}, levels)
	assert.Error(t, src.ReadLevels(&levels))
	require.NoError(t, src.Close())
	chip.AssertExpectations(t)
	lines.AssertExpectations(t)
}

func TestDevInputEvent(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	write := func(typ, code uint16, value inputevent.KeyEventState) {
		ie := inputevent.InputEvent{Type: typ, Code: code, Value: int32(value)}
		require.NoError(t, binary.Write(buf, binary.NativeEndian, &ie))
	}
	write(evKey, 30, inputevent.KeyStateDown)
	write(evKey, 48, inputevent.KeyStateDown)
	write(evKey, 48, inputevent.KeyStateUp)
	write(evKey, 99, inputevent.KeyStateDown)
	write(0x04, 30, 0) // EV_MSC

	src := newDevInputEvent(log2.NewTest(t, log2.LDebug), io.NopCloser(buf), [4]uint16{30, 48, 45, 21})
	src.readLoop()

	var levels Levels
	err := src.ReadLevels(&levels)
	// reader exhausted
	require.Error(t, err)
	assert.True(t, errors.Cause(err) == io.EOF, errors.ErrorStack(err))

	src.err = nil
	require.NoError(t, src.ReadLevels(&levels))
	assert.Equal(t, Levels{true, false, false, false}, levels)
}

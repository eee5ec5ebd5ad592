// Kiosk user interface: buttons, screens, status probes.
package ui

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/kiosk/cmd/kiosk/subcmd"
	"github.com/temoto/kiosk/hardware/display"
	"github.com/temoto/kiosk/hardware/input"
	"github.com/temoto/kiosk/helpers"
	"github.com/temoto/kiosk/internal/state"
	"github.com/temoto/kiosk/internal/tele"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/internal/ui"
	"github.com/temoto/kiosk/internal/ui/screens"
	"github.com/temoto/kiosk/log2"
)

var Mod = subcmd.Mod{Name: "ui", Usage: "run kiosk user interface (default)", Main: Main}

func Main(ctx context.Context, log *log2.Log, config *state.Config, args []string) error {
	a := alive.NewAlive()
	defer func() {
		a.Stop()
		a.Wait()
	}()
	go func() {
		select {
		case <-ctx.Done():
			log.Infof("stop requested")
			a.Stop()
		case <-a.StopChan():
		}
	}()

	dc := &config.Hardware.Display
	disp, err := display.NewTerminal(dc.Device, dc.Width, dc.Height)
	if err != nil {
		return errors.Annotate(err, "display")
	}
	defer disp.Close()
	if err = disp.Clear(); err != nil {
		return errors.Annotate(err, "display")
	}

	source, err := NewInputSource(log, config)
	if err != nil {
		return errors.Annotate(err, "input")
	}
	log.Debugf("input source=%s", source)
	sampler := input.NewSampler(log, source, config.SamplePeriod(), input.DefaultQueueSize)
	// sampler stops before display is closed
	inputAlive := alive.NewAlive()
	go helpers.AliveSub(a, inputAlive)
	defer func() {
		inputAlive.Stop()
		inputAlive.Wait()
	}()
	go sampler.Run(inputAlive)

	probes := subcmd.NewProbes(log, config)
	defer probes.Service.Close()

	order := config.ScreenOrder()
	list, err := screens.Build(order, screens.Options{
		Title:        config.UI.Title,
		ScanURL:      config.UI.ScanURL,
		LogoDuration: config.LogoDuration(),
	})
	if err != nil {
		return errors.Annotate(err, "screens")
	}
	flow, err := ui.NewScreenFlow(log, list, order)
	if err != nil {
		return errors.Annotate(err, "screen flow")
	}
	flow.Bar.Title = config.UI.Title

	telesys := tele.New()
	if err = telesys.Init(ctx, log, subcmd.TeleConfig(config)); err != nil {
		return errors.Annotate(err, "tele")
	}
	defer telesys.Close()
	if telesys.Enabled() {
		log.SetErrorFunc(telesys.Error)
		defer log.SetErrorFunc(nil)
	}

	app, err := ui.NewApp(ui.AppConfig{
		Log:             log,
		Alive:           a,
		Probes:          probes,
		Flow:            flow,
		Input:           sampler.Events(),
		ServiceName:     config.Probe.Service.Name,
		TickPeriod:      config.TickPeriod(),
		NetworkInterval: config.NetworkInterval(),
		ServiceInterval: config.ServiceInterval(),
		UpdateInterval:  config.UpdateInterval(),
		JournalInterval: config.JournalInterval(),
		HostInterval:    config.HostInterval(),
		SnoozeDuration:  config.SnoozeDuration(),
		OnState:         telesys.State,
	})
	if err != nil {
		return errors.Annotate(err, "app")
	}

	subcmd.SdNotify(daemon.SdNotifyReady)
	go watchdog(log, a)
	log.Infof("kiosk ui running screens=%v", order)

	err = app.Run(ctx, disp)
	if errors.Cause(err) == context.Canceled {
		err = nil
	}
	subcmd.SdNotify(daemon.SdNotifyStopping)
	return err
}

// NewInputSource opens configured button source, mock when none is enabled.
func NewInputSource(log *log2.Log, config *state.Config) (input.Source, error) {
	in := &config.Hardware.Input
	switch {
	case in.Gpio.Enable:
		pins := [types.ButtonCount]uint32{uint32(in.Gpio.PinA), uint32(in.Gpio.PinB), uint32(in.Gpio.PinX), uint32(in.Gpio.PinY)}
		src, err := input.NewGpioSource(in.Gpio.Chip, pins)
		if err != nil {
			return nil, err
		}
		return src, nil
	case in.DevInputEvent.Enable:
		keys := [types.ButtonCount]uint16{uint16(in.DevInputEvent.KeyA), uint16(in.DevInputEvent.KeyB), uint16(in.DevInputEvent.KeyX), uint16(in.DevInputEvent.KeyY)}
		src, err := input.NewDevInputEventSource(log, in.DevInputEvent.Device, keys)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	log.Infof("no input source enabled, buttons disabled")
	return input.NewMockSource(), nil
}

func watchdog(log *log2.Log, a *alive.Alive) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		log.Errorf("sd watchdog err=%v", err)
		return
	}
	if interval == 0 {
		return
	}
	if !a.Add(1) {
		return
	}
	defer a.Done()
	tmr := time.NewTicker(interval / 2)
	defer tmr.Stop()
	stopch := a.StopChan()
	for {
		select {
		case <-tmr.C:
			subcmd.SdNotify(daemon.SdNotifyWatchdog)
		case <-stopch:
			return
		}
	}
}

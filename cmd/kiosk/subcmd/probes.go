package subcmd

import (
	"github.com/temoto/kiosk/internal/probe"
	"github.com/temoto/kiosk/internal/state"
	"github.com/temoto/kiosk/internal/tele"
	"github.com/temoto/kiosk/log2"
)

// NewProbes builds concrete probes from config. Caller must Service.Close().
func NewProbes(log *log2.Log, config *state.Config) *probe.Set {
	run := probe.ExecRunner{Sudo: config.Probe.Wifi.Sudo}
	return &probe.Set{
		Network: probe.NewNetwork(run),
		Service: probe.NewService(log, config.Probe.Service.Name, run),
		Wifi: &probe.Wifi{
			Run:        run,
			Ifname:     config.Probe.Wifi.Ifname,
			Connection: config.Probe.Wifi.Connection,
			UpTimeout:  config.WifiUpTimeout(),
		},
		Update:  probe.NewUpdateStore(config.Probe.Update.Manifest, config.Probe.Update.Trigger),
		Journal: probe.NewJournal(run, config.Probe.Service.Name),
		Snooze:  config.SnoozeDuration(),
	}
}

func TeleConfig(config *state.Config) tele.Config {
	return tele.Config{
		Enabled:      config.Tele.Enable,
		MqttBroker:   config.Tele.MqttBroker,
		ClientID:     config.Tele.ClientID,
		TopicPrefix:  config.Tele.TopicPrefix,
		KeepaliveSec: config.Tele.KeepaliveSec,
		StorePath:    config.Tele.StorePath,
		LogDebug:     config.Tele.LogDebug,
	}
}

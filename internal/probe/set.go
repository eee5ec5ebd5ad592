package probe

import (
	"context"
	"time"

	"github.com/temoto/kiosk/internal/types"
)

// Set bundles concrete probes for the UI dispatcher.
type Set struct {
	Network *Network
	Service *Service
	Wifi    *Wifi
	Update  *UpdateStore
	Journal *Journal
	Snooze  time.Duration
}

func (self *Set) CheckNetwork(ctx context.Context) (types.NetworkStatus, error) {
	return self.Network.Check(ctx)
}
func (self *Set) CheckService(ctx context.Context) (types.ServiceInfo, error) {
	return self.Service.Check(ctx)
}
func (self *Set) ConnectWifi(ctx context.Context, ssid, password string) error {
	return self.Wifi.Connect(ctx, ssid, password)
}
func (self *Set) ReadUpdate() (types.UpdateManifest, error) { return self.Update.Read() }
func (self *Set) RequestUpdate() error                      { return self.Update.RequestUpdate() }
func (self *Set) SnoozeUpdate(now time.Time) error          { return self.Update.Snooze(now, self.Snooze) }

func (self *Set) ReadJournal(ctx context.Context) ([]types.LogEntry, error) {
	return self.Journal.Read(ctx)
}
func (self *Set) ReadHost(ctx context.Context) types.HostInfo { return ReadHost(ctx) }

package probe

import (
	"context"
	"strings"
	"time"

	"github.com/juju/errors"
)

type Privileged interface {
	Runner
	Privileged(ctx context.Context, name string, args ...string) (string, error)
}

// Wifi configures one NetworkManager connection profile and brings it up.
type Wifi struct {
	Run        Privileged
	Ifname     string
	Connection string
	UpTimeout  time.Duration
}

// Connect writes ssid/password into connection profile then activates it
// within UpTimeout. Empty password means open network.
func (self *Wifi) Connect(ctx context.Context, ssid, password string) error {
	if ssid == "" {
		return errors.NotValidf("wifi ssid empty")
	}
	if err := self.Configure(ctx, ssid, password); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(self.Up(ctx))
}

func (self *Wifi) Configure(ctx context.Context, ssid, password string) error {
	exists, err := self.exists(ctx)
	if err != nil {
		return errors.Annotate(err, "wifi configure")
	}
	if exists {
		_, err = self.Run.Privileged(ctx, "nmcli", "con", "modify", self.Connection, "wifi.ssid", ssid)
	} else {
		_, err = self.Run.Privileged(ctx, "nmcli", "con", "add", "type", "wifi", "ifname", self.Ifname, "con-name", self.Connection, "ssid", ssid)
	}
	if err != nil {
		return errors.Annotate(err, "wifi configure")
	}
	if password == "" {
		// fails when profile has no security block
		_, _ = self.Run.Privileged(ctx, "nmcli", "con", "modify", self.Connection, "remove", "wifi-sec")
		return nil
	}
	if _, err = self.Run.Privileged(ctx, "nmcli", "con", "modify", self.Connection, "wifi-sec.key-mgmt", "wpa-psk"); err != nil {
		return errors.Annotate(err, "wifi configure")
	}
	if _, err = self.Run.Privileged(ctx, "nmcli", "con", "modify", self.Connection, "wifi-sec.psk", password); err != nil {
		// do not leak password into status text
		return errors.New("wifi configure: set password failed")
	}
	return nil
}

func (self *Wifi) Up(ctx context.Context) error   { return self.activate(ctx, "up") }
func (self *Wifi) Down(ctx context.Context) error { return self.activate(ctx, "down") }

func (self *Wifi) activate(ctx context.Context, verb string) error {
	ctx, cancel := context.WithTimeout(ctx, self.UpTimeout)
	defer cancel()
	_, err := self.Run.Privileged(ctx, "nmcli", "con", verb, self.Connection)
	if ctx.Err() == context.DeadlineExceeded {
		return errors.Timeoutf("wifi %s after %s", verb, self.UpTimeout)
	}
	return errors.Annotatef(err, "wifi %s", verb)
}

func (self *Wifi) exists(ctx context.Context) (bool, error) {
	out, err := self.Run.Run(ctx, "nmcli", "-t", "-f", "NAME", "con", "show")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == self.Connection {
			return true, nil
		}
	}
	return false, nil
}

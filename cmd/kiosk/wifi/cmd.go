// Configure and bring up wifi connection without the screen.
package wifi

import (
	"context"
	"flag"
	"io"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/cmd/kiosk/subcmd"
	"github.com/temoto/kiosk/internal/state"
	"github.com/temoto/kiosk/log2"
)

const (
	modName  = "wifi-connect"
	modUsage = "wifi-connect -ssid NAME [-password PASS]"
)

var Mod = subcmd.Mod{Name: modName, Usage: modUsage, Main: Main}

func Main(ctx context.Context, log *log2.Log, config *state.Config, args []string) error {
	flags := flag.NewFlagSet(modName, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	ssid := flags.String("ssid", "", "network name")
	password := flags.String("password", "", "passphrase, empty for open network")
	if err := flags.Parse(args); err != nil {
		return errors.Annotate(err, modUsage)
	}
	if *ssid == "" {
		return errors.NotValidf("empty ssid, usage: %s", modUsage)
	}

	probes := subcmd.NewProbes(log, config)
	defer probes.Service.Close()
	log.Infof("wifi connecting ssid=%s", *ssid)
	if err := probes.Wifi.Connect(ctx, *ssid, *password); err != nil {
		return errors.Annotatef(err, "wifi connect ssid=%s", *ssid)
	}
	log.Infof("wifi connected ssid=%s", *ssid)
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/temoto/kiosk/cmd/kiosk/doctor"
	"github.com/temoto/kiosk/cmd/kiosk/subcmd"
	"github.com/temoto/kiosk/cmd/kiosk/ui"
	"github.com/temoto/kiosk/cmd/kiosk/wifi"
	"github.com/temoto/kiosk/internal/state"
	"github.com/temoto/kiosk/log2"
)

var log = log2.NewStderr(log2.LInfo)

var modules = []subcmd.Mod{
	ui.Mod,
	doctor.Mod,
	wifi.Mod,
}

func main() {
	flagConfig := flag.String("config", "kiosk.hcl", "")
	flag.Usage = usage
	flag.Parse()

	if subcmd.SdNotify("start") {
		// under systemd, journal adds timestamps
		log.SetFlags(log2.LServiceFlags)
	} else if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LInteractiveFlags)
	}

	command := flag.Arg(0)
	if command == "" {
		command = ui.Mod.Name
	}
	mod, err := subcmd.Parse(command, modules)
	if err != nil {
		usage()
		log.Fatal(errors.ErrorStack(err))
	}

	config := state.MustReadConfig(log, state.NewOsFullReader(""), os.Getenv, *flagConfig)
	if config.LogDebug {
		log.SetLevel(log2.LDebug)
	}
	log.Debugf("config=%+v", config)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	var args []string
	if flag.NArg() > 1 {
		args = flag.Args()[1:]
	}
	if err := mod.Main(ctx, log, config, args); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config kiosk.hcl] [command] [args]\n\ncommands:\n", os.Args[0])
	for _, m := range modules {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-14s %s\n", m.Name, m.Usage)
	}
	flag.PrintDefaults()
}

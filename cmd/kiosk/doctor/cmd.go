// Doctor runs every probe once and reports, useful over ssh.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/cmd/kiosk/subcmd"
	"github.com/temoto/kiosk/helpers"
	"github.com/temoto/kiosk/internal/probe"
	"github.com/temoto/kiosk/internal/state"
	"github.com/temoto/kiosk/internal/types"
	"github.com/temoto/kiosk/log2"
)

var Mod = subcmd.Mod{Name: "doctor", Usage: "check network, service, updates, journal and host once", Main: Main}

const timeout = 10 * time.Second

func Main(ctx context.Context, log *log2.Log, config *state.Config, args []string) error {
	probes := subcmd.NewProbes(log, config)
	defer probes.Service.Close()
	return Run(ctx, os.Stdout, probes)
}

// Run checks in parallel, prints one line per check, returns all failures folded.
func Run(ctx context.Context, w io.Writer, probes *probe.Set) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checks := []struct {
		name string
		f    func() (string, error)
	}{
		{"network", func() (string, error) {
			ns, err := probes.CheckNetwork(ctx)
			return ns.String(), err
		}},
		{"service", func() (string, error) {
			si, err := probes.CheckService(ctx)
			if err == nil && si.Error != "" {
				err = errors.New(si.Error)
			}
			return fmt.Sprintf("%s %s/%s enabled=%s pid=%d", si.Name, si.Active, si.SubState, si.Enabled, si.MainPID), err
		}},
		{"update", func() (string, error) {
			m, err := probes.ReadUpdate()
			if names := m.PendingNames(); len(names) != 0 {
				return fmt.Sprintf("pending=%v snoozed=%t", names, m.Snoozed(time.Now())), err
			}
			return "none pending", err
		}},
		{"journal", func() (string, error) {
			entries, err := probes.ReadJournal(ctx)
			j := types.JournalState{}.Append(entries)
			if !j.TipKnown {
				return fmt.Sprintf("entries=%d tip=unknown", len(entries)), err
			}
			return fmt.Sprintf("entries=%d tip=#%d", len(entries), j.TipSlot), err
		}},
		{"host", func() (string, error) {
			hi := probes.ReadHost(ctx)
			return fmt.Sprintf("%s %s kernel=%s up=%v load1=%.2f mem=%.0f%% disk=%.0f%%",
				hi.Hostname, hi.Platform, hi.Kernel, hi.Uptime, hi.Load1, hi.MemUsedPct, hi.DiskUsedPct), hi.Err
		}},
	}

	lines := make([]string, len(checks))
	wg := sync.WaitGroup{}
	wg.Add(len(checks))
	errch := make(chan error, len(checks))
	for i, c := range checks {
		i, c := i, c
		go helpers.WrapErrChan(&wg, errch, func() error {
			value, err := c.f()
			if err != nil {
				lines[i] = fmt.Sprintf("%-8s FAIL %v", c.name, err)
				return errors.Annotate(err, c.name)
			}
			lines[i] = fmt.Sprintf("%-8s ok   %s", c.name, value)
			return nil
		})
	}
	wg.Wait()
	close(errch)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return helpers.FoldErrChan(errch)
}

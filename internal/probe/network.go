package probe

import (
	"context"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/internal/types"
)

type Network struct {
	Run Runner
}

func NewNetwork(run Runner) *Network { return &Network{Run: run} }

func (self *Network) Check(ctx context.Context) (types.NetworkStatus, error) {
	out, err := self.Run.Run(ctx, "nmcli", "-t", "-f", "STATE,CONNECTIVITY", "general", "status")
	if err != nil {
		return types.NetworkStatus{}, errors.Annotate(err, "network check")
	}
	return ParseNmcliGeneral(out)
}

// ParseNmcliGeneral parses terse `STATE:CONNECTIVITY` line.
func ParseNmcliGeneral(s string) (types.NetworkStatus, error) {
	line := strings.TrimSpace(s)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	parts := strings.Split(line, ":")
	if len(parts) < 2 {
		return types.NetworkStatus{}, errors.NotValidf("nmcli output=%q", s)
	}
	return types.NetworkStatus{
		State:        types.ParseNetworkState(parts[0]),
		Connectivity: types.ParseConnectivity(parts[1]),
	}, nil
}

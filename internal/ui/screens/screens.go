// Package screens has the concrete pages shown by ui.ScreenFlow.
package screens

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/internal/types"
)

type Options struct {
	Title        string
	ScanURL      string
	LogoDuration time.Duration
}

// Build creates one screen per kind, in the same order.
func Build(kinds []types.ScreenKind, opt Options) ([]types.Screen, error) {
	list := make([]types.Screen, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case types.ScreenLogo:
			list = append(list, NewLogo(opt.LogoDuration, opt.Title))
		case types.ScreenInfo:
			list = append(list, NewInfo())
		case types.ScreenScan:
			list = append(list, NewScan(opt.ScanURL))
		case types.ScreenStatus:
			list = append(list, NewStatus())
		case types.ScreenWiFiSettings:
			list = append(list, NewWiFi())
		case types.ScreenExit:
			list = append(list, NewExit())
		case types.ScreenLogs:
			list = append(list, NewLogs())
		case types.ScreenTip:
			list = append(list, NewTip())
		default:
			return nil, errors.NotSupportedf("screen=%s", k)
		}
	}
	return list, nil
}

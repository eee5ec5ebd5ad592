package types

import (
	"fmt"
	"strings"
	"time"
)

type NetworkState uint8

const (
	NetworkUnknown NetworkState = iota
	NetworkConnectedGlobal
	NetworkConnectedLocal
	NetworkConnectedSite
	NetworkConnecting
	NetworkDisconnected
	NetworkDisconnecting
)

var networkStateNames = map[string]NetworkState{
	"connected-global": NetworkConnectedGlobal,
	"connected-local":  NetworkConnectedLocal,
	"connected-site":   NetworkConnectedSite,
	"connecting":       NetworkConnecting,
	"disconnected":     NetworkDisconnected,
	"disconnecting":    NetworkDisconnecting,
	// older NetworkManager
	"connected": NetworkConnectedGlobal,
}

func ParseNetworkState(s string) NetworkState { return networkStateNames[strings.TrimSpace(s)] }

func (n NetworkState) String() string {
	switch n {
	case NetworkConnectedGlobal:
		return "connected-global"
	case NetworkConnectedLocal:
		return "connected-local"
	case NetworkConnectedSite:
		return "connected-site"
	case NetworkConnecting:
		return "connecting"
	case NetworkDisconnected:
		return "disconnected"
	case NetworkDisconnecting:
		return "disconnecting"
	}
	return "unknown"
}

type Connectivity uint8

const (
	ConnectivityUnknown Connectivity = iota
	ConnectivityNone
	ConnectivityPortal
	ConnectivityLimited
	ConnectivityFull
)

func ParseConnectivity(s string) Connectivity {
	switch strings.TrimSpace(s) {
	case "none":
		return ConnectivityNone
	case "portal":
		return ConnectivityPortal
	case "limited":
		return ConnectivityLimited
	case "full":
		return ConnectivityFull
	}
	return ConnectivityUnknown
}

func (c Connectivity) String() string {
	switch c {
	case ConnectivityNone:
		return "none"
	case ConnectivityPortal:
		return "portal"
	case ConnectivityLimited:
		return "limited"
	case ConnectivityFull:
		return "full"
	}
	return "unknown"
}

// NetworkStatus zero value means unknown, that is what failed probes report.
type NetworkStatus struct {
	State        NetworkState `json:"state"`
	Connectivity Connectivity `json:"connectivity"`
}

func (n NetworkStatus) String() string {
	return fmt.Sprintf("%s/%s", n.State, n.Connectivity)
}

// Health is the status bar light colour.
type Health uint8

const (
	HealthUnknown Health = iota
	HealthBad
	HealthDegraded
	HealthGood
)

func (n NetworkStatus) Health() Health {
	switch n.Connectivity {
	case ConnectivityFull:
		return HealthGood
	case ConnectivityLimited, ConnectivityPortal:
		return HealthDegraded
	case ConnectivityNone:
		return HealthBad
	}
	switch n.State {
	case NetworkDisconnected, NetworkDisconnecting:
		return HealthBad
	case NetworkConnecting:
		return HealthDegraded
	}
	return HealthUnknown
}

type ActiveState uint8

const (
	ActiveUnknown ActiveState = iota
	ActiveActive
	ActiveInactive
	ActiveFailed
	ActiveActivating
	ActiveDeactivating
)

func ParseActiveState(s string) ActiveState {
	switch s {
	case "active":
		return ActiveActive
	case "inactive":
		return ActiveInactive
	case "failed":
		return ActiveFailed
	case "activating":
		return ActiveActivating
	case "deactivating":
		return ActiveDeactivating
	}
	return ActiveUnknown
}

func (a ActiveState) String() string {
	switch a {
	case ActiveActive:
		return "active"
	case ActiveInactive:
		return "inactive"
	case ActiveFailed:
		return "failed"
	case ActiveActivating:
		return "activating"
	case ActiveDeactivating:
		return "deactivating"
	}
	return "unknown"
}

type EnabledState uint8

const (
	EnabledUnknown EnabledState = iota
	EnabledEnabled
	EnabledDisabled
	EnabledStatic
	EnabledIndirect
	EnabledGenerated
	EnabledMasked
)

var enabledStateNames = [...]string{"unknown", "enabled", "disabled", "static", "indirect", "generated", "masked"}

func ParseEnabledState(s string) EnabledState {
	for i, name := range enabledStateNames {
		if name == s {
			return EnabledState(i)
		}
	}
	return EnabledUnknown
}

func (e EnabledState) String() string {
	if int(e) < len(enabledStateNames) {
		return enabledStateNames[e]
	}
	return "unknown"
}

// ServiceInfo describes the managed systemd unit.
// Zero value is "unknown", Error holds the reason when the probe failed.
type ServiceInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Active      ActiveState  `json:"active"`
	SubState    string       `json:"sub_state"`
	Enabled     EnabledState `json:"enabled"`
	MainPID     uint32       `json:"main_pid,omitempty"` // 0 = no process
	Error       string       `json:"error,omitempty"`
}

func (s ServiceInfo) Health() Health {
	switch s.Active {
	case ActiveActive:
		return HealthGood
	case ActiveActivating, ActiveDeactivating:
		return HealthDegraded
	case ActiveFailed, ActiveInactive:
		return HealthBad
	}
	return HealthUnknown
}

type WifiState uint8

const (
	WifiIdle WifiState = iota
	WifiConnecting
	WifiSuccess
	WifiFailed
)

func (w WifiState) String() string {
	switch w {
	case WifiIdle:
		return "idle"
	case WifiConnecting:
		return "connecting"
	case WifiSuccess:
		return "success"
	case WifiFailed:
		return "failed"
	}
	return fmt.Sprintf("WifiState(%d)", uint8(w))
}

type WifiConnectionStatus struct {
	State  WifiState `json:"state"`
	SSID   string    `json:"ssid,omitempty"`   // network of the last attempt
	Reason string    `json:"reason,omitempty"` // only with WifiFailed
}

func WifiFailedf(format string, args ...interface{}) WifiConnectionStatus {
	return WifiConnectionStatus{State: WifiFailed, Reason: fmt.Sprintf(format, args...)}
}

func WifiConnectingTo(ssid string) WifiConnectionStatus {
	return WifiConnectionStatus{State: WifiConnecting, SSID: ssid}
}

func (w WifiConnectionStatus) String() string {
	if w.State == WifiFailed {
		return "failed: " + w.Reason
	}
	return w.State.String()
}

// SystemState is the latest known external status.
// Owned by the tick loop, screens get a copy.
type SystemState struct {
	Network NetworkStatus        `json:"network"`
	Service ServiceInfo          `json:"service"`
	Wifi    WifiConnectionStatus `json:"wifi"`
	Update  UpdateManifest       `json:"update"`
	Journal JournalState         `json:"journal"`
	Host    HostInfo             `json:"-"`
}

// HostInfo is a snapshot of local machine facts, reads /proc and /sys only.
type HostInfo struct {
	Hostname    string
	Platform    string
	Kernel      string
	Uptime      time.Duration
	Load1       float64
	MemUsedPct  float64
	DiskUsedPct float64
	Err         error
}

package types

import "fmt"

type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionCheckNetwork
	ActionCheckService
	ActionConnectWifi
	ActionResetWifiStatus
	ActionRequestUpdate
	ActionSnoozeUpdate
	ActionQuit
	ActionReadJournal
	ActionReadHost
	actionKindCount
)

var actionKindNames = [...]string{
	ActionNone:            "None",
	ActionCheckNetwork:    "CheckNetwork",
	ActionCheckService:    "CheckService",
	ActionConnectWifi:     "ConnectWifi",
	ActionResetWifiStatus: "ResetWifiStatus",
	ActionRequestUpdate:   "RequestUpdate",
	ActionSnoozeUpdate:    "SnoozeUpdate",
	ActionQuit:            "Quit",
	ActionReadJournal:     "ReadJournal",
	ActionReadHost:        "ReadHost",
}

const ActionKindCount = int(actionKindCount)

func (k ActionKind) String() string {
	if int(k) < len(actionKindNames) {
		return actionKindNames[k]
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// Async actions run on a worker and report back with AppActionComplete.
func (k ActionKind) Async() bool {
	switch k {
	case ActionCheckNetwork, ActionCheckService, ActionConnectWifi, ActionRequestUpdate, ActionSnoozeUpdate,
		ActionReadJournal, ActionReadHost:
		return true
	}
	return false
}

// AppAction is an intent for the dispatcher.
type AppAction struct {
	Kind     ActionKind
	SSID     string
	Password string
}

func (a AppAction) IsZero() bool { return a.Kind == ActionNone }
func (a AppAction) String() string {
	if a.Kind == ActionConnectWifi {
		return fmt.Sprintf("%s(ssid=%q)", a.Kind, a.SSID)
	}
	return a.Kind.String()
}

type ScreenActionKind uint8

const (
	ScreenActionNone ScreenActionKind = iota
	// Next is handled by the screen flow itself and never bubbles.
	ScreenActionNext
	ScreenActionConnectWifi
	ScreenActionResetWifiStatus
	ScreenActionQuit
)

// ScreenAction is what a focused screen asks for on its update.
type ScreenAction struct {
	Kind     ScreenActionKind
	SSID     string
	Password string
}

func (s ScreenAction) IsZero() bool { return s.Kind == ScreenActionNone }

// AppAction converts cross-cutting screen intents into dispatcher vocabulary.
// Returns zero AppAction for None and Next.
func (s ScreenAction) AppAction() AppAction {
	switch s.Kind {
	case ScreenActionConnectWifi:
		return AppAction{Kind: ActionConnectWifi, SSID: s.SSID, Password: s.Password}
	case ScreenActionResetWifiStatus:
		return AppAction{Kind: ActionResetWifiStatus}
	case ScreenActionQuit:
		return AppAction{Kind: ActionQuit}
	}
	return AppAction{}
}

// AppActionComplete is sent exactly once by every async action worker.
// Only the field matching Kind is meaningful.
type AppActionComplete struct {
	Kind    ActionKind
	Network NetworkStatus
	Service ServiceInfo
	// new journal lines, oldest first
	Journal []LogEntry
	Host    HostInfo
	Err     error
}

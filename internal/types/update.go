package types

import (
	"sort"
	"time"
)

type AppUpdateState struct {
	CurrentVersion string `json:"current_version"`
	PendingVersion string `json:"pending_version"`
	StagedPath     string `json:"staged_path"`
}

func (a AppUpdateState) Ready() bool { return a.PendingVersion != "" && a.StagedPath != "" }

// UpdateManifest is written by the external updater.
// NotifyAfter is unix seconds; popups are suppressed until then.
type UpdateManifest struct {
	NotifyAfter  int64                     `json:"notify_after"`
	Applications map[string]AppUpdateState `json:"applications"`
}

// PendingNames returns sorted names of applications with a staged update.
func (m UpdateManifest) PendingNames() []string {
	var names []string
	for name, app := range m.Applications {
		if app.Ready() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (m UpdateManifest) Snoozed(now time.Time) bool { return now.Unix() < m.NotifyAfter }

// ReadyToNotify returns pending names unless snoozed.
func (m UpdateManifest) ReadyToNotify(now time.Time) []string {
	if m.Snoozed(now) {
		return nil
	}
	return m.PendingNames()
}

// Snooze returns a copy with NotifyAfter moved to now+d.
// Applications map is shared with the receiver.
func (m UpdateManifest) Snooze(now time.Time, d time.Duration) UpdateManifest {
	m.NotifyAfter = now.Add(d).Unix()
	return m
}

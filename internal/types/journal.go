package types

import (
	"fmt"
	"strconv"
	"strings"
)

type LogLevel uint8

// Ordered by severity, zero value is Info as in managed service JSON without level.
const (
	LogInfo LogLevel = iota
	LogTrace
	LogDebug
	LogWarn
	LogError
)

func (l LogLevel) rank() int {
	switch l {
	case LogTrace:
		return 1
	case LogDebug:
		return 2
	case LogInfo:
		return 3
	case LogWarn:
		return 4
	case LogError:
		return 5
	}
	return 0
}

// AtLeast reports whether l is as severe as min or more.
func (l LogLevel) AtLeast(min LogLevel) bool { return l.rank() >= min.rank() }

func (l LogLevel) String() string {
	switch l {
	case LogTrace:
		return "TRACE"
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	}
	return fmt.Sprintf("LogLevel(%d)", uint8(l))
}

func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LogTrace, true
	case "debug":
		return LogDebug, true
	case "info":
		return LogInfo, true
	case "warn":
		return LogWarn, true
	case "error":
		return LogError, true
	}
	return LogInfo, false
}

// LogEntry is one structured line of the managed service journal.
type LogEntry struct {
	Level   LogLevel
	Message string
	// Tip is "slot.hash" on tip_changed events.
	Tip string
}

const (
	JournalMaxEntries = 25
	TipChangedMessage = "tip_changed"
)

// TipSlot returns slot of a tip_changed entry.
func (e LogEntry) TipSlot() (uint64, bool) {
	if e.Message != TipChangedMessage || e.Tip == "" {
		return 0, false
	}
	slot := e.Tip
	if i := strings.IndexByte(slot, '.'); i >= 0 {
		slot = slot[:i]
	}
	n, err := strconv.ParseUint(slot, 10, 64)
	return n, err == nil
}

// JournalState is what Logs and Tip screens show.
type JournalState struct {
	// newest first, Info and above
	Entries  []LogEntry `json:"-"`
	TipSlot  uint64     `json:"tip_slot,omitempty"`
	TipKnown bool       `json:"tip_known"`
}

// Append returns new state with entries (oldest first, as read) merged in.
// Receiver is not modified, Entries of result never share memory with it.
func (j JournalState) Append(entries []LogEntry) JournalState {
	fresh := make([]LogEntry, 0, JournalMaxEntries)
	for i := len(entries) - 1; i >= 0 && len(fresh) < JournalMaxEntries; i-- {
		if entries[i].Level.AtLeast(LogInfo) {
			fresh = append(fresh, entries[i])
		}
	}
	for _, e := range j.Entries {
		if len(fresh) >= JournalMaxEntries {
			break
		}
		fresh = append(fresh, e)
	}
	j.Entries = fresh
	for _, e := range entries {
		if slot, ok := e.TipSlot(); ok {
			j.TipSlot, j.TipKnown = slot, true
		}
	}
	return j
}

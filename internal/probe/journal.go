package probe

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/internal/types"
)

const (
	journalCursorPrefix = "-- cursor:"
	journalFirstSince   = "1 minute ago"
)

// Journal tails managed unit journal, each Read returns lines after previous Read.
type Journal struct {
	Run  Runner
	Unit string

	mu     sync.Mutex
	cursor string
}

func NewJournal(run Runner, name string) *Journal {
	return &Journal{Run: run, Unit: UnitName(name)}
}

// Read returns structured entries, oldest first. Lines without JSON are skipped.
func (self *Journal) Read(ctx context.Context) ([]types.LogEntry, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	args := []string{"-u", self.Unit, "--output=short-iso", "--show-cursor", "--no-pager"}
	if self.cursor != "" {
		args = append(args, "--after-cursor", self.cursor)
	} else {
		args = append(args, "--since", journalFirstSince)
	}
	out, err := self.Run.Run(ctx, "journalctl", args...)
	if err != nil {
		return nil, errors.Annotatef(err, "journal unit=%s", self.Unit)
	}

	var entries []types.LogEntry
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, journalCursorPrefix) {
			self.cursor = strings.TrimSpace(strings.TrimPrefix(line, journalCursorPrefix))
			continue
		}
		if e, ok := ParseJournalLine(line); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// ParseJournalLine decodes JSON payload after journal prefix, e.g.
// `2025-01-02T03:04:05+0000 pi amaru[12]: {"level":"INFO","fields":{"message":"..."}}`
func ParseJournalLine(line string) (types.LogEntry, bool) {
	i := strings.IndexByte(line, '{')
	if i < 0 {
		return types.LogEntry{}, false
	}
	var raw struct {
		Level  string `json:"level"`
		Fields *struct {
			Message string `json:"message"`
			Tip     string `json:"tip"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(line[i:]), &raw); err != nil {
		return types.LogEntry{}, false
	}
	var e types.LogEntry
	if raw.Level != "" {
		level, ok := types.ParseLogLevel(raw.Level)
		if !ok {
			return types.LogEntry{}, false
		}
		e.Level = level
	}
	if raw.Fields != nil {
		e.Message, e.Tip = raw.Fields.Message, raw.Fields.Tip
	}
	return e, true
}

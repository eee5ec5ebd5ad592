// Package probe holds blocking checks of the world outside kiosk.
// Every call may take from milliseconds to tens of seconds,
// never call them on the UI tick goroutine.
package probe

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/juju/errors"
)

type Runner interface {
	// Run returns trimmed stdout, error includes stderr text.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type ExecRunner struct {
	// Sudo prefixes privileged commands.
	Sudo bool
}

func (self ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	if ctx.Err() != nil {
		return out, errors.Annotatef(ctx.Err(), "%s %s", name, strings.Join(args, " "))
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = out
		}
		return out, errors.Annotatef(err, "%s %s: %s", name, strings.Join(args, " "), msg)
	}
	return out, nil
}

// Privileged runs through sudo when configured.
func (self ExecRunner) Privileged(ctx context.Context, name string, args ...string) (string, error) {
	if self.Sudo {
		return self.Run(ctx, "sudo", append([]string{name}, args...)...)
	}
	return self.Run(ctx, name, args...)
}

// MockRunner returns canned output by command line, used in tests.
type MockRunner struct {
	mu    sync.Mutex
	Sudo  bool
	Out   map[string]string
	Err   map[string]error
	Calls []string
}

func (self *MockRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	self.mu.Lock()
	defer self.mu.Unlock()
	self.Calls = append(self.Calls, line)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := self.Err[line]; ok {
		return self.Out[line], err
	}
	return self.Out[line], nil
}

func (self *MockRunner) Privileged(ctx context.Context, name string, args ...string) (string, error) {
	if self.Sudo {
		return self.Run(ctx, "sudo", append([]string{name}, args...)...)
	}
	return self.Run(ctx, name, args...)
}

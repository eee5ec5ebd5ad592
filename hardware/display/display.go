package display

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/juju/errors"
)

const (
	escHome        = "\x1b[H"
	escClearScreen = "\x1b[2J"
	escClearLine   = "\x1b[K"
	escHideCursor  = "\x1b[?25l"
	escShowCursor  = "\x1b[?25h"
)

// Display presents one Canvas per Draw call on a terminal device.
// Unchanged frames are not written.
type Display struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	canvas *Canvas
	last   string
}

// NewTerminal opens tty device, empty dev means stdout.
func NewTerminal(dev string, width, height int) (*Display, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.NotValidf("display size=%dx%d", width, height)
	}
	var w io.Writer = os.Stdout
	var closer io.Closer
	if dev != "" {
		f, err := os.OpenFile(dev, os.O_WRONLY, 0)
		if err != nil {
			return nil, errors.Annotatef(err, "display device=%s", dev)
		}
		w, closer = f, f
	}
	d := &Display{
		w:      w,
		closer: closer,
		canvas: NewCanvas(lipgloss.NewRenderer(w), width, height),
	}
	return d, nil
}

// NewMock keeps frames in memory only, without colour codes.
func NewMock(width, height int) *Display {
	return &Display{canvas: NewCanvas(lipgloss.NewRenderer(io.Discard), width, height)}
}

func (d *Display) Width() int  { return d.canvas.Width() }
func (d *Display) Height() int { return d.canvas.Height() }

func (d *Display) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.canvas.Clear()
	d.last = ""
	return d.write(escHideCursor + escClearScreen + escHome)
}

// Draw calls f on a blank canvas and presents result.
func (d *Display) Draw(f func(*Canvas)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.canvas.Clear()
	f(d.canvas)
	frame := d.canvas.String()
	if frame == d.last {
		return nil
	}
	d.last = frame

	b := strings.Builder{}
	b.Grow(len(frame) + len(escHome) + d.canvas.height*(len(escClearLine)+2))
	b.WriteString(escHome)
	for i, line := range d.canvas.lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(line)
		b.WriteString(escClearLine)
	}
	return errors.Annotate(d.write(b.String()), "display draw")
}

// String returns last presented frame.
func (d *Display) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.write(escShowCursor)
	if d.closer != nil {
		if cerr := d.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (d *Display) write(s string) error {
	if d.w == nil {
		return nil
	}
	_, err := io.WriteString(d.w, s)
	return err
}

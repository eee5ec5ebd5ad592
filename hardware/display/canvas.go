package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status light colours, ANSI 256 palette.
const (
	ColorGood     = lipgloss.Color("10")
	ColorDegraded = lipgloss.Color("11")
	ColorBad      = lipgloss.Color("9")
	ColorUnknown  = lipgloss.Color("8")
	ColorAccent   = lipgloss.Color("12")
)

// Canvas is a fixed size grid of text lines.
// Every line is kept exactly Width cells wide.
type Canvas struct {
	r      *lipgloss.Renderer
	width  int
	height int
	lines  []string
}

func NewCanvas(r *lipgloss.Renderer, width, height int) *Canvas {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	c := &Canvas{r: r, width: width, height: height, lines: make([]string, height)}
	c.Clear()
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Style returns new style bound to the device colour profile.
func (c *Canvas) Style() lipgloss.Style { return c.r.NewStyle() }

func (c *Canvas) Clear() {
	blank := strings.Repeat(" ", c.width)
	for i := range c.lines {
		c.lines[i] = blank
	}
}

// SetLine replaces line y, out of range y is ignored.
func (c *Canvas) SetLine(y int, s string) {
	if y < 0 || y >= c.height {
		return
	}
	c.lines[y] = c.fit(s)
}

func (c *Canvas) Line(y int) string {
	if y < 0 || y >= c.height {
		return ""
	}
	return c.lines[y]
}

func (c *Canvas) Lines() []string {
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// Block writes multi-line s starting at line y, returns next free line.
func (c *Canvas) Block(y int, s string) int {
	for _, line := range strings.Split(s, "\n") {
		c.SetLine(y, line)
		y++
	}
	return y
}

// Center writes s horizontally centered at line y.
func (c *Canvas) Center(y int, s string) {
	for i, line := range strings.Split(s, "\n") {
		c.SetLine(y+i, lipgloss.PlaceHorizontal(c.width, lipgloss.Center, line))
	}
}

// Overlay draws s centered over current content, only covered lines are replaced.
func (c *Canvas) Overlay(s string) {
	block := strings.Split(s, "\n")
	top := (c.height - len(block)) / 2
	if top < 0 {
		top = 0
	}
	c.Center(top, s)
}

// Region returns view of lines [y, y+h) sharing storage with c.
func (c *Canvas) Region(y, h int) *Canvas {
	if y < 0 {
		y = 0
	}
	if y > c.height {
		y = c.height
	}
	if y+h > c.height {
		h = c.height - y
	}
	return &Canvas{r: c.r, width: c.width, height: h, lines: c.lines[y : y+h]}
}

func (c *Canvas) String() string { return strings.Join(c.lines, "\n") }

func (c *Canvas) fit(s string) string {
	if lipgloss.Width(s) > c.width {
		s = c.r.NewStyle().MaxWidth(c.width).Render(s)
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[:i]
		}
	}
	if pad := c.width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

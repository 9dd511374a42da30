package tui

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/midterm"
	"go.trai.ch/weld/internal/ui/style"
)

// Console is the scrollback of one module. Every step of the module writes into
// it, so compiler progress output with carriage returns and colours renders the
// way a real terminal would show it.
type Console struct {
	mu     sync.Mutex
	term   *midterm.Terminal
	buf    bytes.Buffer
	Offset int
	Height int
	Width  int
}

// NewConsole returns an empty console.
func NewConsole() *Console {
	return &Console{term: midterm.NewAutoResizingTerminal()}
}

// Write appends step output. A console scrolled to its end keeps following new lines.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	following := c.Offset >= c.maxOffset()
	n, err := c.term.Write(p)
	if following {
		c.Offset = c.maxOffset()
	}
	return n, err
}

// Section starts a dimmed header line for a step, e.g. "» compile arm64".
func (c *Console) Section(label string) {
	_, _ = c.Write([]byte("\x1b[2m» " + label + "\x1b[0m\r\n"))
}

// Fail records why a step or module failed.
func (c *Console) Fail(err error) {
	_, _ = c.Write([]byte("\r\n" + style.Cross + " " + err.Error() + "\r\n"))
}

// Resize applies the log pane size. Sizes below one are raised to one.
func (c *Console) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	following := c.Offset >= c.maxOffset()
	c.Width = max(width, 1)
	c.Height = max(height, 1)
	c.term.ResizeX(c.Width)
	if following {
		c.Offset = c.maxOffset()
		return
	}
	c.clamp()
}

// Follow scrolls to the last line.
func (c *Console) Follow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Offset = c.maxOffset()
}

// Lines returns how many lines the console holds.
func (c *Console) Lines() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term.UsedHeight()
}

// View renders the visible window of the scrollback.
func (c *Console) View() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clamp()
	c.buf.Reset()
	last := min(c.Offset+c.Height, c.term.UsedHeight())
	for row := c.Offset; row < last; row++ {
		if row > c.Offset {
			_ = c.buf.WriteByte('\n')
		}
		_ = c.term.RenderLine(&c.buf, row)
	}
	return c.buf.String()
}

// HandleKey scrolls the console.
func (c *Console) HandleKey(msg tea.KeyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.String() {
	case "up", "k":
		c.Offset--
	case "down", "j":
		c.Offset++
	case "pgup":
		c.Offset -= c.Height
	case "pgdown":
		c.Offset += c.Height
	case "home":
		c.Offset = 0
	case "end":
		c.Offset = c.maxOffset()
	}
	c.clamp()
}

// MaxOffset returns the offset that shows the last line.
func (c *Console) MaxOffset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxOffset()
}

func (c *Console) clamp() {
	c.Offset = min(max(c.Offset, 0), c.maxOffset())
}

func (c *Console) maxOffset() int {
	return max(c.term.UsedHeight()-c.Height, 0)
}

package ci

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Console reports to a terminal. Warnings are yellow and errors red on
// stderr; debug output is shown only when enabled.
type Console struct {
	stdout io.Writer
	stderr io.Writer
	debug  bool

	mu      sync.Mutex
	secrets []string
	depth   int
}

var _ Reporter = (*Console)(nil)

// NewConsole creates a console reporter
func NewConsole(stdout, stderr io.Writer, debug bool) *Console {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Console{stdout: stdout, stderr: stderr, debug: debug}
}

func (c *Console) Debugf(format string, args ...any) {
	if c.debug {
		c.print(c.stderr, color.New(color.Faint), "debug: ", format, args...)
	}
}

func (c *Console) Infof(format string, args ...any) {
	c.print(c.stderr, nil, "", format, args...)
}

func (c *Console) Warningf(format string, args ...any) {
	c.print(c.stderr, color.New(color.FgYellow), "warning: ", format, args...)
}

func (c *Console) Errorf(format string, args ...any) {
	c.print(c.stderr, color.New(color.FgRed), "error: ", format, args...)
}

func (c *Console) Group(title string) {
	c.print(c.stderr, color.New(color.Bold), "", "%s", title)
	c.mu.Lock()
	c.depth++
	c.mu.Unlock()
}

func (c *Console) EndGroup() {
	c.mu.Lock()
	if c.depth > 0 {
		c.depth--
	}
	c.mu.Unlock()
}

func (c *Console) AddMask(secret string) {
	if secret == "" {
		return
	}
	c.mu.Lock()
	c.secrets = append(c.secrets, secret)
	c.mu.Unlock()
}

// AddPath cannot change the parent shell, so it tells the user what to do
func (c *Console) AddPath(dir string) {
	c.print(c.stderr, color.New(color.FgGreen), "", "Add %s to your PATH to use doctl", dir)
}

func (c *Console) SetOutput(name, value string) {
	c.print(c.stdout, nil, "", "%s=%s", name, value)
}

// GetInput always returns "" outside of Actions; flags are used instead.
func (c *Console) GetInput(name string) string {
	return ""
}

func (c *Console) print(w io.Writer, col *color.Color, prefix, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := c.redact(fmt.Sprintf(format, args...))
	indent := strings.Repeat("  ", c.depth)

	line := prefix + msg
	if col != nil {
		line = col.Sprint(line)
	}
	_, _ = fmt.Fprintln(w, indent+line)
}

func (c *Console) redact(msg string) string {
	for _, s := range c.secrets {
		msg = strings.ReplaceAll(msg, s, "***")
	}
	return msg
}

// Package status renders the banner, the single-line live progress display
// and colored console messages. It is presentation only; the scanning core
// hands it consistent snapshots and never depends on it.
package status

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Shared palette, matching the classic recon-tool color assignments.
var (
	Cyan    = color.New(color.FgHiCyan, color.Bold)
	Green   = color.New(color.FgHiGreen)
	Yellow  = color.New(color.FgHiYellow)
	White   = color.New(color.FgHiWhite)
	Gray    = color.New(color.FgHiBlack)
	Magenta = color.New(color.FgHiMagenta)
	Red     = color.New(color.FgHiRed, color.Bold)
	Bold    = color.New(color.Bold)
)

// Printer writes status output to a terminal. When the writer is not a
// TTY the live status line is suppressed but regular messages still
// print. All methods are safe for concurrent use.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
	tty bool

	statusActive bool
}

// New returns a Printer on stdout.
func New() *Printer {
	return &Printer{
		out: os.Stdout,
		tty: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// NewWithWriter returns a Printer for tests.
func NewWithWriter(w io.Writer, tty bool) *Printer {
	return &Printer{out: w, tty: tty}
}

// Banner prints the bold tool banner followed by a blank line.
func (p *Printer) Banner(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s\n\n", Cyan.Sprintf("*** %s ***", text))
}

// Line prints one plain message, first closing any live status line.
func (p *Printer) Line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.breakStatusLocked()
	fmt.Fprintln(p.out, s)
}

// Linef prints one formatted message in the given color.
func (p *Printer) Linef(c *color.Color, format string, args ...interface{}) {
	p.Line(c.Sprintf(format, args...))
}

// Status redraws the live status line in place.
func (p *Printer) Status(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.tty {
		return
	}
	fmt.Fprintf(p.out, "\r%s          ", line)
	p.statusActive = true
}

// Done terminates the live status line so following output starts on a
// fresh line.
func (p *Printer) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.breakStatusLocked()
}

func (p *Printer) breakStatusLocked() {
	if p.statusActive {
		fmt.Fprintln(p.out)
		p.statusActive = false
	}
}

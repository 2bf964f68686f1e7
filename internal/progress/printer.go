// Package progress prints a running generator's progress to a console.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Reporter is the read-only progress surface of a generator.
type Reporter interface {
	ProgressString() string
	Fraction() float64
	Done() bool
}

// DefaultInterval matches the console cadence of the desktop launcher.
const DefaultInterval = 50 * time.Millisecond

var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#20B9B4"))

// Printer polls a Reporter and writes one status line per tick. On a
// terminal the line is redrawn in place with a progress bar; otherwise every
// tick appends a plain line.
type Printer struct {
	out      io.Writer
	interval time.Duration
	tty      bool
	bar      progress.Model
}

// Option customizes a Printer.
type Option func(*Printer)

// WithInterval sets the polling period.
func WithInterval(d time.Duration) Option {
	return func(p *Printer) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithTerminal overrides terminal detection.
func WithTerminal(tty bool) Option {
	return func(p *Printer) { p.tty = tty }
}

// NewPrinter writes to out, detecting whether it is a terminal.
func NewPrinter(out io.Writer, opts ...Option) *Printer {
	p := &Printer{
		out:      out,
		interval: DefaultInterval,
		tty:      isTerminal(out),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(32)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Line renders the current status of r.
func (p *Printer) Line(r Reporter) string {
	if !p.tty {
		return r.ProgressString()
	}
	return p.bar.ViewAs(r.Fraction()) + " " + labelStyle.Render(r.ProgressString())
}

func (p *Printer) emit(r Reporter) {
	if p.tty {
		fmt.Fprint(p.out, "\r"+p.Line(r))
		return
	}
	fmt.Fprintln(p.out, p.Line(r))
}

// Run prints until r reports completion or ctx is cancelled, then prints a
// final line. It never returns an error for a cancelled context; the caller
// owns the reason for stopping.
func (p *Printer) Run(ctx context.Context, r Reporter) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.finish(r)
			return nil
		case <-ticker.C:
			if r.Done() {
				p.finish(r)
				return nil
			}
			p.emit(r)
		}
	}
}

func (p *Printer) finish(r Reporter) {
	p.emit(r)
	if p.tty {
		fmt.Fprintln(p.out)
	}
}

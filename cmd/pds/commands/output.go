package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	headingColor = color.New(color.Bold)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

// printer writes indented CLI output. A quiet printer writes nothing.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer, quiet bool) *printer {
	if quiet {
		w = io.Discard
	}
	return &printer{w: w}
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, "  "+format+"\n", args...)
}

func (p *printer) colored(c *color.Color, format string, args ...any) {
	fmt.Fprintf(p.w, "  %s\n", c.Sprintf(format, args...))
}

func (p *printer) blank() {
	fmt.Fprintln(p.w)
}

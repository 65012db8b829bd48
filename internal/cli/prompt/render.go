package prompt

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
)

// Raw mode disables output post-processing, so every line ends in CRLF.
const newline = "\r\n"

const (
	multiHelp  = "(↑↓ navigate, space toggle, a all, enter confirm)"
	singleHelp = "(↑↓ navigate, enter confirm)"
)

type styles struct {
	bold  func(a ...any) string
	dim   func(a ...any) string
	green func(a ...any) string
	cyan  func(a ...any) string
}

func newStyles(enabled bool) styles {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return styles{
		bold:  mk(color.Bold),
		dim:   mk(color.Faint),
		green: mk(color.FgGreen),
		cyan:  mk(color.FgCyan),
	}
}

// view paints a fixed block of rows. The first paint writes the rows below
// the current line; later paints move up over the previous block and
// rewrite it line by line.
type view struct {
	out      io.Writer
	st       styles
	width    int
	rendered bool
}

func (v *view) header(message, help string) string {
	return newline + "  " + v.st.bold(message) + " " + v.st.dim(help) + newline + newline
}

func (v *view) paint(lines []string) {
	var b strings.Builder
	if v.rendered {
		b.WriteString(ansi.CursorUp(len(lines)))
	}
	for _, line := range lines {
		if v.width > 1 {
			line = ansi.Truncate(line, v.width-1, "…")
		}
		b.WriteString(ansi.EraseEntireLine)
		b.WriteString(line)
		b.WriteString(newline)
	}
	v.rendered = true
	_, _ = io.WriteString(v.out, b.String())
}

// hint is shown in parentheses in checklists and bare in radio lists.
func (v *view) hint(c Choice) string {
	if c.Hint == "" {
		return ""
	}
	return v.st.dim(" (" + c.Hint + ")")
}

func (v *view) bareHint(c Choice) string {
	if c.Hint == "" {
		return ""
	}
	return v.st.dim(" " + c.Hint)
}

func (v *view) pointer(active bool) string {
	if active {
		return v.st.cyan("❯")
	}
	return " "
}

func (v *view) label(c Choice, active bool) string {
	if active {
		return v.st.bold(c.Label)
	}
	return c.Label
}

func (v *view) multiRows(choices []Choice, s *multiState) []string {
	lines := make([]string, len(choices))
	for i, c := range choices {
		check := v.st.dim("○")
		if s.selected[i] {
			check = v.st.green("◉")
		}
		active := i == s.pos
		lines[i] = "  " + v.pointer(active) + " " + check + " " + v.label(c, active) + v.hint(c)
	}
	return lines
}

func (v *view) multiFinal(choices []Choice, s *multiState) []string {
	lines := make([]string, len(choices))
	for i, c := range choices {
		check, label := v.st.dim("·"), v.st.dim(c.Label)
		if s.selected[i] {
			check, label = v.st.green("✔"), c.Label
		}
		lines[i] = "  " + check + " " + label + v.hint(c)
	}
	return lines
}

func (v *view) singleRows(choices []Choice, s *singleState) []string {
	lines := make([]string, len(choices))
	for i, c := range choices {
		active := i == s.pos
		radio := v.st.dim("○")
		if active {
			radio = v.st.green("●")
		}
		lines[i] = "  " + v.pointer(active) + " " + radio + " " + v.label(c, active) + v.bareHint(c)
	}
	return lines
}

func (v *view) singleFinal(choices []Choice, s *singleState) []string {
	lines := make([]string, len(choices))
	for i, c := range choices {
		radio, label := v.st.dim("○"), v.st.dim(c.Label)
		if i == s.pos {
			radio, label = v.st.green("●"), v.st.bold(c.Label)
		}
		lines[i] = "  " + radio + " " + label
	}
	return lines
}

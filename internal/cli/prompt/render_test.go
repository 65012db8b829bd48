package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestView_PaintRewritesBlock(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := &view{out: &buf, st: newStyles(false)}

	v.paint([]string{"one", "two"})
	first := buf.String()
	if strings.Contains(first, ansi.CursorUp(2)) {
		t.Errorf("first paint moved the cursor up: %q", first)
	}
	if want := ansi.EraseEntireLine + "one\r\n" + ansi.EraseEntireLine + "two\r\n"; first != want {
		t.Errorf("first paint = %q, want %q", first, want)
	}

	buf.Reset()
	v.paint([]string{"uno", "dos"})
	if !strings.HasPrefix(buf.String(), ansi.CursorUp(2)) {
		t.Errorf("second paint = %q, want cursor-up prefix", buf.String())
	}
}

func TestView_TruncatesToWidth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := &view{out: &buf, st: newStyles(false), width: 12}

	v.paint([]string{strings.Repeat("x", 40)})
	line := strings.TrimSuffix(strings.TrimPrefix(buf.String(), ansi.EraseEntireLine), newline)
	if w := ansi.StringWidth(line); w > 11 {
		t.Errorf("line width = %d, want <= 11", w)
	}
	if !strings.HasSuffix(line, "…") {
		t.Errorf("line = %q, want ellipsis", line)
	}
}

func TestView_Rows(t *testing.T) {
	t.Parallel()

	v := &view{st: newStyles(false)}
	choices := []Choice{
		{Label: "Claude Code", Value: "claude-code", Hint: "detected"},
		{Label: "Cursor", Value: "cursor"},
	}

	ms := newMultiState(choices)
	ms.toggle()
	rows := v.multiRows(choices, ms)
	if rows[0] != "  ❯ ◉ Claude Code (detected)" {
		t.Errorf("multi row 0 = %q", rows[0])
	}
	if rows[1] != "    ○ Cursor" {
		t.Errorf("multi row 1 = %q", rows[1])
	}

	final := v.multiFinal(choices, ms)
	if final[0] != "  ✔ Claude Code (detected)" || final[1] != "  · Cursor" {
		t.Errorf("multi final = %q", final)
	}

	ss := newSingleState(choices)
	ss.down()
	rows = v.singleRows(choices, ss)
	if rows[0] != "    ○ Claude Code detected" || rows[1] != "  ❯ ● Cursor" {
		t.Errorf("single rows = %q", rows)
	}
	final = v.singleFinal(choices, ss)
	if final[0] != "  ○ Claude Code" || final[1] != "  ● Cursor" {
		t.Errorf("single final = %q", final)
	}
}

func TestView_Header(t *testing.T) {
	t.Parallel()

	v := &view{st: newStyles(false)}
	got := v.header("Pick editors", multiHelp)
	want := "\r\n  Pick editors " + multiHelp + "\r\n\r\n"
	if got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
}

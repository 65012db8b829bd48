package prompt

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Terminal controls the input mode of the terminal behind a prompt.
type Terminal interface {
	// MakeRaw switches the terminal to raw mode and returns a function that
	// restores the previous mode.
	MakeRaw() (restore func() error, err error)

	// Width returns the terminal width in columns, or 0 when unknown.
	Width() int
}

// fdTerminal is the Terminal for real file descriptors. Non-terminal
// descriptors are left untouched.
type fdTerminal struct {
	in  int
	out int
}

// NewTerminal returns a Terminal for the given input and output files.
func NewTerminal(in, out *os.File) Terminal {
	return &fdTerminal{in: int(in.Fd()), out: int(out.Fd())}
}

func (t *fdTerminal) MakeRaw() (func() error, error) {
	if !term.IsTerminal(t.in) {
		return func() error { return nil }, nil
	}
	state, err := term.MakeRaw(t.in)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(t.in, state) }, nil
}

func (t *fdTerminal) Width() int {
	if !term.IsTerminal(t.out) {
		return 0
	}
	w, _, err := term.GetSize(t.out)
	if err != nil {
		return 0
	}
	return w
}

// session owns the terminal for one prompt: raw mode, the hidden cursor
// and the context binding that can interrupt a blocked read. release undoes
// all of it exactly once and then paints the final state.
type session struct {
	out     io.Writer
	logger  *slog.Logger
	restore func() error
	unbind  func() bool
	final   func()
	once    sync.Once
}

func (p *Prompt) begin(ctx context.Context, header string, final func()) (*session, error) {
	restore, err := p.term.MakeRaw()
	if err != nil {
		return nil, err
	}
	s := &session{
		out:     p.out,
		logger:  p.logger,
		restore: restore,
		unbind:  context.AfterFunc(ctx, func() { p.keys.cancel() }),
		final:   final,
	}
	_, _ = io.WriteString(p.out, header+ansi.HideCursor)
	return s, nil
}

func (s *session) release() {
	s.once.Do(func() {
		s.unbind()
		if err := s.restore(); err != nil {
			s.logger.Debug("restoring terminal mode", "error", err)
		}
		_, _ = io.WriteString(s.out, ansi.ShowCursor)
		s.final()
		_, _ = io.WriteString(s.out, newline)
	})
}

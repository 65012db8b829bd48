package prompt

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/cancelreader"

	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/logging"
)

// errInterrupted marks a key read that ended because the context was
// cancelled.
var errInterrupted = errors.New("interrupted")

// Prompt runs selection prompts against one input and one output.
// Prompts on the same value must run sequentially.
type Prompt struct {
	in     io.Reader
	out    io.Writer
	term   Terminal
	exit   func(code int)
	color  bool
	logger *slog.Logger
	keys   *keyReader
}

// Option configures a Prompt.
type Option func(*Prompt)

// WithTerminal replaces the terminal used for raw mode and width queries.
func WithTerminal(t Terminal) Option {
	return func(p *Prompt) { p.term = t }
}

// WithExit replaces the function called after the terminal is restored on
// abort. It should not return.
func WithExit(fn func(code int)) Option {
	return func(p *Prompt) { p.exit = fn }
}

// WithColor forces colour output on or off.
func WithColor(enabled bool) Option {
	return func(p *Prompt) { p.color = enabled }
}

// WithLogger sets the logger used for key tracing.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prompt) { p.logger = l }
}

// NewPrompt creates a Prompt on stdin and stdout.
func NewPrompt(opts ...Option) *Prompt {
	base := []Option{
		WithTerminal(NewTerminal(os.Stdin, os.Stdout)),
		WithColor(logging.SupportsColor(os.Stdout)),
	}
	return NewPromptWithIO(os.Stdin, os.Stdout, append(base, opts...)...)
}

// NewPromptWithIO creates a Prompt on the given reader and writer. Without
// WithTerminal, raw mode is a no-op and the width is unknown.
func NewPromptWithIO(r io.Reader, w io.Writer, opts ...Option) *Prompt {
	p := &Prompt{
		in:     r,
		out:    w,
		term:   nopTerminal{},
		exit:   os.Exit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.keys = newKeyReader(r)
	return p
}

// Close releases the input reader.
func (p *Prompt) Close() error {
	return p.keys.close()
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout)
}

// MultiSelect shows a checkbox list and returns the values of the checked
// rows in list order.
func (p *Prompt) MultiSelect(ctx context.Context, message string, choices []Choice) ([]string, error) {
	if len(choices) == 0 {
		return nil, ErrNoChoices
	}

	st := newMultiState(choices)
	v := p.newView()

	s, err := p.begin(ctx, v.header(message, multiHelp), func() { v.paint(v.multiFinal(choices, st)) })
	if err != nil {
		return nil, errors.Wrap(err, "entering raw mode")
	}
	defer s.release()

	v.paint(v.multiRows(choices, st))

	for {
		k, err := p.nextKey(ctx)
		if err != nil {
			return nil, p.fail(s, err)
		}

		switch {
		case k.is(KeyUp, "k"):
			st.up()
		case k.is(KeyDown, "j"):
			st.down()
		case k.is(KeySpace):
			st.toggle()
		case k.is("a"):
			st.toggleAll()
		case k.is(KeyReturn):
			s.release()
			return st.values(choices), nil
		case k.isCancel():
			p.abort(s)
			return nil, ErrAborted
		default:
			continue
		}

		p.trace(ctx, k, st.pos)
		v.paint(v.multiRows(choices, st))
	}
}

// SingleSelect shows a radio list and returns the value under the cursor
// when confirmed.
func (p *Prompt) SingleSelect(ctx context.Context, message string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	st := newSingleState(choices)
	v := p.newView()

	s, err := p.begin(ctx, v.header(message, singleHelp), func() { v.paint(v.singleFinal(choices, st)) })
	if err != nil {
		return "", errors.Wrap(err, "entering raw mode")
	}
	defer s.release()

	v.paint(v.singleRows(choices, st))

	for {
		k, err := p.nextKey(ctx)
		if err != nil {
			return "", p.fail(s, err)
		}

		switch {
		case k.is(KeyUp, "k"):
			st.up()
		case k.is(KeyDown, "j"):
			st.down()
		case k.is(KeyReturn):
			s.release()
			return choices[st.pos].Value, nil
		case k.isCancel():
			p.abort(s)
			return "", ErrAborted
		default:
			continue
		}

		p.trace(ctx, k, st.pos)
		v.paint(v.singleRows(choices, st))
	}
}

func (p *Prompt) newView() *view {
	return &view{
		out:   p.out,
		st:    newStyles(p.color),
		width: p.term.Width(),
	}
}

func (p *Prompt) nextKey(ctx context.Context) (Key, error) {
	if ctx.Err() != nil {
		return Key{}, errInterrupted
	}
	k, err := p.keys.next()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, cancelreader.ErrCanceled) {
			return Key{}, errInterrupted
		}
		return Key{}, err
	}
	return k, nil
}

// fail maps a key read error to the prompt's outcome.
func (p *Prompt) fail(s *session, err error) error {
	switch {
	case errors.Is(err, errInterrupted):
		p.abort(s)
		return ErrAborted
	case errors.Is(err, io.EOF):
		s.release()
		return ErrSelectionCancelled
	default:
		s.release()
		return errors.Wrap(err, "reading key")
	}
}

// abort restores the terminal and ends the process.
func (p *Prompt) abort(s *session) {
	s.release()
	p.logger.Debug("selection aborted")
	p.exit(errors.ExitSuccess)
}

func (p *Prompt) trace(ctx context.Context, k Key, pos int) {
	p.logger.Log(ctx, logging.LevelTrace, "prompt key", "key", k.String(), "cursor", pos)
}

type nopTerminal struct{}

func (nopTerminal) MakeRaw() (func() error, error) { return func() error { return nil }, nil }
func (nopTerminal) Width() int                      { return 0 }

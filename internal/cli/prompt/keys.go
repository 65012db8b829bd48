package prompt

import (
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/muesli/cancelreader"
)

// Key names produced by the decoder. Printable characters are named by
// themselves ("a", "k", "j").
const (
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeySpace     = "space"
	KeyReturn    = "return"
	KeyEscape    = "escape"
	KeyTab       = "tab"
	KeyBackspace = "backspace"
)

// Key is a decoded keystroke. Uppercase ASCII letters are named by their
// lowercase letter with Shift set.
type Key struct {
	Name  string
	Ctrl  bool
	Meta  bool
	Shift bool
}

func (k Key) String() string {
	switch {
	case k.Ctrl:
		return "ctrl+" + k.Name
	case k.Meta:
		return "alt+" + k.Name
	case k.Shift:
		return "shift+" + k.Name
	default:
		return k.Name
	}
}

// is reports whether k is one of the names without ctrl or alt. Shift is
// ignored.
func (k Key) is(names ...string) bool {
	if k.Ctrl || k.Meta {
		return false
	}
	for _, n := range names {
		if k.Name == n {
			return true
		}
	}
	return false
}

func (k Key) isCancel() bool {
	return k.is(KeyEscape) || (k.Ctrl && k.Name == "c")
}

// parseKeys decodes raw terminal input. ESC followed by [ or O starts a
// CSI or SS3 sequence, ESC ESC is the escape key, and ESC followed by
// anything else is an alt-modified key. An escape sequence cut off at the
// end of b is not decoded; its bytes are returned as rest.
func parseKeys(b []byte) (keys []Key, rest []byte) {
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0x1b:
			if i+1 >= len(b) {
				return keys, b[i:]
			}
			switch b[i+1] {
			case 0x1b:
				keys = append(keys, Key{Name: KeyEscape})
				i++
			case '[':
				k, n, ok := parseCSI(b[i+2:])
				if !ok {
					return keys, b[i:]
				}
				keys = append(keys, k)
				i += 2 + n
			case 'O':
				if i+2 >= len(b) {
					return keys, b[i:]
				}
				keys = append(keys, Key{Name: arrowName(b[i+2])})
				i += 3
			default:
				r, size := utf8.DecodeRune(b[i+1:])
				keys = append(keys, Key{Name: string(r), Meta: true})
				i += 1 + size
			}
		case c == '\r' || c == '\n':
			keys = append(keys, Key{Name: KeyReturn})
			i++
		case c == ' ':
			keys = append(keys, Key{Name: KeySpace})
			i++
		case c == '\t':
			keys = append(keys, Key{Name: KeyTab})
			i++
		case c == 0x7f || c == 0x08:
			keys = append(keys, Key{Name: KeyBackspace})
			i++
		case c == 0:
			keys = append(keys, Key{Name: "@", Ctrl: true})
			i++
		case c < 0x20:
			keys = append(keys, Key{Name: string(rune('a' + c - 1)), Ctrl: true})
			i++
		case c >= 'A' && c <= 'Z':
			keys = append(keys, Key{Name: string(rune(c + 'a' - 'A')), Shift: true})
			i++
		default:
			r, size := utf8.DecodeRune(b[i:])
			keys = append(keys, Key{Name: string(r)})
			i += size
		}
	}
	return keys, nil
}

// parseCSI decodes the bytes after "ESC [" and returns the key and the
// number of bytes consumed. Parameters (e.g. "1;5A") are skipped. ok is
// false when b ends before the final byte.
func parseCSI(b []byte) (k Key, n int, ok bool) {
	for i, c := range b {
		if c >= 0x40 && c <= 0x7e {
			return Key{Name: arrowName(c)}, i + 1, true
		}
	}
	return Key{}, 0, false
}

func arrowName(c byte) string {
	switch c {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	default:
		return ""
	}
}

// escapeDelay is how long a cut-off escape sequence waits for the rest of
// its bytes before it is taken as the escape key.
const escapeDelay = 100 * time.Millisecond

type chunk struct {
	b   []byte
	err error
}

// keyReader turns an input stream into keys. Keys decoded past the one a
// prompt consumed stay queued for the next prompt. When the input is an
// *os.File the reader is cancelable, so a blocked read can be interrupted.
//
// Reads run on their own goroutine, one at a time, so a partial escape
// sequence can wait for its tail with a deadline. A read still in flight
// when the deadline passes is picked up by the next call.
type keyReader struct {
	r        io.Reader
	cancel   func() bool
	close    func() error
	delay    time.Duration
	inflight chan chunk
	partial  []byte
	pending  []Key
	err      error
}

func newKeyReader(in io.Reader) *keyReader {
	kr := &keyReader{
		r:      in,
		cancel: func() bool { return false },
		close:  func() error { return nil },
		delay:  escapeDelay,
	}
	if f, ok := in.(*os.File); ok {
		if cr, err := cancelreader.NewReader(f); err == nil {
			kr.r = cr
			kr.cancel = cr.Cancel
			kr.close = cr.Close
		}
	}
	return kr
}

// next blocks until a key is available. Read errors are sticky and are
// reported only after every decoded key has been consumed. A partial
// escape sequence left at a read error or after the delay is the escape
// key.
func (kr *keyReader) next() (Key, error) {
	for len(kr.pending) == 0 {
		if kr.err != nil {
			if len(kr.partial) == 0 {
				return Key{}, kr.err
			}
			kr.flushPartial()
			continue
		}

		var wait time.Duration
		if len(kr.partial) > 0 {
			wait = kr.delay
		}
		c, ok := kr.read(wait)
		if !ok {
			kr.flushPartial()
			continue
		}

		keys, rest := parseKeys(append(kr.partial, c.b...))
		kr.pending = append(kr.pending, keys...)
		kr.partial = append([]byte(nil), rest...)
		if c.err != nil {
			kr.err = c.err
		}
	}
	k := kr.pending[0]
	kr.pending = kr.pending[1:]
	return k, nil
}

func (kr *keyReader) flushPartial() {
	kr.pending = append(kr.pending, Key{Name: KeyEscape})
	kr.partial = nil
}

// read returns the next chunk. With wait > 0 it gives up after wait and
// reports false, leaving the read in flight.
func (kr *keyReader) read(wait time.Duration) (chunk, bool) {
	if kr.inflight == nil {
		ch := make(chan chunk, 1)
		go func(r io.Reader) {
			buf := make([]byte, 256)
			n, err := r.Read(buf)
			ch <- chunk{b: buf[:n], err: err}
		}(kr.r)
		kr.inflight = ch
	}

	if wait <= 0 {
		c := <-kr.inflight
		kr.inflight = nil
		return c, true
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case c := <-kr.inflight:
		kr.inflight = nil
		return c, true
	case <-timer.C:
		return chunk{}, false
	}
}

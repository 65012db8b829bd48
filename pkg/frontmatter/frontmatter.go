package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontmatter is returned by the MustParse functions when the
	// content does not start with a "---" line.
	ErrNoFrontmatter = errors.New("no frontmatter found")

	// ErrUnterminated is returned when the opening delimiter has no
	// matching closing delimiter.
	ErrUnterminated = errors.New("missing closing frontmatter delimiter")

	// ErrInvalidYAML is returned when the header is not valid YAML for T.
	ErrInvalidYAML = errors.New("invalid YAML in frontmatter")
)

// Parse reads r and decodes its frontmatter into T. Content without
// frontmatter is returned whole as the body with a zero T.
func Parse[T any](r io.Reader) (T, []byte, error) {
	return parse[T](r, false)
}

// MustParse is like Parse but fails with ErrNoFrontmatter when the content
// has no header.
func MustParse[T any](r io.Reader) (T, []byte, error) {
	return parse[T](r, true)
}

// MustParseFile opens path and calls MustParse.
func MustParseFile[T any](path string) (T, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	defer f.Close()
	return MustParse[T](f)
}

// MustParseFS reads name from fsys and calls MustParse.
func MustParseFS[T any](fsys fs.FS, name string) (T, []byte, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	return MustParse[T](bytes.NewReader(data))
}

func parse[T any](r io.Reader, required bool) (T, []byte, error) {
	var matter T

	content, err := io.ReadAll(r)
	if err != nil {
		return matter, nil, err
	}

	header, body, found, err := split(content)
	if err != nil {
		return matter, nil, err
	}
	if !found {
		if required {
			return matter, nil, ErrNoFrontmatter
		}
		return matter, content, nil
	}

	if err := yaml.Unmarshal(header, &matter); err != nil {
		return matter, nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	return matter, body, nil
}

// split separates the header from the body. found is false when content
// does not open with a delimiter line.
func split(content []byte) (header, body []byte, found bool, err error) {
	first, rest, ok := cutLine(content)
	if !isDelimiter(first) {
		return nil, nil, false, nil
	}
	if !ok {
		return nil, nil, true, ErrUnterminated
	}

	start := len(content) - len(rest)
	for offset := start; ; {
		line, next, more := cutLine(content[offset:])
		if isDelimiter(line) {
			return content[start:offset], next, true, nil
		}
		if !more {
			return nil, nil, true, ErrUnterminated
		}
		offset = len(content) - len(next)
	}
}

// cutLine returns the first line of b without its terminator and the bytes
// after it. ok is false when b has no line terminator.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	line, rest, ok = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, ok
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == "---"
}

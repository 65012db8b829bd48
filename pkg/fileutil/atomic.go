// Package fileutil provides the file writes used when installing skills and
// patching editor config files.
package fileutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jss-tech/pencil-design-system/internal/errors"
)

// DefaultFilePerm is the mode for files written without an explicit mode.
const DefaultFilePerm os.FileMode = 0o644

// AtomicWriteFile writes data to path through a temp file in the same
// directory and a rename, so an interrupted write leaves the previous
// contents intact. Missing parent directories are created with mode 0755.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".pds-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		// still present only if the rename did not happen
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// WriteIfChanged writes data atomically unless path already holds exactly
// data. It reports whether a write happened. An existing file keeps its
// mode; a new file gets perm.
func WriteIfChanged(path string, data []byte, perm os.FileMode) (bool, error) {
	current, exists, err := ReadOptional(path)
	if err != nil {
		return false, err
	}
	if exists {
		if bytes.Equal(current, data) {
			return false, nil
		}
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
	}
	if err := AtomicWriteFile(path, data, perm); err != nil {
		return false, err
	}
	return true, nil
}

// MarshalJSON encodes v with 2-space indentation and a trailing newline.
// HTML characters are left unescaped so URLs and shell arguments stay
// readable.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return buf.Bytes(), nil
}

// AtomicWriteJSONWithPerm writes v as indented JSON to path atomically.
func AtomicWriteJSONWithPerm(path string, v any, perm os.FileMode) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteJSON writes v as indented JSON to path with DefaultFilePerm.
func AtomicWriteJSON(path string, v any) error {
	return AtomicWriteJSONWithPerm(path, v, DefaultFilePerm)
}

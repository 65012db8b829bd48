package config

import (
	"path/filepath"
	"strings"

	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/platform"
)

var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidAgent indicates an editor id the registry does not know.
	ErrInvalidAgent = errors.New("invalid agent")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidRetention indicates a negative backup retention.
	ErrInvalidRetention = errors.New("backup.retention must be >= 0")
)

// Validate checks cfg and returns every problem found, or nil.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.Scope != "" {
		if _, err := platform.ParseScope(cfg.Scope); err != nil {
			errs = append(errs, err)
		}
	}

	reg := platform.Default()
	for _, id := range cfg.Agents {
		if _, ok := reg.Lookup(id); !ok {
			errs = append(errs, &AgentError{Agent: id, Err: ErrInvalidAgent})
		}
	}

	if err := cfg.Server().Validate(); err != nil {
		errs = append(errs, errors.Wrap(err, "mcp"))
	}

	if cfg.Backup.Retention < 0 {
		errs = append(errs, ErrInvalidRetention)
	}
	if cfg.Backup.Dir != "" {
		if err := validatePath(cfg.Backup.Dir); err != nil {
			errs = append(errs, &PathError{Field: "backup.dir", Path: cfg.Backup.Dir, Err: err})
		}
	}

	return errs
}

// validatePath checks that a path is syntactically usable. It does not
// check existence.
func validatePath(path string) error {
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}
	return nil
}

// AgentError names the offending editor id.
type AgentError struct {
	Agent string
	Err   error
}

func (e *AgentError) Error() string {
	return e.Err.Error() + ": " + e.Agent
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}

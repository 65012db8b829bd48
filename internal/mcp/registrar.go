package mcp

import (
	"log/slog"
	"sort"

	"github.com/jss-tech/pencil-design-system/internal/backup"
	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/platform"
	"github.com/jss-tech/pencil-design-system/pkg/fileutil"
)

// ErrUnsupported indicates the editor has no MCP config for the scope.
var ErrUnsupported = errors.New("editor does not support MCP registration")

// Result describes one registration.
type Result struct {
	// Path is the config file that holds the entry.
	Path string

	// Changed is false when the entry was already present and identical.
	Changed bool

	// Created is true when the config file did not exist before.
	Created bool

	// BackupID names the backup taken before the file was rewritten.
	BackupID string
}

// Registrar writes server entries into editor config files.
type Registrar struct {
	env     platform.Env
	backups *backup.Manager
	logger  *slog.Logger
}

// NewRegistrar creates a Registrar. A nil backups manager disables backups;
// a nil logger discards log output.
func NewRegistrar(env platform.Env, backups *backup.Manager, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registrar{env: env, backups: backups, logger: logger}
}

// Register merges s into the MCP config of e for scope.
func (r *Registrar) Register(e *platform.Editor, scope platform.Scope, s *Server) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	path := e.MCP.Path(r.env, scope)
	if path == "" {
		return nil, errors.Wrapf(ErrUnsupported, "%s (%s scope)", e.ID, scope)
	}

	data, exists, err := fileutil.ReadOptional(path)
	if err != nil {
		return nil, err
	}

	out, changed, err := Merge(e.MCP, data, s)
	if err != nil {
		return nil, errors.Wrapf(err, "updating %s", path)
	}

	res := &Result{Path: path, Changed: changed, Created: !exists}
	log := r.logger.With("editor", e.ID, "path", path, "server", s.Name)
	if !changed {
		log.Debug("MCP server already registered")
		return res, nil
	}

	if exists && r.backups != nil {
		mf, err := r.backups.Backup(e.ID, []string{path})
		if err != nil && !errors.Is(err, backup.ErrNothingToBackUp) {
			return nil, errors.Wrapf(err, "backing up %s", path)
		}
		if mf != nil {
			res.BackupID = mf.ID
			log.Debug("backed up MCP config", "backup", mf.ID)
		}
	}

	if _, err := fileutil.WriteIfChanged(path, out, fileutil.DefaultFilePerm); err != nil {
		return nil, errors.Wrapf(err, "writing %s", path)
	}
	log.Info("registered MCP server", slog.Group("env", envAttrs(s.Env)...))
	return res, nil
}

// Lookup reads the entry for name from e's config for scope. The returned
// path is set even when the file or entry is missing.
func (r *Registrar) Lookup(e *platform.Editor, scope platform.Scope, name string) (*Server, string, error) {
	path := e.MCP.Path(r.env, scope)
	if path == "" {
		return nil, "", errors.Wrapf(ErrUnsupported, "%s (%s scope)", e.ID, scope)
	}
	data, exists, err := fileutil.ReadOptional(path)
	if err != nil || !exists {
		return nil, path, err
	}
	s, found, err := Lookup(e.MCP, data, name)
	if err != nil {
		return nil, path, errors.Wrapf(err, "reading %s", path)
	}
	if !found {
		return nil, path, nil
	}
	return s, path, nil
}

// Merge dispatches to MergeJSON or MergeTOML by the target's format.
func Merge(t platform.MCPTarget, data []byte, s *Server) ([]byte, bool, error) {
	if t.Format == platform.FormatTOML {
		return MergeTOML(data, s)
	}
	return MergeJSON(data, s, DialectFor(t))
}

// Lookup dispatches to LookupJSON or LookupTOML by the target's format.
func Lookup(t platform.MCPTarget, data []byte, name string) (*Server, bool, error) {
	if t.Format == platform.FormatTOML {
		return LookupTOML(data, name)
	}
	return LookupJSON(data, name)
}

// envAttrs turns env into sorted attributes so the log handler can mask
// secret-looking keys individually.
func envAttrs(env map[string]string) []any {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, env[k]))
	}
	return attrs
}

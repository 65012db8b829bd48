package platform

import (
	"os"
	"path/filepath"

	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/paths"
)

// Scope selects where files are installed.
type Scope string

const (
	// ScopeProject installs into the current working directory.
	ScopeProject Scope = "project"

	// ScopeGlobal installs into the user's home directory.
	ScopeGlobal Scope = "global"
)

// ErrInvalidScope is returned by ParseScope for unknown values.
var ErrInvalidScope = errors.New("invalid scope")

// ParseScope validates a scope name. The empty string means project.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeProject:
		return ScopeProject, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	default:
		return "", errors.Wrapf(ErrInvalidScope, "%q (valid: project, global)", s)
	}
}

// Env carries the two roots every editor path is resolved against.
type Env struct {
	Home    string
	WorkDir string
}

// CurrentEnv returns the environment of the running process.
func CurrentEnv() (Env, error) {
	home, err := paths.ResolveHome()
	if err != nil {
		return Env{}, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return Env{}, errors.Wrap(err, "getting working directory")
	}
	return Env{Home: home, WorkDir: wd}, nil
}

// Root returns the base directory for scope.
func (e Env) Root(scope Scope) string {
	if scope == ScopeGlobal {
		return e.Home
	}
	return e.WorkDir
}

// ConfigFormat identifies the encoding of an editor's MCP config file.
type ConfigFormat string

const (
	// FormatJSON is a JSON document with a top-level "mcpServers" object.
	FormatJSON ConfigFormat = "json"

	// FormatTOML is a TOML document with an [mcp_servers] table.
	FormatTOML ConfigFormat = "toml"
)

// Location is a path pair: Project is relative to the working directory,
// Global is relative to the home directory. An empty side is unsupported.
type Location struct {
	Project string
	Global  string
}

// Resolve returns the absolute path for scope, or "" if the location has no
// path for that scope.
func (l Location) Resolve(env Env, scope Scope) string {
	rel := l.Project
	if scope == ScopeGlobal {
		rel = l.Global
	}
	if rel == "" {
		return ""
	}
	return filepath.Join(env.Root(scope), filepath.FromSlash(rel))
}

// MCPTarget describes where an editor stores MCP servers.
type MCPTarget struct {
	Location

	// Format is the file encoding.
	Format ConfigFormat

	// GlobalOnly means project scope falls back to the global file.
	GlobalOnly bool

	// URLKey is the entry key for a remote server URL. Empty means "url".
	URLKey string

	// RemoteType, when set, is written as "type" on remote entries.
	RemoteType string
}

// Path returns the config file for scope.
func (t MCPTarget) Path(env Env, scope Scope) string {
	if t.GlobalOnly {
		scope = ScopeGlobal
	}
	return t.Resolve(env, scope)
}

// Editor is one supported AI coding editor.
type Editor struct {
	// ID is the identifier accepted by --agent.
	ID string

	// Name is the display name.
	Name string

	// Content is the content flavour directory copied as SKILL.md.
	Content string

	// HomeMarkers are home-relative directories whose existence means the
	// editor is installed.
	HomeMarkers []string

	// ProjectMarkers are working-directory-relative markers.
	ProjectMarkers []string

	// SkillDir receives SKILL.md and references/.
	SkillDir Location

	// CommandFile receives the slash command, if the editor has one.
	CommandFile Location

	// WorkflowFile receives the workflow, if the editor has one.
	WorkflowFile Location

	// MCP is where the MCP server entry is registered.
	MCP MCPTarget
}

// HasCommand reports whether the editor receives a slash command file.
func (e *Editor) HasCommand() bool {
	return e.CommandFile != (Location{})
}

// HasWorkflow reports whether the editor receives a workflow file.
func (e *Editor) HasWorkflow() bool {
	return e.WorkflowFile != (Location{})
}

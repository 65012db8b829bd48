package mcp

import (
	"net/url"
	"slices"

	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/platform"
)

// Sentinel errors for server validation and config parsing.
var (
	// ErrMissingServerName indicates a server has no name.
	ErrMissingServerName = errors.New("server name is required")

	// ErrMissingTransport indicates a server has neither command nor URL.
	ErrMissingTransport = errors.New("server requires a command or a URL")

	// ErrAmbiguousTransport indicates a server has both command and URL.
	ErrAmbiguousTransport = errors.New("server has both a command and a URL")

	// ErrInvalidURL indicates the remote URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid server URL")

	// ErrEmptyEnvKey indicates an environment variable has an empty key.
	ErrEmptyEnvKey = errors.New("environment variable key is empty")

	// ErrInvalidConfig indicates an editor config file could not be parsed
	// or has an unexpected shape.
	ErrInvalidConfig = errors.New("invalid MCP configuration")
)

// Server is the MCP server entry pds registers.
type Server struct {
	// Name is the key under mcpServers / mcp_servers.
	Name string `json:"name"`

	// Command and Args start a local (stdio) server.
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	// Env is passed to a local server process.
	Env map[string]string `json:"env,omitempty"`

	// URL addresses a remote (HTTP) server.
	URL string `json:"url,omitempty"`

	// Headers are sent to a remote server.
	Headers map[string]string `json:"headers,omitempty"`
}

// IsRemote reports whether the server is addressed by URL.
func (s *Server) IsRemote() bool {
	return s.URL != "" && s.Command == ""
}

// Validate checks that the server can be written to any editor.
func (s *Server) Validate() error {
	if s.Name == "" {
		return ErrMissingServerName
	}
	switch {
	case s.Command == "" && s.URL == "":
		return errors.Wrapf(ErrMissingTransport, "server %q", s.Name)
	case s.Command != "" && s.URL != "":
		return errors.Wrapf(ErrAmbiguousTransport, "server %q", s.Name)
	}
	if s.URL != "" {
		u, err := url.Parse(s.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Wrapf(ErrInvalidURL, "%q", s.URL)
		}
	}
	for k := range s.Env {
		if k == "" {
			return errors.Wrapf(ErrEmptyEnvKey, "server %q", s.Name)
		}
	}
	return nil
}

// Equal reports whether two servers would produce the same entry.
func (s *Server) Equal(o *Server) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Name == o.Name &&
		s.Command == o.Command &&
		slices.Equal(s.Args, o.Args) &&
		s.URL == o.URL &&
		mapsEqual(s.Env, o.Env) &&
		mapsEqual(s.Headers, o.Headers)
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Dialect holds the per-editor differences in JSON entry keys.
type Dialect struct {
	// URLKey is the key for a remote URL ("url" or "serverUrl").
	URLKey string

	// RemoteType is written as "type" on remote entries and "stdio" on local
	// ones. Empty leaves any "type" key alone.
	RemoteType string
}

// DialectFor returns the dialect of an editor's MCP target.
func DialectFor(t platform.MCPTarget) Dialect {
	return Dialect{URLKey: t.URLKey, RemoteType: t.RemoteType}
}

func (d Dialect) urlKey() string {
	if d.URLKey == "" {
		return "url"
	}
	return d.URLKey
}

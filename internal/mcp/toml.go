package mcp

import (
	"bytes"
	"maps"
	"reflect"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/jss-tech/pencil-design-system/internal/errors"
)

// ServersTable is the TOML table holding MCP servers.
const ServersTable = "mcp_servers"

// MergeTOML sets the [mcp_servers.<name>] table for s in data. Other tables
// and keys are kept but comments and formatting are not. When the existing
// entry already matches, data is returned unchanged with changed=false.
func MergeTOML(data []byte, s *Server) (out []byte, changed bool, err error) {
	root, servers, err := decodeTOML(data)
	if err != nil {
		return nil, false, err
	}

	existing, exists := servers[s.Name].(map[string]any)
	entry := make(map[string]any, len(existing)+3)
	maps.Copy(entry, existing)
	applyTOML(entry, s)

	if exists && reflect.DeepEqual(existing, entry) {
		return data, false, nil
	}

	servers[s.Name] = entry
	root[ServersTable] = servers

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(root); err != nil {
		return nil, false, errors.Wrap(err, "encoding TOML")
	}
	return buf.Bytes(), true, nil
}

// LookupTOML returns the server registered under name in data.
func LookupTOML(data []byte, name string) (*Server, bool, error) {
	_, servers, err := decodeTOML(data)
	if err != nil {
		return nil, false, err
	}
	raw, ok := servers[name]
	if !ok {
		return nil, false, nil
	}
	entry, ok := raw.(map[string]any)
	if !ok {
		return nil, true, errors.Wrapf(ErrInvalidConfig, "server %q is not a table", name)
	}

	s := &Server{Name: name}
	s.Command, _ = entry["command"].(string)
	s.URL, _ = entry["url"].(string)
	s.Args = stringSlice(entry["args"])
	s.Env = stringMap(entry["env"])
	s.Headers = stringMap(entry["http_headers"])
	return s, true, nil
}

func decodeTOML(data []byte) (root, servers map[string]any, err error) {
	root = map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := toml.Unmarshal(data, &root); err != nil {
			return nil, nil, errors.Wrapf(ErrInvalidConfig, "%v", err)
		}
	}

	servers = map[string]any{}
	if raw, ok := root[ServersTable]; ok {
		t, ok := raw.(map[string]any)
		if !ok {
			return nil, nil, errors.Wrapf(ErrInvalidConfig, "%s is not a table", ServersTable)
		}
		servers = t
	}
	return root, servers, nil
}

func applyTOML(entry map[string]any, s *Server) {
	setOrDelete := func(key string, v any, keep bool) {
		if keep {
			entry[key] = v
		} else {
			delete(entry, key)
		}
	}

	if s.IsRemote() {
		delete(entry, "command")
		delete(entry, "args")
		delete(entry, "env")
		entry["url"] = s.URL
		setOrDelete("http_headers", anyMap(s.Headers), len(s.Headers) > 0)
		return
	}

	delete(entry, "url")
	delete(entry, "http_headers")
	entry["command"] = s.Command
	setOrDelete("args", anySlice(s.Args), len(s.Args) > 0)
	setOrDelete("env", anyMap(s.Env), len(s.Env) > 0)
}

// anySlice and anyMap produce the shapes toml.Unmarshal yields, so entries
// compare equal with reflect.DeepEqual.
func anySlice(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func anyMap(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, it := range m {
		if s, ok := it.(string); ok {
			out[k] = s
		}
	}
	return out
}

package mcp

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/pkg/fileutil"
)

// ServersKey is the top-level JSON object holding MCP servers.
const ServersKey = "mcpServers"

// MergeJSON sets the entry for s in the mcpServers object of data and
// returns the new document. Empty data is treated as an empty object.
// When the existing entry already matches, data is returned unchanged with
// changed=false.
func MergeJSON(data []byte, s *Server, d Dialect) (out []byte, changed bool, err error) {
	root, servers, err := decodeJSON(data)
	if err != nil {
		return nil, false, err
	}

	entry := map[string]json.RawMessage{}
	if raw, ok := servers[s.Name]; ok {
		// A non-object or null entry is replaced by a fresh one.
		if err := json.Unmarshal(raw, &entry); err != nil || entry == nil {
			entry = map[string]json.RawMessage{}
		}
	}
	before, err := canonical(entry)
	if err != nil {
		return nil, false, err
	}

	if err := applyJSON(entry, s, d); err != nil {
		return nil, false, err
	}
	after, err := canonical(entry)
	if err != nil {
		return nil, false, err
	}
	if _, exists := servers[s.Name]; exists && reflect.DeepEqual(before, after) {
		return data, false, nil
	}

	if servers[s.Name], err = rawJSON(entry); err != nil {
		return nil, false, err
	}
	if root[ServersKey], err = rawJSON(servers); err != nil {
		return nil, false, err
	}
	out, err = fileutil.MarshalJSON(root)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// LookupJSON returns the server registered under name in data.
func LookupJSON(data []byte, name string) (*Server, bool, error) {
	_, servers, err := decodeJSON(data)
	if err != nil {
		return nil, false, err
	}
	raw, ok := servers[name]
	if !ok {
		return nil, false, nil
	}

	var entry struct {
		Command   string            `json:"command"`
		Args      []string          `json:"args"`
		Env       map[string]string `json:"env"`
		URL       string            `json:"url"`
		ServerURL string            `json:"serverUrl"`
		Headers   map[string]string `json:"headers"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, true, errors.Wrapf(ErrInvalidConfig, "server %q: %v", name, err)
	}

	s := &Server{
		Name:    name,
		Command: entry.Command,
		Args:    entry.Args,
		Env:     entry.Env,
		URL:     entry.URL,
		Headers: entry.Headers,
	}
	if s.URL == "" {
		s.URL = entry.ServerURL
	}
	return s, true, nil
}

func decodeJSON(data []byte) (root, servers map[string]json.RawMessage, err error) {
	root = map[string]json.RawMessage{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, nil, errors.Wrapf(ErrInvalidConfig, "%v", err)
		}
		if root == nil {
			root = map[string]json.RawMessage{}
		}
	}

	servers = map[string]json.RawMessage{}
	if raw, ok := root[ServersKey]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return nil, nil, errors.Wrapf(ErrInvalidConfig, "%s is not an object", ServersKey)
		}
	}
	return root, servers, nil
}

// applyJSON writes the managed keys of s into entry and drops the keys of
// the other transport.
func applyJSON(entry map[string]json.RawMessage, s *Server, d Dialect) error {
	set := func(key string, v any, keep bool) error {
		if !keep {
			delete(entry, key)
			return nil
		}
		raw, err := rawJSON(v)
		if err != nil {
			return err
		}
		entry[key] = raw
		return nil
	}

	urlKey := d.urlKey()
	if s.IsRemote() {
		for _, k := range []string{"command", "args", "env"} {
			delete(entry, k)
		}
		if err := set(urlKey, s.URL, true); err != nil {
			return err
		}
		if err := set("headers", s.Headers, len(s.Headers) > 0); err != nil {
			return err
		}
		if d.RemoteType != "" {
			return set("type", d.RemoteType, true)
		}
		return nil
	}

	for _, k := range []string{"url", "serverUrl", "headers"} {
		delete(entry, k)
	}
	if err := set("command", s.Command, true); err != nil {
		return err
	}
	if err := set("args", s.Args, len(s.Args) > 0); err != nil {
		return err
	}
	if err := set("env", s.Env, len(s.Env) > 0); err != nil {
		return err
	}
	if d.RemoteType != "" {
		return set("type", "stdio", true)
	}
	return nil
}

func rawJSON(v any) (json.RawMessage, error) {
	data, err := fileutil.MarshalJSON(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimSpace(data)), nil
}

// canonical decodes every value of entry so formatting differences do not
// count as changes.
func canonical(entry map[string]json.RawMessage) (map[string]any, error) {
	out := make(map[string]any, len(entry))
	for k, raw := range entry {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "key %q: %v", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// Package mcp registers an MCP (Model Context Protocol) server entry in an
// editor's config file.
//
// Editors keep their servers in one of two shapes:
//
//	// JSON: .mcp.json, ~/.claude.json, .cursor/mcp.json, ...
//	{"mcpServers": {"pencil": {"command": "pencil", "args": ["mcp"]}}}
//
//	# TOML: ~/.codex/config.toml
//	[mcp_servers.pencil]
//	command = "pencil"
//	args = ["mcp"]
//
// [MergeJSON] and [MergeTOML] replace the fields pds manages on one entry
// and keep everything else in the document: other top-level keys, other
// servers, and unknown fields on the entry itself. Both report whether the
// entry actually changed so callers can skip identical writes.
//
// [Registrar] ties this to an editor: it resolves the config path for a
// scope, backs up the existing file and writes the result atomically.
package mcp

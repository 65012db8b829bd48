// Package config loads the pds configuration file.
//
// The file is config.yaml, searched in the working directory, in
// $PDS_CONFIG_DIR and in $XDG_CONFIG_HOME/pds:
//
//	version: 1
//	scope: global
//	agents: [claude-code, cursor]
//	mcp:
//	  enabled: true
//	  name: pencil
//	  command: pencil
//	  args: [mcp]
//	  env:
//	    PENCIL_API_KEY: ...
//	backup:
//	  retention: 5
//
// Every key can be overridden from the environment with a PDS_ prefix and
// dots replaced by underscores, e.g. PDS_MCP_NAME or PDS_BACKUP_RETENTION.
// Command-line flags take precedence over both.
package config

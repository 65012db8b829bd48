package platform

// Editor identifiers.
const (
	ClaudeCode  = "claude-code"
	Antigravity = "antigravity"
	Cursor      = "cursor"
	Windsurf    = "windsurf"
	Codex       = "codex"
)

// Content flavours shipped in the content package.
const (
	ContentClaudeCode  = "claude-code"
	ContentAntigravity = "antigravity"
	ContentUniversal   = "universal"
)

// SkillName is the directory name of the installed skill.
const SkillName = "pds"

func builtinEditors() []*Editor {
	return []*Editor{
		{
			ID:          ClaudeCode,
			Name:        "Claude Code",
			Content:     ContentClaudeCode,
			HomeMarkers: []string{".claude"},
			SkillDir:    Location{Project: ".claude/skills/pds", Global: ".claude/skills/pds"},
			CommandFile: Location{Project: ".claude/commands/pds.md", Global: ".claude/commands/pds.md"},
			MCP: MCPTarget{
				Location:   Location{Project: ".mcp.json", Global: ".claude.json"},
				Format:     FormatJSON,
				RemoteType: "http",
			},
		},
		{
			ID:             Antigravity,
			Name:           "Antigravity",
			Content:        ContentAntigravity,
			HomeMarkers:    []string{".gemini/antigravity"},
			ProjectMarkers: []string{".agent"},
			SkillDir:       Location{Project: ".agent/skills/pds", Global: ".gemini/antigravity/skills/pds"},
			WorkflowFile:   Location{Project: ".agent/workflows/pds.md", Global: ".gemini/antigravity/global_workflows/pds.md"},
			MCP: MCPTarget{
				Location:   Location{Global: ".gemini/antigravity/mcp_config.json"},
				Format:     FormatJSON,
				GlobalOnly: true,
				URLKey:     "serverUrl",
			},
		},
		{
			ID:          Cursor,
			Name:        "Cursor",
			Content:     ContentUniversal,
			HomeMarkers: []string{".cursor"},
			SkillDir:    Location{Project: ".cursor/skills/pds", Global: ".cursor/skills/pds"},
			MCP: MCPTarget{
				Location: Location{Project: ".cursor/mcp.json", Global: ".cursor/mcp.json"},
				Format:   FormatJSON,
			},
		},
		{
			ID:          Windsurf,
			Name:        "Windsurf",
			Content:     ContentUniversal,
			HomeMarkers: []string{".codeium/windsurf"},
			SkillDir:    Location{Project: ".windsurf/skills/pds", Global: ".codeium/windsurf/skills/pds"},
			MCP: MCPTarget{
				Location:   Location{Global: ".codeium/windsurf/mcp_config.json"},
				Format:     FormatJSON,
				GlobalOnly: true,
				URLKey:     "serverUrl",
			},
		},
		{
			ID:          Codex,
			Name:        "Codex CLI",
			Content:     ContentUniversal,
			HomeMarkers: []string{".codex"},
			SkillDir:    Location{Project: ".codex/skills/pds", Global: ".codex/skills/pds"},
			MCP: MCPTarget{
				Location:   Location{Global: ".codex/config.toml"},
				Format:     FormatTOML,
				GlobalOnly: true,
			},
		},
	}
}

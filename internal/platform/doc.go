// Package platform describes the AI coding editors the installer targets.
//
// Each supported editor is an [Editor] value: where its skill directory lives
// in project and global scope, which content flavour it receives, which extra
// files (slash command, workflow) it gets, and where its MCP server
// configuration is stored. The built-in editors are registered in a
// [Registry] in a fixed order:
//
//	claude-code, antigravity, cursor, windsurf, codex
//
// # Detection
//
// An editor is detected when any of its marker directories exists, either
// under the user's home directory or under the current working directory:
//
//	env, _ := platform.CurrentEnv()
//	for _, r := range platform.Default().Detect(env) {
//	    fmt.Printf("%s detected=%v\n", r.Editor.ID, r.Detected)
//	}
//
// # Scopes
//
// [ScopeProject] resolves editor paths against [Env.WorkDir]; [ScopeGlobal]
// resolves them against [Env.Home]. Some editors only read MCP servers from
// a global file; their MCP target resolves to the global path in both scopes.
package platform

package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jss-tech/pencil-design-system/internal/content"
	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/mcp"
	"github.com/jss-tech/pencil-design-system/internal/paths"
	"github.com/jss-tech/pencil-design-system/internal/platform"
	"github.com/jss-tech/pencil-design-system/pkg/frontmatter"
)

var scopes = []platform.Scope{platform.ScopeProject, platform.ScopeGlobal}

// display shortens p for messages.
func (t Target) display(p string) string {
	return paths.Display(p, t.Env.WorkDir, t.Env.Home)
}

// configFile is one MCP config file and the editors that share it.
type configFile struct {
	Path    string
	Editors []string
	Target  platform.MCPTarget
}

// configFiles lists the MCP config files of every editor in both scopes,
// without duplicates, in registry order.
func (t Target) configFiles() []configFile {
	var out []configFile
	index := make(map[string]int)
	for _, e := range t.Editors.All() {
		for _, scope := range scopes {
			p := e.MCP.Path(t.Env, scope)
			if p == "" {
				continue
			}
			if i, ok := index[p]; ok {
				if !containsString(out[i].Editors, e.ID) {
					out[i].Editors = append(out[i].Editors, e.ID)
				}
				continue
			}
			index[p] = len(out)
			out = append(out, configFile{Path: p, Editors: []string{e.ID}, Target: e.MCP})
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// EditorCheck reports which supported editors are present.
type EditorCheck struct {
	target Target
}

var _ Check = (*EditorCheck)(nil)

// NewEditorCheck creates an editor detection check.
func NewEditorCheck(t Target) *EditorCheck {
	return &EditorCheck{target: t}
}

func (c *EditorCheck) Name() string     { return "editor-detection" }
func (c *EditorCheck) Category() string { return "editors" }

func (c *EditorCheck) Run() *CheckResult {
	editors := make(map[string]any)
	var detected []string
	for _, res := range c.target.Editors.Detect(c.target.Env) {
		info := map[string]any{"detected": res.Detected}
		if res.Detected {
			info["marker"] = c.target.display(res.Marker)
			detected = append(detected, res.Editor.Name)
		}
		editors[res.Editor.ID] = info
	}

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"editors": editors, "detected": len(detected)},
	}
	if len(detected) == 0 {
		result.Status = SeverityWarning
		result.Message = "no supported editors detected"
		result.FixHint = "install one of: " + strings.Join(c.target.Editors.IDs(), ", ") + ", or run: pds install --agent <id>"
		return result
	}
	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d editor(s) detected: %s", len(detected), strings.Join(detected, ", "))
	return result
}

// SkillCheck verifies installed skill files: SKILL.md frontmatter, version,
// references and the command or workflow file.
type SkillCheck struct {
	target Target
}

var _ Check = (*SkillCheck)(nil)

// NewSkillCheck creates a skill installation check.
func NewSkillCheck(t Target) *SkillCheck {
	return &SkillCheck{target: t}
}

func (c *SkillCheck) Name() string     { return "skill-install" }
func (c *SkillCheck) Category() string { return "skills" }

type skillIssue struct {
	Editor   string   `json:"editor"`
	Path     string   `json:"path"`
	Problem  string   `json:"problem"`
	Severity Severity `json:"severity"`
}

func (c *SkillCheck) Run() *CheckResult {
	var installs []map[string]any
	var issues []skillIssue
	t := c.target

	for _, e := range t.Editors.All() {
		for _, scope := range scopes {
			dir := e.SkillDir.Resolve(t.Env, scope)
			if dir == "" {
				continue
			}
			skillPath := filepath.Join(dir, content.SkillFile)
			if _, err := os.Stat(skillPath); err != nil {
				continue
			}

			found := c.inspect(e, scope, dir)
			for i := range found {
				found[i].Editor = e.ID
			}
			issues = append(issues, found...)
			installs = append(installs, map[string]any{
				"editor": e.ID,
				"scope":  string(scope),
				"path":   t.display(dir),
				"ok":     len(found) == 0,
			})
		}
	}

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"installs": installs},
	}
	if len(installs) == 0 {
		result.Status = SeverityInfo
		result.Message = "pds skill is not installed"
		result.FixHint = "run: pds install"
		return result
	}
	if len(issues) == 0 {
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("skill installed in %d location(s)", len(installs))
		return result
	}

	statuses := make([]Severity, len(issues))
	for i, is := range issues {
		statuses[i] = is.Severity
	}
	result.Status = worst(statuses...)
	result.Details["issues"] = issues
	result.Message = fmt.Sprintf("found %d problem(s) across %d skill install(s)", len(issues), len(installs))
	result.FixHint = "reinstall with: pds install"
	return result
}

func (c *SkillCheck) inspect(e *platform.Editor, scope platform.Scope, dir string) []skillIssue {
	t := c.target
	var issues []skillIssue
	add := func(p, problem string, sev Severity) {
		issues = append(issues, skillIssue{Path: t.display(p), Problem: problem, Severity: sev})
	}

	skillPath := filepath.Join(dir, content.SkillFile)
	meta, _, err := frontmatter.MustParseFile[content.Meta](skillPath)
	switch {
	case err != nil:
		add(skillPath, "unreadable frontmatter: "+err.Error(), SeverityError)
	case meta.Validate() != nil:
		add(skillPath, meta.Validate().Error(), SeverityError)
	case t.SkillVersion != "" && meta.Version != t.SkillVersion:
		add(skillPath, fmt.Sprintf("version %q is outdated (current %q)", meta.Version, t.SkillVersion), SeverityWarning)
	}

	refs := filepath.Join(dir, content.ReferencesDir)
	if info, err := os.Stat(refs); err != nil || !info.IsDir() {
		add(refs, "references directory is missing", SeverityWarning)
	}

	if e.HasCommand() {
		if p := e.CommandFile.Resolve(t.Env, scope); p != "" && !fileExists(p) {
			add(p, "slash command file is missing", SeverityWarning)
		}
	}
	if e.HasWorkflow() {
		if p := e.WorkflowFile.Resolve(t.Env, scope); p != "" && !fileExists(p) {
			add(p, "workflow file is missing", SeverityWarning)
		}
	}
	return issues
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// MCPCheck reports where the MCP server is registered for detected editors.
type MCPCheck struct {
	target Target
}

var _ Check = (*MCPCheck)(nil)

// NewMCPCheck creates an MCP registration check.
func NewMCPCheck(t Target) *MCPCheck {
	return &MCPCheck{target: t}
}

func (c *MCPCheck) Name() string     { return "mcp-registration" }
func (c *MCPCheck) Category() string { return "mcp" }

func (c *MCPCheck) Run() *CheckResult {
	t := c.target
	reg := mcp.NewRegistrar(t.Env, nil, nil)

	var registered []map[string]any
	var failures []map[string]any
	var missing []string
	seen := make(map[string]bool)

	for _, e := range t.Editors.Detected(t.Env) {
		for _, scope := range scopes {
			s, p, err := reg.Lookup(e, scope, t.ServerName)
			if errors.Is(err, mcp.ErrUnsupported) || p == "" || seen[p] {
				continue
			}
			seen[p] = true

			switch {
			case err != nil:
				failures = append(failures, map[string]any{"editor": e.ID, "path": t.display(p), "error": err.Error()})
			case s == nil:
				missing = append(missing, e.ID+" ("+t.display(p)+")")
			default:
				registered = append(registered, describeServer(e.ID, t.display(p), s))
			}
		}
	}

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details: map[string]any{
			"server":     t.ServerName,
			"registered": registered,
		},
	}
	if len(missing) > 0 {
		result.Details["missing"] = missing
	}

	switch {
	case len(failures) > 0:
		result.Status = SeverityError
		result.Details["errors"] = failures
		result.Message = fmt.Sprintf("%d MCP config file(s) could not be read", len(failures))
		result.FixHint = "see the config-syntax check for the exact location"
	case len(registered) == 0:
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("MCP server %q is not registered", t.ServerName)
		result.FixHint = "run: pds install --mcp"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("MCP server %q registered in %d file(s)", t.ServerName, len(registered))
	}
	return result
}

// describeServer renders an entry with secrets masked.
func describeServer(editor, path string, s *mcp.Server) map[string]any {
	d := map[string]any{"editor": editor, "path": path}
	if s.Command != "" {
		d["command"] = s.Command
	}
	if len(s.Args) > 0 {
		d["args"] = s.Args
	}
	if s.URL != "" {
		d["url"] = MaskURL(s.URL)
	}
	if len(s.Env) > 0 {
		d["env"] = MaskSecrets(s.Env)
	}
	if len(s.Headers) > 0 {
		d["headers"] = MaskSecrets(s.Headers)
	}
	return d
}

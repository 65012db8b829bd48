package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jss-tech/pencil-design-system/internal/backup"
	"github.com/jss-tech/pencil-design-system/internal/cli/prompt"
	"github.com/jss-tech/pencil-design-system/internal/config"
	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/logging"
	"github.com/jss-tech/pencil-design-system/internal/platform"
)

// scriptedSelector answers prompts from queues and records what it was
// shown.
type scriptedSelector struct {
	multi   [][]string
	single  []string
	err     error
	choices [][]prompt.Choice
}

func (s *scriptedSelector) MultiSelect(_ context.Context, _ string, choices []prompt.Choice) ([]string, error) {
	s.choices = append(s.choices, choices)
	if s.err != nil {
		return nil, s.err
	}
	v := s.multi[0]
	s.multi = s.multi[1:]
	return v, nil
}

func (s *scriptedSelector) SingleSelect(_ context.Context, _ string, choices []prompt.Choice) (string, error) {
	s.choices = append(s.choices, choices)
	if s.err != nil {
		return "", s.err
	}
	v := s.single[0]
	s.single = s.single[1:]
	return v, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Version: 1,
		MCP:     config.MCPConfig{Name: "pencil", Command: "pencil", Args: []string{"mcp"}},
		Backup:  config.BackupConfig{Retention: 5},
	}
}

func newTestRun(t *testing.T, opts installOptions, ask selector) (*installRun, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	env := platform.Env{Home: filepath.Join(root, "home"), WorkDir: filepath.Join(root, "project")}
	require.NoError(t, os.MkdirAll(env.Home, 0o755))
	require.NoError(t, os.MkdirAll(env.WorkDir, 0o755))

	var buf bytes.Buffer
	r := &installRun{
		out:      newPrinter(&buf, false),
		env:      env,
		registry: platform.Default(),
		cfg:      testConfig(),
		opts:     opts,
		backups:  backup.NewManager(backup.WithBackupDir(filepath.Join(root, "backups"))),
		logger:   logging.ForTest(t),
		ask:      ask,
	}
	return r, &buf
}

func TestInstall_NoEditorsDetected(t *testing.T) {
	r, buf := newTestRun(t, installOptions{}, nil)

	require.NoError(t, r.run(t.Context()))
	assert.Contains(t, buf.String(), "No editors detected")
	assert.NotContains(t, buf.String(), "Done!")
}

func TestInstall_DetectedNonInteractive(t *testing.T) {
	r, buf := newTestRun(t, installOptions{}, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(r.env.Home, ".claude"), 0o755))

	require.NoError(t, r.run(t.Context()))

	out := buf.String()
	assert.Contains(t, out, "Installing to 1 editor(s) (project)")
	assert.Contains(t, out, "Claude Code")
	assert.Contains(t, out, "skill  -> "+filepath.Join(".claude", "skills", "pds", "SKILL.md"))
	assert.Contains(t, out, "/pds   -> "+filepath.Join(".claude", "commands", "pds.md"))
	assert.Contains(t, out, "Done! Type /pds in your editor to get started.")
	assert.NotContains(t, out, "mcp")

	assert.FileExists(t, filepath.Join(r.env.WorkDir, ".claude", "skills", "pds", "SKILL.md"))
	assert.NoFileExists(t, filepath.Join(r.env.WorkDir, ".mcp.json"))
}

func TestInstall_AgentFlagWithUnknown(t *testing.T) {
	r, buf := newTestRun(t, installOptions{agents: []string{"cursor", "emacs"}, global: true}, nil)

	require.NoError(t, r.run(t.Context()))

	out := buf.String()
	assert.Contains(t, out, "Unknown agent(s): emacs")
	assert.Contains(t, out, "Available: claude-code, antigravity, cursor, windsurf, codex")
	assert.Contains(t, out, "(global)")
	assert.FileExists(t, filepath.Join(r.env.Home, ".cursor", "skills", "pds", "SKILL.md"))
}

func TestInstall_ContinuesAfterEditorFailure(t *testing.T) {
	r, buf := newTestRun(t, installOptions{agents: []string{"cursor", "claude-code"}}, nil)
	// a file where the .cursor directory belongs
	require.NoError(t, os.WriteFile(filepath.Join(r.env.WorkDir, ".cursor"), nil, 0o644))

	require.NoError(t, r.run(t.Context()))

	out := buf.String()
	assert.Contains(t, out, "error: ")
	assert.Contains(t, out, "Done!")
	assert.FileExists(t, filepath.Join(r.env.WorkDir, ".claude", "skills", "pds", "SKILL.md"))
}

func TestInstall_AllEditorsFail(t *testing.T) {
	r, buf := newTestRun(t, installOptions{agents: []string{"cursor"}}, nil)
	require.NoError(t, os.WriteFile(filepath.Join(r.env.WorkDir, ".cursor"), nil, 0o644))

	err := r.run(t.Context())
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, errors.ExitCode(err))
	assert.NotContains(t, buf.String(), "Done!")
}

func TestInstall_OnlyUnknownAgents(t *testing.T) {
	r, _ := newTestRun(t, installOptions{agents: []string{"emacs"}}, nil)

	err := r.run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownEditor))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestInstall_Interactive(t *testing.T) {
	ask := &scriptedSelector{
		multi:  [][]string{{"claude-code", "codex"}},
		single: []string{"global", "yes"},
	}
	r, buf := newTestRun(t, installOptions{}, ask)
	require.NoError(t, os.MkdirAll(filepath.Join(r.env.Home, ".codex"), 0o755))

	require.NoError(t, r.run(t.Context()))

	require.Len(t, ask.choices, 3)
	editors := ask.choices[0]
	require.Len(t, editors, 5)
	assert.False(t, editors[0].Checked)
	assert.True(t, editors[4].Checked)
	assert.Equal(t, "detected", editors[4].Hint)

	assert.FileExists(t, filepath.Join(r.env.Home, ".claude", "skills", "pds", "SKILL.md"))
	assert.FileExists(t, filepath.Join(r.env.Home, ".codex", "skills", "pds", "SKILL.md"))

	claude, err := os.ReadFile(filepath.Join(r.env.Home, ".claude.json"))
	require.NoError(t, err)
	assert.Contains(t, string(claude), `"pencil"`)
	codex, err := os.ReadFile(filepath.Join(r.env.Home, ".codex", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(codex), "mcp_servers")

	assert.Contains(t, buf.String(), "mcp    -> "+filepath.Join("~", ".claude.json"))
}

func TestInstall_MCPBackupAndRerun(t *testing.T) {
	r, buf := newTestRun(t, installOptions{agents: []string{"cursor"}, mcp: true}, nil)
	cfgPath := filepath.Join(r.env.WorkDir, ".cursor", "mcp.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0o755))
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"mcpServers": {"other": {"command": "x"}}}`), 0o644))

	require.NoError(t, r.run(t.Context()))
	assert.Contains(t, buf.String(), "(backup ")

	manifests, err := r.backups.List("cursor")
	require.NoError(t, err)
	assert.Len(t, manifests, 1)

	buf.Reset()
	require.NoError(t, r.run(t.Context()))
	assert.Contains(t, buf.String(), "(already registered)")
	manifests, err = r.backups.List("cursor")
	require.NoError(t, err)
	assert.Len(t, manifests, 1)
}

func TestInstall_NothingSelected(t *testing.T) {
	ask := &scriptedSelector{multi: [][]string{{}}}
	r, buf := newTestRun(t, installOptions{}, ask)

	require.NoError(t, r.run(t.Context()))
	assert.Contains(t, buf.String(), "No editors selected.")
}

func TestInstall_PromptCancelled(t *testing.T) {
	ask := &scriptedSelector{err: prompt.ErrSelectionCancelled}
	r, _ := newTestRun(t, installOptions{}, ask)

	err := r.run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.Is(err, prompt.ErrSelectionCancelled))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestInstall_ConfigDecidesWithoutPrompt(t *testing.T) {
	ask := &scriptedSelector{}
	r, _ := newTestRun(t, installOptions{}, ask)
	enabled := false
	r.cfg.Agents = []string{"windsurf"}
	r.cfg.Scope = "global"
	r.cfg.MCP.Enabled = &enabled

	require.NoError(t, r.run(t.Context()))
	assert.Empty(t, ask.choices)
	assert.FileExists(t, filepath.Join(r.env.Home, ".codeium", "windsurf", "skills", "pds", "SKILL.md"))
}

func TestInstall_Quiet(t *testing.T) {
	r, buf := newTestRun(t, installOptions{agents: []string{"cursor"}}, nil)
	r.out = newPrinter(buf, true)

	require.NoError(t, r.run(t.Context()))
	assert.Empty(t, buf.String())
}

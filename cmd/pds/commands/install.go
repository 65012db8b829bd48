package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jss-tech/pencil-design-system/cmd"
	"github.com/jss-tech/pencil-design-system/internal/backup"
	"github.com/jss-tech/pencil-design-system/internal/cli/prompt"
	"github.com/jss-tech/pencil-design-system/internal/config"
	"github.com/jss-tech/pencil-design-system/internal/content"
	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/install"
	"github.com/jss-tech/pencil-design-system/internal/logging"
	"github.com/jss-tech/pencil-design-system/internal/mcp"
	"github.com/jss-tech/pencil-design-system/internal/paths"
	"github.com/jss-tech/pencil-design-system/internal/platform"
)

type installOptions struct {
	agents []string
	global bool
	mcp    bool
	noMCP  bool
	yes    bool
}

var installOpts installOptions

func init() {
	addInstallFlags(installCmd)
	rootCmd.AddCommand(installCmd)
}

// addInstallFlags registers the install flags on c. The root command gets
// them too since install is its default action.
func addInstallFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringArrayVarP(&installOpts.agents, "agent", "a", nil,
		"target editor, repeatable (claude-code, antigravity, cursor, windsurf, codex)")
	f.BoolVarP(&installOpts.global, "global", "g", false,
		"install into the home directory instead of the current project")
	f.BoolVar(&installOpts.mcp, "mcp", false, "register the Pencil MCP server without asking")
	f.BoolVar(&installOpts.noMCP, "no-mcp", false, "do not register the MCP server")
	f.BoolVarP(&installOpts.yes, "yes", "y", false, "never prompt; use flags, config and detection")
	c.MarkFlagsMutuallyExclusive("mcp", "no-mcp")
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the pds skill into detected editors",
	Long: `Copy the Pencil Design System skill into each selected editor.

Each editor receives SKILL.md and the references/ directory. Claude Code also
gets a /pds slash command and Antigravity a /pds workflow. With --mcp the
Pencil MCP server is added to each editor's MCP config; an existing config
file is backed up before it is changed.

Editors are chosen from --agent, then the "agents" config key, then an
interactive picker when running in a terminal, and finally detection.`,
	Example: `  pds install
  pds install -a claude-code -a cursor --global
  pds install --yes --mcp`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

// selector is satisfied by *prompt.Prompt.
type selector interface {
	MultiSelect(ctx context.Context, message string, choices []prompt.Choice) ([]string, error)
	SingleSelect(ctx context.Context, message string, choices []prompt.Choice) (string, error)
}

// installRun carries one invocation of the install flow.
type installRun struct {
	out      *printer
	env      platform.Env
	registry *platform.Registry
	cfg      *config.Config
	opts     installOptions
	backups  *backup.Manager
	logger   *slog.Logger

	// ask is nil when not interactive.
	ask selector
}

func runInstall(c *cobra.Command, _ []string) error {
	env, err := platform.CurrentEnv()
	if err != nil {
		return errors.NewSystemError(err, "Set HOME to your home directory")
	}

	r := &installRun{
		out:      newPrinter(c.OutOrStdout(), quiet),
		env:      env,
		registry: platform.Default(),
		cfg:      cfg,
		opts:     installOpts,
		backups:  newBackupManager(cfg),
		logger:   logging.FromContext(c.Context()),
	}
	if !installOpts.yes && prompt.IsInteractive() {
		p := prompt.NewPrompt(prompt.WithLogger(r.logger))
		defer p.Close()
		r.ask = p
	}
	return r.run(c.Context())
}

func newBackupManager(c *config.Config) *backup.Manager {
	opts := []backup.Option{backup.WithToolVersion(cmd.Version)}
	if c != nil {
		opts = append(opts, backup.WithRetentionCount(c.Backup.Retention), backup.WithBackupDir(c.Backup.Dir))
	}
	return backup.NewManager(opts...)
}

func (r *installRun) run(ctx context.Context) error {
	r.out.blank()
	r.out.colored(titleColor, "Pencil Design System Installer v%s", content.Version())
	r.out.blank()

	editors, err := r.selectEditors(ctx)
	if err != nil {
		return err
	}
	if len(editors) == 0 {
		return nil
	}

	scope, err := r.selectScope(ctx)
	if err != nil {
		return err
	}
	withMCP, err := r.selectMCP(ctx)
	if err != nil {
		return err
	}

	r.out.line("Installing to %d editor(s) (%s):", len(editors), scope)
	r.out.blank()

	inst := install.NewInstaller(r.env, install.WithLogger(r.logger))
	var reg *mcp.Registrar
	var server *mcp.Server
	if withMCP {
		reg = mcp.NewRegistrar(r.env, r.backups, r.logger)
		server = r.cfg.Server()
	}

	failed := 0
	for _, o := range inst.InstallAll(editors, scope) {
		r.out.colored(headingColor, "%s", o.Editor.Name)
		r.printInstalled(inst, o.Editor, scope, o.Files)
		if o.Err != nil {
			failed++
			r.out.colored(errColor, "error: %v", o.Err)
			r.out.blank()
			continue
		}
		if reg != nil {
			r.register(reg, o.Editor, scope, server)
		}
		r.out.blank()
	}

	if failed == len(editors) {
		return errors.NewSystemError(errors.Newf("installation failed for %d editor(s)", failed), "Run: pds doctor")
	}
	r.out.colored(okColor, "Done! Type /pds in your editor to get started.")
	r.out.blank()
	return nil
}

func (r *installRun) printInstalled(inst *install.Installer, e *platform.Editor, scope platform.Scope, files []install.Installed) {
	dir := inst.Display(inst.SkillDir(e, scope))
	refs := false
	for _, f := range files {
		switch f.Kind {
		case install.KindSkill:
			r.out.line("skill  -> %s", filepath.Join(dir, content.SkillFile))
		case install.KindReference:
			if !refs {
				r.out.line("refs   -> %s%c", filepath.Join(dir, content.ReferencesDir), filepath.Separator)
				refs = true
			}
		case install.KindCommand, install.KindWorkflow:
			r.out.line("/pds   -> %s", inst.Display(f.Path))
		}
	}
}

func (r *installRun) register(reg *mcp.Registrar, e *platform.Editor, scope platform.Scope, s *mcp.Server) {
	res, err := reg.Register(e, scope, s)
	switch {
	case errors.Is(err, mcp.ErrUnsupported):
		r.out.colored(dimColor, "mcp    -> not supported")
	case err != nil:
		r.out.colored(warnColor, "mcp    -> %v", err)
	default:
		note := ""
		switch {
		case !res.Changed:
			note = " (already registered)"
		case res.BackupID != "":
			note = " (backup " + res.BackupID + ")"
		}
		r.out.line("mcp    -> %s%s", r.display(res.Path), dimColor.Sprint(note))
	}
}

func (r *installRun) display(p string) string {
	return paths.Display(p, r.env.WorkDir, r.env.Home)
}

// selectEditors resolves the target editors. An empty result with a nil
// error means there is nothing to do and a message was printed.
func (r *installRun) selectEditors(ctx context.Context) ([]*platform.Editor, error) {
	ids := r.opts.agents
	if len(ids) == 0 && r.cfg != nil {
		ids = r.cfg.Agents
	}
	if len(ids) > 0 {
		editors, unknown := r.registry.Resolve(ids)
		if len(unknown) > 0 {
			r.out.colored(warnColor, "Unknown agent(s): %s", strings.Join(unknown, ", "))
			r.out.line("Available: %s", strings.Join(r.registry.IDs(), ", "))
			r.out.blank()
		}
		if len(editors) == 0 {
			return nil, errors.NewUserError(errors.Wrapf(errors.ErrUnknownEditor, "%s", strings.Join(unknown, ", ")),
				"Available: "+strings.Join(r.registry.IDs(), ", "))
		}
		return editors, nil
	}

	results := r.registry.Detect(r.env)
	if r.ask != nil {
		choices := make([]prompt.Choice, 0, len(results))
		for _, res := range results {
			c := prompt.Choice{Label: res.Editor.Name, Value: res.Editor.ID, Checked: res.Detected}
			if res.Detected {
				c.Hint = "detected"
			}
			choices = append(choices, c)
		}
		picked, err := r.ask.MultiSelect(ctx, "Which editors should get the pds skill?", choices)
		if err != nil {
			return nil, promptError(err)
		}
		if len(picked) == 0 {
			r.out.line("No editors selected.")
			r.out.blank()
			return nil, nil
		}
		editors, _ := r.registry.Resolve(picked)
		return editors, nil
	}

	var detected []*platform.Editor
	for _, res := range results {
		if res.Detected {
			detected = append(detected, res.Editor)
		}
	}
	if len(detected) == 0 {
		r.printNoEditors()
	}
	return detected, nil
}

func (r *installRun) printNoEditors() {
	r.out.line("No editors detected. Use --agent to specify:")
	r.out.blank()
	r.out.line("  pds --agent claude-code")
	r.out.line("  pds --agent antigravity")
	r.out.blank()
	r.out.line("Available: %s", strings.Join(r.registry.IDs(), ", "))
	r.out.blank()
}

func (r *installRun) selectScope(ctx context.Context) (platform.Scope, error) {
	if r.opts.global {
		return platform.ScopeGlobal, nil
	}
	if r.cfg != nil {
		if scope, ok := r.cfg.ScopeOrDefault(); ok {
			return scope, nil
		}
	}
	if r.ask == nil {
		return platform.ScopeProject, nil
	}
	v, err := r.ask.SingleSelect(ctx, "Where should the skill be installed?", []prompt.Choice{
		{Label: "Project", Value: string(platform.ScopeProject), Hint: "this directory", Checked: true},
		{Label: "Global", Value: string(platform.ScopeGlobal), Hint: "your home directory"},
	})
	if err != nil {
		return "", promptError(err)
	}
	return platform.ParseScope(v)
}

func (r *installRun) selectMCP(ctx context.Context) (bool, error) {
	switch {
	case r.opts.mcp:
		return true, nil
	case r.opts.noMCP:
		return false, nil
	case r.cfg != nil && r.cfg.MCP.Enabled != nil:
		return *r.cfg.MCP.Enabled, nil
	case r.ask == nil:
		return false, nil
	}
	v, err := r.ask.SingleSelect(ctx, "Register the Pencil MCP server in your editors?", []prompt.Choice{
		{Label: "Yes", Value: "yes", Hint: "edits each editor's MCP config, with a backup"},
		{Label: "No", Value: "no"},
	})
	if err != nil {
		return false, promptError(err)
	}
	return v == "yes", nil
}

// promptError converts prompt failures to exit errors. Input ending before
// a choice is confirmed is a user error.
func promptError(err error) error {
	if errors.Is(err, prompt.ErrSelectionCancelled) || errors.Is(err, prompt.ErrAborted) {
		return errors.NewUserError(err, "Run with --yes and --agent to install without prompts")
	}
	return errors.NewSystemError(err, "")
}

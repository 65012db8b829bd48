// Package commands implements the pds command tree.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jss-tech/pencil-design-system/cmd"
	"github.com/jss-tech/pencil-design-system/internal/config"
	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/logging"
)

// envDebug raises verbosity when no -v flag is given: 1 or true for debug,
// 2 for trace.
const envDebug = "PDS_DEBUG"

var (
	verbosity  int
	quiet      bool
	logFormat  string
	logFile    string
	configPath string
)

// cfg is loaded in PersistentPreRunE and read by subcommands.
var cfg *config.Config

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: ./config.yaml or $XDG_CONFIG_HOME/pds/config.yaml)")

	addInstallFlags(rootCmd)

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("pds version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "pds",
	Short: "Install the Pencil Design System skill into AI coding editors",
	Long: `pds installs the Pencil Design System skill into the AI coding editors
found on this machine: Claude Code, Antigravity, Cursor, Windsurf and
Codex CLI.

Run without a subcommand it behaves like "pds install": it detects your
editors, lets you pick which ones to install to, and optionally registers
the Pencil MCP server in each editor's config.`,
	Example: `  # Detect editors and choose interactively
  pds

  # Install for Claude Code only, into ~/.claude
  pds -a claude-code --global

  # Check an existing installation
  pds doctor`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setup,
	RunE:              runInstall,
}

func setup(c *cobra.Command, _ []string) error {
	if err := setupLogging(c); err != nil {
		return err
	}
	if c.Name() == "version" || c.Name() == "help" {
		return nil
	}
	return loadConfig()
}

// setupLogging configures the default logger from the verbosity flags.
func setupLogging(c *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pick one of -q or -v")
	}
	format, ok := logging.ParseFormat(logFormat)
	if !ok {
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat), "Use --log-format text or --log-format json")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		if v == 0 {
			switch os.Getenv(envDebug) {
			case "1", "true":
				v = 2
			case "2":
				v = 3
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{Level: level}
	handler := logging.NewFormatHandler(c.ErrOrStderr(), format, opts)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
		}
		handler = logging.NewMultiHandler(handler, slog.NewJSONHandler(f, opts))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c.SetContext(logging.NewContext(ctx, logger))
	return nil
}

func loadConfig() error {
	config.Init()
	loaded, err := config.Load(configPath)
	if err != nil {
		return errors.NewConfigError(err)
	}
	cfg = loaded
	if used := config.Used(); used != "" {
		slog.Debug("loaded config", "path", used)
	}
	return nil
}

// Execute runs the root command with ctx, which is cancelled on SIGINT.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

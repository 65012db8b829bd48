package commands

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jss-tech/pencil-design-system/internal/content"
	"github.com/jss-tech/pencil-design-system/internal/doctor"
	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/platform"
)

var (
	doctorJSON bool
	doctorAll  bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false, "show passing and informational checks too")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "repair fixable problems, then check again")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the pds installation",
	Long: `Run diagnostic checks on the pds installation.

Reports detected editors, installed skill files and their version, the syntax
of every editor MCP config file, whether the MCP server is registered and
whether config files and skill directories have safe permissions. Secrets in
MCP env and headers are masked.

Exit codes:
  0 - no errors or warnings
  1 - warnings present, no errors
  2 - errors present`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var (
	errDoctorWarnings = errors.New("doctor found warnings")
	errDoctorErrors   = errors.New("doctor found errors")
)

func runDoctor(c *cobra.Command, _ []string) error {
	env, err := platform.CurrentEnv()
	if err != nil {
		return errors.NewSystemError(err, "Set HOME to your home directory")
	}
	target := doctor.Target{
		Env:          env,
		Editors:      platform.Default(),
		ServerName:   cfg.MCP.Name,
		SkillVersion: content.Version(),
	}
	return doctorReport(c.OutOrStdout(), doctor.NewDefaultRunner(target))
}

func doctorReport(w io.Writer, runner *doctor.Runner) error {
	report := runner.Run()

	if doctorFix {
		fixes := applyFixes(runner)
		if !doctorJSON && !quiet {
			printFixes(w, fixes)
		}
		if len(fixes) > 0 {
			report = runner.Run()
		}
	}

	switch {
	case quiet:
	case doctorJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	default:
		printReport(w, report, doctorAll)
	}

	switch {
	case report.HasErrors():
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	case report.HasWarnings():
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

// applyFixes runs Fix on every check that implements doctor.Fixer and has
// something to fix.
func applyFixes(runner *doctor.Runner) []doctor.FixResult {
	var out []doctor.FixResult
	for _, check := range runner.Checks() {
		if f, ok := check.(doctor.Fixer); ok && f.CanFix() {
			out = append(out, f.Fix()...)
		}
	}
	return out
}

func printFixes(w io.Writer, fixes []doctor.FixResult) {
	p := newPrinter(w, false)
	if len(fixes) == 0 {
		p.line("Nothing to fix.")
		p.blank()
		return
	}
	for _, f := range fixes {
		if f.Fixed {
			p.line("%s %s: %s", okColor.Sprint("fixed"), f.Path, f.Description)
		} else {
			p.line("%s %s: %s", errColor.Sprint("failed"), f.Path, f.Description)
		}
	}
	p.blank()
}

func printReport(w io.Writer, report *doctor.Report, all bool) {
	p := newPrinter(w, false)
	p.blank()
	for _, res := range report.Results {
		if !all && res.Status < doctor.SeverityWarning {
			continue
		}
		icon, c := statusIcon(res.Status)
		p.line("%s %s %s", c.Sprint(icon), headingColor.Sprintf("[%s]", res.Category), res.Message)
		if all || res.Status >= doctor.SeverityWarning {
			printDetails(p, res)
		}
		if res.FixHint != "" && res.Status != doctor.SeverityPass {
			p.line("  %s %s", dimColor.Sprint("hint:"), res.FixHint)
		}
	}
	p.blank()
	s := report.Summary
	p.line("Summary: %s passed, %d info, %s warnings, %s errors",
		okColor.Sprint(s.Passed), s.Info, warnColor.Sprint(s.Warnings), errColor.Sprint(s.Errors))
	p.blank()
}

// printDetails shows the per-item issues of a result, if it has any.
func printDetails(p *printer, res *doctor.CheckResult) {
	issues, ok := res.Details["issues"]
	if !ok {
		return
	}
	data, err := json.Marshal(issues)
	if err != nil {
		return
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return
	}
	for _, row := range rows {
		path, _ := row["path"].(string)
		problem, _ := row["problem"].(string)
		p.line("  - %s: %s", path, problem)
	}
}

func statusIcon(s doctor.Severity) (string, *color.Color) {
	switch s {
	case doctor.SeverityPass:
		return "✓", okColor
	case doctor.SeverityInfo:
		return "ℹ", dimColor
	case doctor.SeverityWarning:
		return "⚠", warnColor
	default:
		return "✗", errColor
	}
}

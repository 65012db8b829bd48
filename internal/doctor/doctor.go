package doctor

import (
	"time"

	"github.com/jss-tech/pencil-design-system/internal/platform"
)

// Check is one diagnostic.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category returns the grouping for this check (e.g., "editors", "mcp").
	Category() string

	// Run executes the check and returns its result.
	Run() *CheckResult
}

// Target is what the checks inspect.
type Target struct {
	Env     platform.Env
	Editors *platform.Registry

	// ServerName is the MCP server entry to look for.
	ServerName string

	// SkillVersion is the version of the embedded skill; installed skills
	// with another version are reported as outdated.
	SkillVersion string
}

// Runner executes checks in order and aggregates their results.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{
		checks: make([]Check, 0),
		now:    time.Now,
	}
}

// NewDefaultRunner creates a runner with every built-in check for t.
func NewDefaultRunner(t Target) *Runner {
	r := NewRunner()
	r.AddCheck(NewEditorCheck(t))
	r.AddCheck(NewSkillCheck(t))
	r.AddCheck(NewConfigSyntaxCheck(t))
	r.AddCheck(NewMCPCheck(t))
	r.AddCheck(NewPathPermissionCheck(t))
	return r
}

// AddCheck appends c.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Checks returns the registered checks in order.
func (r *Runner) Checks() []Check {
	return r.checks
}

// Run executes all registered checks and returns a report.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := check.Run()
		report.Results = append(report.Results, result)

		switch result.Status {
		case SeverityPass:
			report.Summary.Passed++
		case SeverityInfo:
			report.Summary.Info++
		case SeverityWarning:
			report.Summary.Warnings++
		case SeverityError:
			report.Summary.Errors++
		}
	}

	return report
}

// Report is the outcome of a Runner.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors returns true if any check has SeverityError.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

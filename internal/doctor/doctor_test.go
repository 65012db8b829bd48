package doctor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jss-tech/pencil-design-system/internal/platform"
)

type fakeCheck struct {
	name   string
	result *CheckResult
	runs   int
}

func (f *fakeCheck) Name() string     { return f.name }
func (f *fakeCheck) Category() string { return "test" }
func (f *fakeCheck) Run() *CheckResult {
	f.runs++
	return f.result
}

// testTarget returns a Target rooted in temporary home and project
// directories.
func testTarget(t *testing.T) Target {
	t.Helper()
	root := t.TempDir()
	env := platform.Env{
		Home:    filepath.Join(root, "home"),
		WorkDir: filepath.Join(root, "project"),
	}
	for _, d := range []string{env.Home, env.WorkDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return Target{
		Env:          env,
		Editors:      platform.Default(),
		ServerName:   "pencil",
		SkillVersion: "0.3.0",
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewRunner(t *testing.T) {
	r := NewRunner()
	if r == nil {
		t.Fatal("NewRunner returned nil")
	}
	if len(r.Checks()) != 0 {
		t.Errorf("NewRunner().Checks() = %d, want 0", len(r.Checks()))
	}
}

func TestNewDefaultRunner(t *testing.T) {
	r := NewDefaultRunner(testTarget(t))

	want := []string{"editor-detection", "skill-install", "config-syntax", "mcp-registration", "path-permissions"}
	checks := r.Checks()
	if len(checks) != len(want) {
		t.Fatalf("NewDefaultRunner() has %d checks, want %d", len(checks), len(want))
	}
	for i, name := range want {
		if checks[i].Name() != name {
			t.Errorf("checks[%d].Name() = %q, want %q", i, checks[i].Name(), name)
		}
	}
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []Severity
		wantPassed   int
		wantInfo     int
		wantWarnings int
		wantErrors   int
	}{
		{name: "empty runner"},
		{name: "all pass", statuses: []Severity{SeverityPass, SeverityPass}, wantPassed: 2},
		{
			name:         "mixed",
			statuses:     []Severity{SeverityPass, SeverityInfo, SeverityWarning, SeverityError, SeverityWarning},
			wantPassed:   1,
			wantInfo:     1,
			wantWarnings: 2,
			wantErrors:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			r.now = func() time.Time { return fixed }

			var fakes []*fakeCheck
			for i, s := range tt.statuses {
				f := &fakeCheck{name: string(rune('a' + i)), result: &CheckResult{Status: s}}
				fakes = append(fakes, f)
				r.AddCheck(f)
			}

			report := r.Run()
			if !report.Timestamp.Equal(fixed) {
				t.Errorf("Timestamp = %v, want %v", report.Timestamp, fixed)
			}
			if len(report.Results) != len(tt.statuses) {
				t.Errorf("len(Results) = %d, want %d", len(report.Results), len(tt.statuses))
			}
			for _, f := range fakes {
				if f.runs != 1 {
					t.Errorf("check %s ran %d times, want 1", f.name, f.runs)
				}
			}

			s := report.Summary
			if s.Passed != tt.wantPassed || s.Info != tt.wantInfo || s.Warnings != tt.wantWarnings || s.Errors != tt.wantErrors {
				t.Errorf("Summary = %+v", s)
			}
			if report.HasErrors() != (tt.wantErrors > 0) {
				t.Errorf("HasErrors() = %v", report.HasErrors())
			}
			if report.HasWarnings() != (tt.wantWarnings > 0) {
				t.Errorf("HasWarnings() = %v", report.HasWarnings())
			}
		})
	}
}

func TestSeverity_MarshalText(t *testing.T) {
	for s, want := range map[Severity]string{
		SeverityPass:    "pass",
		SeverityInfo:    "info",
		SeverityWarning: "warning",
		SeverityError:   "error",
		Severity(42):    "unknown",
	} {
		got, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText() error = %v", err)
		}
		if string(got) != want {
			t.Errorf("Severity(%d).MarshalText() = %q, want %q", int(s), got, want)
		}
	}
}

func TestWorst(t *testing.T) {
	if got := worst(); got != SeverityPass {
		t.Errorf("worst() = %v, want pass", got)
	}
	if got := worst(SeverityInfo, SeverityError, SeverityWarning); got != SeverityError {
		t.Errorf("worst() = %v, want error", got)
	}
}

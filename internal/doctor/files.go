package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/jss-tech/pencil-design-system/internal/content"
	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/platform"
)

// maxSecureFilePerm is the most permissive mode accepted for MCP config
// files, which may hold API keys in env or headers.
const maxSecureFilePerm os.FileMode = 0o644

// ConfigSyntaxCheck parses every editor MCP config file that exists.
type ConfigSyntaxCheck struct {
	target Target
}

var _ Check = (*ConfigSyntaxCheck)(nil)

// NewConfigSyntaxCheck creates a config syntax check.
func NewConfigSyntaxCheck(t Target) *ConfigSyntaxCheck {
	return &ConfigSyntaxCheck{target: t}
}

func (c *ConfigSyntaxCheck) Name() string     { return "config-syntax" }
func (c *ConfigSyntaxCheck) Category() string { return "config" }

type syntaxFileResult struct {
	Path    string `json:"path"`
	Editors string `json:"editors"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (c *ConfigSyntaxCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  make(map[string]any),
	}

	var files []syntaxFileResult
	var errorCount, passCount int
	for _, cf := range c.target.configFiles() {
		fr, ok := validateFile(cf.Path, cf.Target.Format)
		if !ok {
			continue
		}
		fr.Path = c.target.display(cf.Path)
		fr.Editors = strings.Join(cf.Editors, ", ")
		files = append(files, fr)
		if fr.Status == "error" {
			errorCount++
		} else {
			passCount++
		}
	}

	result.Details["files"] = files
	result.Details["checked"] = len(files)
	result.Details["errors"] = errorCount

	switch {
	case errorCount > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d config file(s) have syntax errors", errorCount)
		result.FixHint = "fix the syntax at the reported line and column, or restore with: pds backup restore"
	case passCount > 0:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d config file(s) validated successfully", passCount)
	default:
		result.Status = SeverityInfo
		result.Message = "no MCP config files found"
	}
	return result
}

// validateFile parses filePath. ok is false when the file does not exist.
func validateFile(filePath string, format platform.ConfigFormat) (fr syntaxFileResult, ok bool) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fr, false
		}
		fr.Status = "error"
		if errors.Is(err, os.ErrPermission) {
			fr.Message = fmt.Sprintf("permission denied: %v", err)
		} else {
			fr.Message = fmt.Sprintf("read error: %v", err)
		}
		return fr, true
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		fr.Status = "pass"
		fr.Message = "empty file"
		return fr, true
	}

	var v any
	if format == platform.FormatTOML {
		err = toml.Unmarshal(data, &v)
		if err != nil {
			fr.Message = formatTOMLError(err)
		}
	} else {
		err = json.Unmarshal(data, &v)
		if err != nil {
			fr.Message = formatJSONError(err, data)
		}
	}
	if err != nil {
		fr.Status = "error"
		return fr, true
	}
	fr.Status = "pass"
	return fr, true
}

// formatJSONError extracts position information from JSON syntax errors.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(data, int(typeErr.Offset))
		return fmt.Sprintf("JSON type error at line %d, column %d: %s", line, col, typeErr.Error())
	}

	return fmt.Sprintf("JSON error: %v", err)
}

// formatTOMLError extracts position information from TOML decode errors.
func formatTOMLError(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}
	return fmt.Sprintf("TOML error: %v", err)
}

// offsetToLineCol converts a byte offset to 1-indexed line and column.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = min(max(offset, 0), len(data))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}

// PathPermissionCheck looks for MCP config files and skill directories that
// other users can write, and config files other users could read secrets
// from.
type PathPermissionCheck struct {
	PermissionFixer
	target Target
}

var (
	_ Check = (*PathPermissionCheck)(nil)
	_ Fixer = (*PathPermissionCheck)(nil)
)

// NewPathPermissionCheck creates a permission check.
func NewPathPermissionCheck(t Target) *PathPermissionCheck {
	return &PathPermissionCheck{target: t}
}

func (c *PathPermissionCheck) Name() string     { return "path-permissions" }
func (c *PathPermissionCheck) Category() string { return "filesystem" }

// pathIssue is a single permission problem.
type pathIssue struct {
	Path        string
	Editor      string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

func (c *PathPermissionCheck) Run() *CheckResult {
	var issues []pathIssue
	checked := 0

	if runtime.GOOS != "windows" {
		for _, cf := range c.target.configFiles() {
			info, err := os.Stat(cf.Path)
			if err != nil || info.IsDir() {
				continue
			}
			checked++
			issues = append(issues, c.checkFile(cf.Path, cf.Editors[0], info.Mode())...)
		}

		for _, e := range c.target.Editors.All() {
			for _, scope := range scopes {
				dir := e.SkillDir.Resolve(c.target.Env, scope)
				info, err := os.Stat(dir)
				if err != nil || !info.IsDir() {
					continue
				}
				checked++
				issues = append(issues, c.checkDirectory(dir, e.ID, info.Mode())...)
				refs := filepath.Join(dir, content.ReferencesDir)
				if info, err := os.Stat(refs); err == nil && info.IsDir() {
					checked++
					issues = append(issues, c.checkDirectory(refs, e.ID, info.Mode())...)
				}
			}
		}
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

func (c *PathPermissionCheck) checkFile(path, editor string, mode os.FileMode) []pathIssue {
	perm := mode.Perm()
	issue := pathIssue{
		Path:        path,
		Editor:      editor,
		Type:        "file",
		Severity:    SeverityWarning,
		Permissions: formatPermissions(mode),
		Fixable:     true,
		FixHint:     "chmod 644 " + path,
	}

	switch {
	case perm&0o002 != 0:
		issue.Problem = "file is world-writable"
	case perm&^maxSecureFilePerm != 0:
		issue.Problem = fmt.Sprintf("file has overly permissive permissions (mode %s, expected %s or less)",
			formatPermissions(mode), formatPermissions(maxSecureFilePerm))
	default:
		return nil
	}
	return []pathIssue{issue}
}

func (c *PathPermissionCheck) checkDirectory(path, editor string, mode os.FileMode) []pathIssue {
	if mode.Perm()&0o002 == 0 {
		return nil
	}
	return []pathIssue{{
		Path:        path,
		Editor:      editor,
		Type:        "directory",
		Problem:     "directory is world-writable",
		Severity:    SeverityWarning,
		Permissions: formatPermissions(mode),
		Fixable:     true,
		FixHint:     "chmod 755 " + path,
	}}
}

func (c *PathPermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"checked_paths": checked},
	}
	if len(issues) == 0 {
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("all %d paths have valid permissions", checked)
		return result
	}

	statuses := make([]Severity, 0, len(issues))
	details := make([]map[string]any, 0, len(issues))
	var hints []string
	for _, issue := range issues {
		statuses = append(statuses, issue.Severity)
		details = append(details, map[string]any{
			"path":        c.target.display(issue.Path),
			"editor":      issue.Editor,
			"type":        issue.Type,
			"problem":     issue.Problem,
			"severity":    issue.Severity.String(),
			"permissions": issue.Permissions,
		})
		if issue.Fixable {
			result.Fixable = true
			hints = append(hints, issue.FixHint)
		}
	}

	result.Status = worst(statuses...)
	result.Message = fmt.Sprintf("found %d permission issue(s) across %d paths", len(issues), checked)
	result.Details["issues"] = details
	result.FixHint = strings.Join(hints, "; ")
	return result
}

// formatPermissions returns the octal permission bits, e.g. "0644".
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}

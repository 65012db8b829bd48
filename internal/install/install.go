package install

import (
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/jss-tech/pencil-design-system/internal/content"
	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/logging"
	"github.com/jss-tech/pencil-design-system/internal/paths"
	"github.com/jss-tech/pencil-design-system/internal/platform"
	"github.com/jss-tech/pencil-design-system/pkg/fileutil"
)

// Kind classifies an installed file.
type Kind string

const (
	KindSkill     Kind = "skill"
	KindReference Kind = "reference"
	KindCommand   Kind = "command"
	KindWorkflow  Kind = "workflow"
)

// ErrScopeUnsupported is returned when an editor has no skill directory for
// the requested scope.
var ErrScopeUnsupported = errors.New("scope not supported by editor")

// Installed is one file written (or found current) by Install.
type Installed struct {
	Kind Kind

	// Path is absolute.
	Path string

	// Changed is false when the file already had the embedded content.
	Changed bool
}

// Outcome is the result of installing for one editor.
type Outcome struct {
	Editor *platform.Editor
	Files  []Installed
	Err    error
}

// Installer writes skill content for editors.
type Installer struct {
	env    platform.Env
	fsys   fs.FS
	logger *slog.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithFS replaces the embedded content tree. The tree must have the
// layout of content.FS.
func WithFS(fsys fs.FS) Option {
	return func(i *Installer) { i.fsys = fsys }
}

// WithLogger sets the logger for per-file debug output.
func WithLogger(l *slog.Logger) Option {
	return func(i *Installer) { i.logger = l }
}

// NewInstaller creates an Installer that resolves paths against env.
func NewInstaller(env platform.Env, opts ...Option) *Installer {
	i := &Installer{
		env:    env,
		fsys:   content.FS(),
		logger: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install copies SKILL.md, references/ and the editor's command or
// workflow file for scope. Files written before an error are returned
// along with it.
func (i *Installer) Install(e *platform.Editor, scope platform.Scope) ([]Installed, error) {
	dir := e.SkillDir.Resolve(i.env, scope)
	if dir == "" {
		return nil, errors.Wrapf(ErrScopeUnsupported, "%s (%s)", e.ID, scope)
	}

	var out []Installed
	write := func(kind Kind, src, dst string) error {
		data, err := fs.ReadFile(i.fsys, src)
		if err != nil {
			return errors.Wrapf(err, "reading embedded %s", src)
		}
		changed, err := fileutil.WriteIfChanged(dst, data, fileutil.DefaultFilePerm)
		if err != nil {
			return errors.Wrapf(err, "installing %s", i.Display(dst))
		}
		i.logger.Debug("installed file", "editor", e.ID, "kind", kind, "path", dst, "changed", changed)
		out = append(out, Installed{Kind: kind, Path: dst, Changed: changed})
		return nil
	}

	if err := write(KindSkill, path.Join(e.Content, content.SkillFile), filepath.Join(dir, content.SkillFile)); err != nil {
		return out, err
	}

	refsDir := filepath.Join(dir, content.ReferencesDir)
	err := fs.WalkDir(i.fsys, content.ReferencesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := p[len(content.ReferencesDir)+1:]
		return write(KindReference, p, filepath.Join(refsDir, filepath.FromSlash(rel)))
	})
	if err != nil {
		return out, errors.Wrap(err, "copying references")
	}

	if e.HasCommand() {
		if dst := e.CommandFile.Resolve(i.env, scope); dst != "" {
			if err := write(KindCommand, path.Join(e.Content, content.CommandFile), dst); err != nil {
				return out, err
			}
		}
	}
	if e.HasWorkflow() {
		if dst := e.WorkflowFile.Resolve(i.env, scope); dst != "" {
			if err := write(KindWorkflow, path.Join(e.Content, content.WorkflowFile), dst); err != nil {
				return out, err
			}
		}
	}

	return out, nil
}

// InstallAll installs for every editor in order. A failure for one editor
// is recorded in its Outcome and does not stop the others.
func (i *Installer) InstallAll(editors []*platform.Editor, scope platform.Scope) []Outcome {
	outcomes := make([]Outcome, 0, len(editors))
	for _, e := range editors {
		files, err := i.Install(e, scope)
		if err != nil {
			i.logger.Warn("install failed", "editor", e.ID, "error", err)
		}
		outcomes = append(outcomes, Outcome{Editor: e, Files: files, Err: err})
	}
	return outcomes
}

// Display returns p relative to the working directory for project files
// and with a "~" prefix for files under home.
func (i *Installer) Display(p string) string {
	return paths.Display(p, i.env.WorkDir, i.env.Home)
}

// SkillDir returns the directory Install writes SKILL.md into, for
// summaries.
func (i *Installer) SkillDir(e *platform.Editor, scope platform.Scope) string {
	return e.SkillDir.Resolve(i.env, scope)
}

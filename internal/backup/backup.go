package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/paths"
	"github.com/jss-tech/pencil-design-system/pkg/fileutil"
)

const idLayout = "20060102T150405"

// Manager creates, lists and prunes backups under one root directory.
type Manager struct {
	rootDir     string
	retention   int
	toolVersion string
	now         func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.rootDir = dir
		}
	}
}

// WithRetentionCount sets the number of backups kept per editor.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retention = n
		}
	}
}

// WithToolVersion records the pds version in new manifests.
func WithToolVersion(v string) Option {
	return func(m *Manager) { m.toolVersion = v }
}

// NewManager creates a Manager rooted at paths.BackupDir unless overridden.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:     paths.BackupDir(),
		retention:   DefaultRetentionCount,
		toolVersion: "dev",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the root backup directory.
func (m *Manager) Dir() string {
	return m.rootDir
}

// Backup copies the existing files among paths into a new backup for
// editor. Missing paths are skipped; if none exist ErrNothingToBackUp is
// returned and nothing is written.
func (m *Manager) Backup(editor string, files []string) (*Manifest, error) {
	if editor == "" {
		return nil, errors.New("editor is required")
	}

	var present []string
	for _, p := range files {
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		if info.IsDir() {
			return nil, errors.Newf("%s is a directory", p)
		}
		present = append(present, p)
	}
	if len(present) == 0 {
		return nil, ErrNothingToBackUp
	}

	created := m.now()
	id, dir, err := m.makeBackupDir(editor, created)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   created.UTC(),
		Editor:      editor,
		ToolVersion: m.toolVersion,
		ID:          id,
	}
	for _, src := range present {
		f, err := backupFile(src, dir)
		if err != nil {
			os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "backing up %s", src)
		}
		manifest.Files = append(manifest.Files, *f)
	}

	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, ManifestFile), manifest); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(editor, m.retention); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// makeBackupDir creates a fresh directory for a backup taken at t. Backups
// taken within the same second get a numeric suffix.
func (m *Manager) makeBackupDir(editor string, t time.Time) (string, string, error) {
	parent := filepath.Join(m.rootDir, editor)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}

	base := t.Format(idLayout)
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = base + "-" + strconv.Itoa(i)
		}
		dir := filepath.Join(parent, id)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
}

// Restore copies every file of a backup back to its original path after
// verifying its hash.
func (m *Manager) Restore(editor, id string) error {
	manifest, err := m.Get(editor, id)
	if err != nil {
		return err
	}
	dir := filepath.Join(m.rootDir, editor, id)

	for _, f := range manifest.Files {
		src := filepath.Join(dir, f.RelPath)
		hash, err := hashFile(src)
		if err != nil {
			return errors.Wrapf(err, "reading backup file %s", f.RelPath)
		}
		if hash != f.SHA256Hash {
			return errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", f.RelPath)
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return errors.Wrapf(err, "reading backup file %s", f.RelPath)
		}
		if err := fileutil.AtomicWriteFile(f.OriginalPath, data, f.Mode.Perm()); err != nil {
			return errors.Wrapf(err, "restoring %s", f.OriginalPath)
		}
	}
	return nil
}

// List returns the editor's backups, newest first.
func (m *Manager) List(editor string) ([]Manifest, error) {
	entries, err := os.ReadDir(filepath.Join(m.rootDir, editor))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoBackupsFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading backup directory")
	}

	var manifests []Manifest
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		mf, err := m.Get(editor, e.Name())
		if err != nil {
			// not a backup
			continue
		}
		manifests = append(manifests, *mf)
	}
	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return manifests, nil
}

// Prune deletes all but the keep most recent backups of editor.
func (m *Manager) Prune(editor string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}
	manifests, err := m.List(editor)
	if errors.Is(err, ErrNoBackupsFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, mf := range manifests[min(keep, len(manifests)):] {
		if err := os.RemoveAll(filepath.Join(m.rootDir, editor, mf.ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", mf.ID)
		}
	}
	return nil
}

// Get loads one backup's manifest.
func (m *Manager) Get(editor, id string) (*Manifest, error) {
	path := filepath.Join(m.rootDir, editor, id, ManifestFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}

	var mf Manifest
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	mf.ID = id
	return &mf, nil
}

func backupFile(src, dir string) (*File, error) {
	rel := generateRelPath(src)
	dst := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating parent directory")
	}
	hash, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}
	return &File{OriginalPath: src, RelPath: rel, SHA256Hash: hash, Mode: mode}, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst and returns the content hash and source mode.
func copyFile(src, dst string) (string, fs.FileMode, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		out.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := out.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}
	return hex.EncodeToString(h.Sum(nil)), info.Mode().Perm(), nil
}

// generateRelPath maps an absolute path to a relative path inside the
// backup directory. Colons are dropped so Windows drive letters stay valid.
func generateRelPath(absPath string) string {
	clean := filepath.Clean(absPath)
	clean = strings.TrimLeft(clean, string(filepath.Separator))
	return strings.ReplaceAll(clean, ":", "")
}

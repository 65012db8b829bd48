package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/jss-tech/pencil-design-system/internal/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "pds"

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the permission used for directories created by the installer.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents.
// If perm is 0, DefaultDirPerm is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return errors.Wrapf(os.MkdirAll(path, perm), "creating directory %s", path)
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	if home == "" {
		return "", ErrHomeDirNotFound
	}
	return home, nil
}

// Home returns the user's home directory, or "" if it cannot be determined.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
func DataHome() string {
	return xdg.DataHome
}

// AppConfigDir returns <ConfigHome>/pds.
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// BackupDir returns <DataHome>/pds/backups.
func BackupDir() string {
	return filepath.Join(DataHome(), AppName, "backups")
}

// ExpandHome replaces a leading "~" with home.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Display returns path relative to base when it lies inside base, "~/..."
// when it lies inside home, and path unchanged otherwise.
func Display(path, base, home string) string {
	if rel, ok := within(path, base); ok {
		return rel
	}
	if rel, ok := within(path, home); ok {
		return filepath.Join("~", rel)
	}
	return path
}

func within(path, root string) (string, bool) {
	if root == "" {
		return "", false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

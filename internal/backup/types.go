package backup

import (
	"io/fs"
	"time"

	"github.com/jss-tech/pencil-design-system/internal/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// ManifestFile is the manifest's name inside a backup directory.
const ManifestFile = "manifest.json"

// DefaultRetentionCount is the number of backups kept per editor.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the editor.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrNothingToBackUp indicates none of the given paths exist.
	ErrNothingToBackUp = errors.New("no files to back up")

	// ErrBackupCorrupted indicates a copied file no longer matches its
	// manifest hash.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest describes one backup. It is stored as manifest.json.
type Manifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Editor    string    `json:"editor"`
	Files     []File    `json:"files"`

	// ToolVersion is the pds version that wrote the backup.
	ToolVersion string `json:"pds_version"`

	// ID is the directory name. It is filled in when loading.
	ID string `json:"-"`
}

// File is one backed up file.
type File struct {
	OriginalPath string      `json:"original_path"`
	RelPath      string      `json:"rel_path"`
	SHA256Hash   string      `json:"sha256_hash"`
	Mode         fs.FileMode `json:"mode"`
}

// Package backup snapshots editor config files before pds rewrites them.
//
// Each backup is a timestamped directory holding copies of the files and a
// manifest with their original paths, modes and SHA-256 hashes:
//
//	$XDG_DATA_HOME/pds/backups/
//	└── {editor}/
//	    └── {timestamp}/
//	        ├── manifest.json
//	        └── {copied files...}
//
// [Manager.Backup] prunes the editor's backups down to the retention count
// after every successful snapshot. [Manager.Restore] copies a snapshot back
// after checking every hash.
package backup

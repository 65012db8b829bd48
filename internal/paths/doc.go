// Package paths provides path resolution helpers for the pds installer.
//
// Editor-specific directories live in the platform package; this package
// only knows about the user's home directory, the XDG base directories
// (via github.com/adrg/xdg) and the installer's own config and data
// locations:
//
//	paths.AppConfigDir() // $XDG_CONFIG_HOME/pds
//	paths.BackupDir()    // $XDG_DATA_HOME/pds/backups
//
// [Display] shortens absolute paths for install summaries, printing
// project-relative paths as-is and home-relative paths with a leading "~".
package paths

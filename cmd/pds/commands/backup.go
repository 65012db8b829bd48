package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jss-tech/pencil-design-system/internal/backup"
	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/platform"
)

var (
	backupAgent    string
	backupListJSON bool
)

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "output in JSON format")
	backupListCmd.Flags().StringVarP(&backupAgent, "agent", "a", "", "only list backups for this editor")
	backupRestoreCmd.Flags().StringVarP(&backupAgent, "agent", "a", "", "editor whose config is restored (required)")
	_ = backupRestoreCmd.MarkFlagRequired("agent")

	backupCmd.AddCommand(backupListCmd, backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "List and restore MCP config backups",
	Long: `pds backs up an editor's MCP config file before it adds the Pencil MCP
server. These commands list and restore those backups.`,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Example: `  pds backup list
  pds backup list --agent cursor --json`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		editors, err := backupEditors(backupAgent)
		if err != nil {
			return err
		}
		return listBackups(c.OutOrStdout(), newBackupManager(cfg), editors, backupListJSON)
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore an editor's MCP config from a backup",
	Long: `Restore the files of a backup to their original locations.

Without a backup id the most recent backup of the editor is used.`,
	Example: `  pds backup restore --agent claude-code
  pds backup restore 20260123T100712 --agent claude-code`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		editors, err := backupEditors(backupAgent)
		if err != nil {
			return err
		}
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return restoreBackup(c.OutOrStdout(), newBackupManager(cfg), editors[0], id)
	},
}

// backupEditors returns the named editor, or every editor for "".
func backupEditors(id string) ([]*platform.Editor, error) {
	reg := platform.Default()
	if id == "" {
		return reg.All(), nil
	}
	e, ok := reg.Lookup(id)
	if !ok {
		return nil, errors.NewUserError(errors.Wrapf(errors.ErrUnknownEditor, "%s", id), "Run: pds backup list")
	}
	return []*platform.Editor{e}, nil
}

type backupListOutput struct {
	Editor  string             `json:"editor"`
	Backups []backupInfoOutput `json:"backups"`
}

type backupInfoOutput struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Files      []string  `json:"files"`
	PDSVersion string    `json:"pds_version"`
}

func listBackups(w io.Writer, mgr *backup.Manager, editors []*platform.Editor, asJSON bool) error {
	output := make([]backupListOutput, 0, len(editors))
	for _, e := range editors {
		manifests, err := mgr.List(e.ID)
		if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.Wrapf(err, "listing backups for %s", e.ID)
		}
		entry := backupListOutput{Editor: e.ID, Backups: make([]backupInfoOutput, 0, len(manifests))}
		for _, m := range manifests {
			info := backupInfoOutput{ID: m.ID, CreatedAt: m.CreatedAt, PDSVersion: m.ToolVersion}
			for _, f := range m.Files {
				info.Files = append(info.Files, f.OriginalPath)
			}
			entry.Backups = append(entry.Backups, info)
		}
		output = append(output, entry)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	printed := false
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, entry := range output {
		if len(entry.Backups) == 0 {
			continue
		}
		if !printed {
			fmt.Fprintln(tw, "EDITOR\tID\tCREATED\tFILES\tVERSION")
			printed = true
		}
		for _, b := range entry.Backups {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				entry.Editor, b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04:05"), len(b.Files), b.PDSVersion)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !printed {
		fmt.Fprintln(w, "No backups available.")
		fmt.Fprintln(w, "Backups are created automatically before pds changes an editor's MCP config.")
	}
	return nil
}

func restoreBackup(w io.Writer, mgr *backup.Manager, e *platform.Editor, id string) error {
	if id == "" {
		manifests, err := mgr.List(e.ID)
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(errors.Newf("no backups found for %s", e.Name), "Run: pds backup list")
		}
		if err != nil {
			return errors.Wrap(err, "listing backups")
		}
		id = manifests[0].ID
		fmt.Fprintf(w, "Using most recent backup: %s\n", id)
	}

	manifest, err := mgr.Get(e.ID, id)
	if err != nil {
		return errors.NewUserError(errors.Wrapf(err, "getting backup %s", id), "Run: pds backup list --agent "+e.ID)
	}
	if err := mgr.Restore(e.ID, id); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "restoring backup"), "")
	}

	for _, f := range manifest.Files {
		fmt.Fprintf(w, "%s %s\n", okColor.Sprint("restored"), f.OriginalPath)
	}
	return nil
}

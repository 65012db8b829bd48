package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jss-tech/pencil-design-system/cmd"
	"github.com/jss-tech/pencil-design-system/internal/content"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit and build date of pds and the version of the bundled skill.`,
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		w := c.OutOrStdout()
		fmt.Fprintf(w, "pds version %s\n", cmd.Version)
		fmt.Fprintf(w, "  commit: %s\n", cmd.Commit)
		fmt.Fprintf(w, "  built:  %s\n", cmd.Date)
		fmt.Fprintf(w, "  skill:  %s\n", content.Version())
	},
}

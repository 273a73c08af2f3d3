package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(version string, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of the cinema CLI",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString(version, commit))
		},
	}
}

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/tinysh/core/shell"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		for _, builtin := range shell.ListBuiltins() {
			fmt.Fprintf(w, "%s\t%s\n", builtin.Use, builtin.Short)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}

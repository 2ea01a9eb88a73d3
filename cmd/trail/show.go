// ABOUTME: Trail show command
// ABOUTME: Prints the details of one stored path

package main

import (
	"fmt"

	"github.com/harper/trail/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recorded path",
	Long: `Show a recorded path. The id may be shortened to any unique prefix.

Examples:
  trail show 3f2a9c1e`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePath(cmd, args[0])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), ui.FormatPathDetail(p))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// ABOUTME: Trail remove command
// ABOUTME: Deletes a stored path after confirmation

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a recorded path",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePath(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		skip, _ := cmd.Flags().GetBool("confirm")
		if !skip && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete '%s'?", p.Name)) {
			_, _ = fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if _, err := svc.DeletePath(commandContext(cmd), p.ID); err != nil {
			return fmt.Errorf("failed to remove path: %w", err)
		}

		_, _ = fmt.Fprintln(out, color.GreenString("✓ Removed %s", p.Name))
		return nil
	},
}

func init() {
	removeCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(removeCmd)
}

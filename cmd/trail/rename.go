// ABOUTME: Trail rename command
// ABOUTME: Updates the name or description of a stored path

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/ui"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:     "rename <id>",
	Aliases: []string{"edit"},
	Short:   "Change a path's name or description",
	Long: `Change a path's name or description. Flags that are not given are left unchanged.

Examples:
  trail rename 3f2a9c1e --name "Lakefront ride"
  trail rename 3f2a9c1e --description ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var details models.Details
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			if err := models.ValidateName(name); err != nil {
				return err
			}
			details.Name = &name
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			details.Description = &description
		}
		if details.Empty() {
			return fmt.Errorf("nothing to change: pass --name or --description")
		}

		p, err := resolvePath(cmd, args[0])
		if err != nil {
			return err
		}
		updated, err := svc.UpdatePathDetails(commandContext(cmd), p.ID, details)
		if err != nil {
			return fmt.Errorf("failed to update path: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, color.GreenString("✓ Updated %s", updated.Name))
		_, _ = fmt.Fprintln(out, ui.FormatPath(updated))
		return nil
	},
}

func init() {
	renameCmd.Flags().String("name", "", "new name")
	renameCmd.Flags().String("description", "", "new description")

	rootCmd.AddCommand(renameCmd)
}

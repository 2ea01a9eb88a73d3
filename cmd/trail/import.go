// ABOUTME: Import command for restoring paths from a YAML backup
// ABOUTME: Upserts every backed-up path by id into the current store

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harper/trail/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import paths from a YAML backup",
	Long: `Import paths from a YAML backup file created with 'trail backup'.

Paths whose id already exists are replaced; all other stored paths are kept.
If any path in the backup is invalid, nothing is imported.

Examples:
  trail import paths.yaml
  trail import ~/backups/trail-20241214.yaml --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename) //nolint:gosec // user-specified backup file
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		out := cmd.OutOrStdout()
		skip, _ := cmd.Flags().GetBool("confirm")
		if !skip && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Import paths from '%s'?", filename)) {
			_, _ = fmt.Fprintln(out, "Canceled.")
			return nil
		}

		n, err := storage.ImportBackup(commandContext(cmd), store, data)
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		all, _ := store.GetAll(commandContext(cmd))
		_, _ = fmt.Fprintln(out, color.GreenString("Import complete"))
		_, _ = fmt.Fprintf(out, "  %d paths imported, %d paths in store\n", n, len(all))
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(importCmd)
}

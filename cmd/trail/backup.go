// ABOUTME: Backup command for exporting data to YAML
// ABOUTME: Creates portable backup files for moving paths between machines

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harper/trail/internal/storage"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of all paths",
	Long: `Create a YAML backup file containing every recorded path.

The backup file can be used to:
- Migrate paths between machines or backends
- Restore after data loss

Examples:
  trail backup --output paths.yaml
  trail backup -o ~/backups/trail-$(date +%Y%m%d).yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		data, err := storage.ExportBackup(commandContext(cmd), store)
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		if output == "" {
			output = fmt.Sprintf("trail-%s.yaml", time.Now().Format("20060102-150405"))
		}

		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for backup files
			return fmt.Errorf("failed to write backup: %w", err)
		}

		all, _ := store.GetAll(commandContext(cmd))
		points := 0
		for _, p := range all {
			points += len(p.Points)
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, color.GreenString("Backup created: %s", output))
		_, _ = fmt.Fprintf(out, "  %d paths, %d points\n", len(all), points)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "output file (default: trail-YYYYMMDD-HHMMSS.yaml)")

	rootCmd.AddCommand(backupCmd)
}

// ABOUTME: Trail list command
// ABOUTME: Lists stored paths, newest first, with distance and duration

package main

import (
	"fmt"
	"sort"

	"github.com/harper/trail/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := svc.GetAllPaths(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to list paths: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(all) == 0 {
			_, _ = fmt.Fprintln(out, "No paths recorded yet. Use 'trail record' to record one.")
			return nil
		}

		sort.SliceStable(all, func(i, j int) bool {
			return all[i].StartTime.After(all[j].StartTime)
		})
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(all) > limit {
			all = all[:limit]
		}

		for _, p := range all {
			_, _ = fmt.Fprintln(out, ui.FormatPath(p))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntP("limit", "n", 0, "show at most this many paths")

	rootCmd.AddCommand(listCmd)
}

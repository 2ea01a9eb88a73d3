// ABOUTME: Migration command for moving paths between storage backends
// ABOUTME: Copies badger, sqlite and charm stores into one another with safety checks

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/trail/internal/config"
	"github.com/harper/trail/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate paths between storage backends",
	Long: `Copy every path from one storage backend to another.

Paths keep their ids and order. Does NOT update the config file; verify the
migration was successful then update config.json manually.

Examples:
  trail migrate --to sqlite
  trail migrate --from sqlite --to badger --data-dir ~/trail-badger
  trail migrate --to charm --force`,
	Annotations: map[string]string{annotationStore: "none"},
	RunE:        runMigrate,
}

var (
	migrateFrom    string
	migrateTo      string
	migrateDataDir string
	migrateForce   bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (defaults to the configured backend)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (badger, sqlite or charm)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory (defaults to current config data_dir)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a non-empty target")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func validBackend(name string) bool {
	switch name {
	case config.BackendBadger, config.BackendSQLite, config.BackendCharm:
		return true
	}
	return false
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := migrateFrom
	if sourceBackend == "" {
		sourceBackend = cfg.GetBackend()
	}
	targetBackend := migrateTo

	if !validBackend(sourceBackend) {
		return fmt.Errorf("invalid source backend %q: must be badger, sqlite or charm", sourceBackend)
	}
	if !validBackend(targetBackend) {
		return fmt.Errorf("invalid target backend %q: must be badger, sqlite or charm", targetBackend)
	}

	sourceDataDir := cfg.GetDataDir()
	targetDataDir := sourceDataDir
	if migrateDataDir != "" {
		targetDataDir = config.ExpandPath(migrateDataDir)
	}
	if targetBackend == sourceBackend && (targetDataDir == sourceDataDir || targetBackend == config.BackendCharm) {
		return fmt.Errorf("target backend %q is the same as the source", targetBackend)
	}

	ctx := commandContext(cmd)

	src, err := cfg.OpenBackend(sourceBackend, logger)
	if err != nil {
		return fmt.Errorf("open source storage (%s): %w", sourceBackend, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing source storage: %v\n", cerr)
		}
	}()

	dst, err := cfg.OpenBackendAt(targetBackend, targetDataDir, logger)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	existing, err := dst.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("check target storage: %w", err)
	}
	if len(existing) > 0 && !migrateForce {
		return fmt.Errorf("target %s storage already holds %d paths; use --force to merge into it", targetBackend, len(existing))
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, color.YellowString("Migrating paths:"))
	_, _ = fmt.Fprintf(out, "  Source:  %s (%s)\n", sourceBackend, sourceDataDir)
	_, _ = fmt.Fprintf(out, "  Target:  %s (%s)\n\n", targetBackend, targetDataDir)

	summary, err := storage.MigrateData(ctx, src, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	_, _ = fmt.Fprintln(out, color.GreenString("Migration complete!"))
	_, _ = fmt.Fprintf(out, "  Paths:   %d\n", summary.Paths)
	_, _ = fmt.Fprintf(out, "  Points:  %d\n\n", summary.Points)
	_, _ = fmt.Fprintln(out, color.YellowString("Note: config.json was NOT updated. To switch to the new backend, edit:"))
	_, _ = fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	_, _ = fmt.Fprintf(out, "  Set \"backend\": %q", targetBackend)
	if migrateDataDir != "" {
		_, _ = fmt.Fprintf(out, " and \"data_dir\": %q", migrateDataDir)
	}
	_, _ = fmt.Fprintln(out)
	return nil
}

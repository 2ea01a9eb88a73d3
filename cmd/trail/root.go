// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger and opens the path store for subcommands

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/apperr"
	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/config"
	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/paths"
	"github.com/harper/trail/internal/storage"
	"github.com/spf13/cobra"
)

// annotationStore marks commands that open storage themselves.
const annotationStore = "store"

var (
	cfg    *config.Config
	logger *log.Logger
	store  storage.Store
	svc    *paths.Service
)

var rootCmd = &cobra.Command{
	Use:   "trail",
	Short: "Record and keep GPS paths",
	Long: `
████████╗██████╗  █████╗ ██╗██╗
╚══██╔══╝██╔══██╗██╔══██╗██║██║
   ██║   ██████╔╝███████║██║██║
   ██║   ██╔══██╗██╔══██║██║██║
   ██║   ██║  ██║██║  ██║██║███████╗
   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝╚══════╝

       Record walks, rides and runs as paths

Examples:
  gpspipe -w | jq -c 'select(.class=="TPV")' | trail record --name "Morning loop"
  trail record --input ride.jsonl
  trail list
  trail show 3f2a9c1e
  trail export 3f2a9c1e --format geojson -o ride.geojson`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = cfg.NewLogger()

		if cmd.Annotations[annotationStore] == "none" {
			return nil
		}

		store, err = cfg.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		svc = paths.NewService(bus.New(logger), store, paths.WithLogger(logger))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			err := store.Close()
			store = nil
			return err
		}
		return nil
	},
}

// commandContext returns the command's context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", prompt)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// resolvePath finds a stored path by full id or unique id prefix.
func resolvePath(cmd *cobra.Command, ref string) (*models.Path, error) {
	if p, err := svc.GetPathByID(commandContext(cmd), ref); err == nil {
		return p, nil
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	all, err := svc.GetAllPaths(commandContext(cmd))
	if err != nil {
		return nil, err
	}
	var match *models.Path
	for _, p := range all {
		if !strings.HasPrefix(p.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("id prefix %q matches more than one path", ref)
		}
		match = p
	}
	if match == nil {
		return nil, fmt.Errorf("path '%s' not found", ref)
	}
	return match, nil
}

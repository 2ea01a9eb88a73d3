// ABOUTME: Trail replay command
// ABOUTME: Re-records a stored path through the recording engine as a new path

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/position"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Replay a stored path into a new recording",
	Long: `Feed the points of a stored path back through the recorder.

The replay is saved as a new path with recomputed distance and duration.
With --speed the original gaps between fixes are kept, divided by the speed;
without it the points are replayed as fast as possible.

Examples:
  trail replay 3f2a9c1e
  trail replay 3f2a9c1e --speed 10 --name "Lakefront (replay)"
  trail replay 3f2a9c1e --discard`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePath(cmd, args[0])
		if err != nil {
			return err
		}

		opts, err := sessionFlags(cmd)
		if err != nil {
			return err
		}
		speed, _ := cmd.Flags().GetFloat64("speed")
		if speed < 0 {
			return fmt.Errorf("speed must not be negative")
		}
		opts.tracking.Speed = speed
		if opts.details.Name == nil {
			name := replayName(p.Name)
			opts.details.Name = &name
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src := position.NewReplaySource(svc.Bus(), p, logger)
		replayed, err := runSession(ctx, cmd.OutOrStdout(), src, opts)
		if err != nil {
			return fmt.Errorf("replay failed: %w", err)
		}
		printOutcome(cmd.OutOrStdout(), replayed, opts.discard)
		return nil
	},
}

func init() {
	replayCmd.Flags().Float64("speed", 0, "playback speed multiplier (0: no pauses)")
	addSessionFlags(replayCmd)

	rootCmd.AddCommand(replayCmd)
}

// replayName labels a replay, truncating to the name limit on a rune boundary.
func replayName(name string) string {
	r := []rune(name + " (replay)")
	if len(r) > models.MaxNameLength {
		r = r[:models.MaxNameLength]
	}
	return string(r)
}

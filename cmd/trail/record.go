// ABOUTME: Trail record command
// ABOUTME: Records a path from newline-delimited JSON position fixes

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/position"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:     "record",
	Aliases: []string{"rec"},
	Short:   "Record a path from a position feed",
	Long: `Record a path from newline-delimited JSON fixes read from a file or stdin.

Each line is an object with latitude/longitude (or lat/lng) and optional
altitude, accuracy, heading, speed and timestamp (epoch milliseconds).
Recording stops at the end of the input or on Ctrl-C, and the path is saved.

Examples:
  trail record --input ride.jsonl --name "Lakefront ride"
  gpspipe -w | jq -c 'select(.class=="TPV") | {lat, lon, alt}' | trail record
  trail record --input ride.jsonl --metrics-addr :9090
  trail record --input test.jsonl --discard`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		r, closeInput, err := openInput(input, cmd.InOrStdin())
		if err != nil {
			return err
		}
		defer closeInput()

		opts, err := sessionFlags(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src := position.NewStreamSource(svc.Bus(), r, logger)
		p, err := runSession(ctx, cmd.OutOrStdout(), src, opts)
		if err != nil {
			return fmt.Errorf("recording failed: %w", err)
		}
		printOutcome(cmd.OutOrStdout(), p, opts.discard)
		return nil
	},
}

// openInput opens the named file, or returns stdin for "" and "-".
func openInput(name string, stdin io.Reader) (io.Reader, func(), error) {
	if name == "" || name == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(name) //nolint:gosec // user-specified input file
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// sessionFlags reads the flags shared by record and replay.
func sessionFlags(cmd *cobra.Command) (sessionOptions, error) {
	opts := sessionOptions{tracking: position.DefaultOptions()}

	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		if err := models.ValidateName(name); err != nil {
			return opts, err
		}
		opts.details.Name = &name
	}
	if cmd.Flags().Changed("description") {
		description, _ := cmd.Flags().GetString("description")
		opts.details.Description = &description
	}
	opts.discard, _ = cmd.Flags().GetBool("discard")
	opts.quiet, _ = cmd.Flags().GetBool("quiet")
	opts.metricsAddr, _ = cmd.Flags().GetString("metrics-addr")
	return opts, nil
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "path name (default: derived from the start time)")
	cmd.Flags().String("description", "", "path description")
	cmd.Flags().Bool("discard", false, "cancel the recording instead of saving it")
	cmd.Flags().BoolP("quiet", "q", false, "do not print live stats")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address while recording")
}

func init() {
	recordCmd.Flags().StringP("input", "i", "", "JSON-lines input file (default: stdin)")
	addSessionFlags(recordCmd)

	rootCmd.AddCommand(recordCmd)
}

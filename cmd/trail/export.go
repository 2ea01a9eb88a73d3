// ABOUTME: Export command for generating GeoJSON and JSON output
// ABOUTME: Exports one path or every stored path for map viewers and scripts

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/harper/trail/internal/geojson"
	"github.com/harper/trail/internal/models"
	"github.com/spf13/cobra"
)

const (
	formatGeoJSON = "geojson"
	formatJSON    = "json"
)

var exportCmd = &cobra.Command{
	Use:     "export [id]",
	Aliases: []string{"e"},
	Short:   "Export paths as GeoJSON or JSON",
	Long: `Export a path, or all paths, as GeoJSON or as the stored JSON record.

GeoJSON output holds a LineString track plus start and end markers per path,
and opens in any map viewer (geojson.io, QGIS, kepler.gl).

Examples:
  trail export 3f2a9c1e
  trail export 3f2a9c1e --format json
  trail export --format geojson --output all.geojson`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != formatGeoJSON && format != formatJSON {
			return fmt.Errorf("unsupported format: %s (use 'geojson' or 'json')", format)
		}

		var selected []*models.Path
		if len(args) == 1 {
			p, err := resolvePath(cmd, args[0])
			if err != nil {
				return err
			}
			selected = []*models.Path{p}
		} else {
			all, err := svc.GetAllPaths(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("failed to list paths: %w", err)
			}
			if len(all) == 0 {
				return fmt.Errorf("no paths found")
			}
			selected = all
		}

		data, err := encodePaths(selected, format, len(args) == 1)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		return writeOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), output, data,
			fmt.Sprintf("%d paths", len(selected)))
	},
}

func encodePaths(selected []*models.Path, format string, single bool) ([]byte, error) {
	if format == formatJSON {
		var v interface{} = selected
		if single {
			v = selected[0]
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to generate JSON: %w", err)
		}
		return data, nil
	}

	fc := geojson.FromPaths(selected)
	data, err := fc.ToJSONIndent()
	if err != nil {
		return nil, fmt.Errorf("failed to generate GeoJSON: %w", err)
	}
	return data, nil
}

// writeOutput writes data to the named file, or to out when output is empty.
func writeOutput(out, errOut io.Writer, output string, data []byte, what string) error {
	if output == "" {
		_, err := fmt.Fprintln(out, string(data))
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for data export files
		return fmt.Errorf("failed to write file: %w", err)
	}
	_, _ = fmt.Fprintf(errOut, "Wrote %s to %s\n", what, output)
	return nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", formatGeoJSON, "output format (geojson, json)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}

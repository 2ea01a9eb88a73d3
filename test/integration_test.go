// ABOUTME: Integration tests for full workflow
// ABOUTME: Builds the trail binary and drives record, list, rename, export and remove end-to-end

package test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const rideJSONL = `{"lat":41.8781,"lng":-87.6298,"timestamp":1714564800000}
{"lat":41.8881,"lng":-87.6298,"timestamp":1714565100000}
{"lat":41.8981,"lng":-87.6298,"timestamp":1714565400000}
`

func TestFullWorkflow(t *testing.T) {
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}

	binary := filepath.Join(t.TempDir(), "trail")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/trail")
	buildCmd.Dir = projectRoot
	buildOutput, err := buildCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to build: %v\nOutput: %s", err, buildOutput)
	}

	for _, backend := range []string{"badger", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			runWorkflow(t, binary, backend)
		})
	}
}

func runWorkflow(t *testing.T, binary, backend string) {
	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"TRAIL_DATA_DIR="+filepath.Join(tmpDir, "data"),
		"TRAIL_BACKEND="+backend,
	)

	run := func(stdin string, args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		cmd.Stdin = strings.NewReader(stdin)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return stdout.String() + stderr.String(), err
		}
		return stdout.String(), nil
	}

	// Record from stdin
	output, err := run(rideJSONL, "record", "--name", "Lakefront", "--quiet")
	if err != nil {
		t.Fatalf("Failed to record: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Saved") {
		t.Errorf("Expected saved message, got %s", output)
	}

	// List should show the path
	output, err = run("", "list")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Lakefront") || !strings.Contains(output, "2.22 km") {
		t.Errorf("Expected Lakefront with distance in list, got %s", output)
	}

	// Export as JSON to learn the id
	output, err = run("", "export", "--format", "json")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	var paths []struct {
		ID     string `json:"id"`
		Points []any  `json:"points"`
	}
	if err := json.Unmarshal([]byte(output), &paths); err != nil {
		t.Fatalf("Export is not JSON: %v\n%s", err, output)
	}
	if len(paths) != 1 || len(paths[0].Points) != 3 {
		t.Fatalf("Expected one path with 3 points, got %s", output)
	}
	id := paths[0].ID

	// Rename by id prefix
	output, err = run("", "rename", id[:8], "--name", "Lakefront ride")
	if err != nil {
		t.Fatalf("Failed to rename: %v\n%s", err, output)
	}

	output, err = run("", "show", id)
	if err != nil {
		t.Fatalf("Failed to show: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Lakefront ride") {
		t.Errorf("Expected new name in show output, got %s", output)
	}

	// GeoJSON export
	output, err = run("", "export", id)
	if err != nil {
		t.Fatalf("Failed to export geojson: %v\n%s", err, output)
	}
	if !strings.Contains(output, "LineString") {
		t.Errorf("Expected LineString in GeoJSON, got %s", output)
	}

	// Remove
	output, err = run("", "remove", id, "--confirm")
	if err != nil {
		t.Fatalf("Failed to remove: %v\n%s", err, output)
	}

	output, err = run("", "list")
	if err != nil {
		t.Fatalf("Failed to list after remove: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No paths recorded yet") {
		t.Errorf("Expected empty list after remove, got %s", output)
	}
}

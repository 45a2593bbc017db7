package convert

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

// DefaultToolName is the external converter looked up on PATH.
const DefaultToolName = "ulog2kml"

// toolOutputName is the fixed filename the external converter emits in
// its working directory; its presence after a zero exit is the success
// contract.
const toolOutputName = "track.kml"

// ExternalTool is the first conversion tier: an external command-line
// converter invoked with the log path, working directory set to the
// output directory. Its product is renamed to the canonical name.
type ExternalTool struct {
	// Tool is the executable name; DefaultToolName when empty.
	Tool string
	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

// NewExternalTool returns the tier-1 strategy for the given tool name.
func NewExternalTool(tool string) *ExternalTool {
	if tool == "" {
		tool = DefaultToolName
	}
	return &ExternalTool{Tool: tool, lookPath: exec.LookPath}
}

func (e *ExternalTool) Name() string { return "external" }

// Attempt runs the tool and claims its fixed-name output. A nonzero
// exit or a missing output file is a tier failure carrying the tool's
// captured diagnostics.
func (e *ExternalTool) Attempt(inputPath, outDir string, _ models.EventSink) (string, error) {
	toolPath, err := e.lookPath(e.Tool)
	if err != nil {
		return "", fmt.Errorf("%w: %s not on PATH", ErrUnavailable, e.Tool)
	}

	cmd := exec.Command(toolPath, inputPath)
	cmd.Dir = outDir
	output, runErr := cmd.CombinedOutput()

	produced := filepath.Join(outDir, toolOutputName)
	if runErr != nil {
		os.Remove(produced) // drop any partial product
		return "", fmt.Errorf("%s exited with error: %v (output: %s)", e.Tool, runErr, strings.TrimSpace(string(output)))
	}
	if _, err := os.Stat(produced); err != nil {
		return "", fmt.Errorf("%s exited cleanly but produced no %s (output: %s)", e.Tool, toolOutputName, strings.TrimSpace(string(output)))
	}

	target, err := reserveOutputPath(outDir, inputPath)
	if err != nil {
		os.Remove(produced)
		return "", err
	}
	if err := moveFile(produced, target); err != nil {
		releaseOutputPath(target)
		os.Remove(produced)
		return "", fmt.Errorf("placing converter output: %w", err)
	}
	return target, nil
}

// moveFile renames src onto dst, falling back to copy-then-delete for
// cross-filesystem moves.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	os.Remove(src)
	return nil
}

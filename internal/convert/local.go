package convert

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

// localEntryPoint invokes the library's documented conversion entry
// point with (input, output) paths.
const localEntryPoint = `import sys
from pyulog.ulog2kml import convert_ulog2kml
convert_ulog2kml(sys.argv[1], sys.argv[2])
`

// LocalLibrary is the second conversion tier: a locally vendored pyulog
// checkout driven through the Python interpreter. Unlike the external
// tool it writes the canonical output path directly, no file juggling.
type LocalLibrary struct {
	// Root is the library checkout directory. The tier is unavailable
	// when it does not exist.
	Root string
	// Python is the interpreter command, "python3" by default.
	Python string
	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

// NewLocalLibrary returns the tier-2 strategy for a library checkout.
func NewLocalLibrary(root, python string) *LocalLibrary {
	if python == "" {
		python = "python3"
	}
	return &LocalLibrary{Root: root, Python: python, lookPath: exec.LookPath}
}

func (l *LocalLibrary) Name() string { return "local" }

// Attempt converts input into a freshly reserved canonical output path.
func (l *LocalLibrary) Attempt(inputPath, outDir string, _ models.EventSink) (string, error) {
	if l.Root == "" {
		return "", fmt.Errorf("%w: no local library configured", ErrUnavailable)
	}
	if info, err := os.Stat(l.Root); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: library not found at %s", ErrUnavailable, l.Root)
	}
	python, err := l.lookPath(l.Python)
	if err != nil {
		return "", fmt.Errorf("%w: %s not on PATH", ErrUnavailable, l.Python)
	}

	target, err := reserveOutputPath(outDir, inputPath)
	if err != nil {
		return "", err
	}

	cmd := exec.Command(python, "-c", localEntryPoint, inputPath, target)
	cmd.Env = append(os.Environ(), "PYTHONPATH="+l.Root)
	output, runErr := cmd.CombinedOutput()
	if runErr != nil {
		releaseOutputPath(target)
		return "", fmt.Errorf("local library conversion failed: %v (output: %s)", runErr, strings.TrimSpace(string(output)))
	}
	if info, err := os.Stat(target); err != nil || info.Size() == 0 {
		releaseOutputPath(target)
		return "", fmt.Errorf("local library exited cleanly but wrote no output")
	}
	return target, nil
}

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// reserveOutputPath picks the canonical output name for an input log
// ("<base>.kml", then "<base>-1.kml", "-2", ...) and reserves it by
// creating the file with O_EXCL, so two conversions racing on the same
// directory can never claim the same name. The returned path exists as
// an empty file; callers overwrite it on success and must release it
// via releaseOutputPath on failure.
func reserveOutputPath(outDir, inputPath string) (string, error) {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	for i := 0; ; i++ {
		name := stem + ".kml"
		if i > 0 {
			name = fmt.Sprintf("%s-%d.kml", stem, i)
		}
		path := filepath.Join(outDir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return path, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("reserving output name: %w", err)
		}
	}
}

// releaseOutputPath removes a reserved name after a failed tier so no
// empty artifact survives the failure.
func releaseOutputPath(path string) {
	os.Remove(path)
}

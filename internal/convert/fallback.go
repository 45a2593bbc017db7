package convert

import (
	"fmt"

	"github.com/beaglesim/flightlog-backend-go/internal/extract"
	"github.com/beaglesim/flightlog-backend-go/internal/kml"
	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

// Fallback is the last conversion tier: decode the log in-process and
// write the track ourselves. Always available; its failure is the
// overall conversion failure.
type Fallback struct {
	// Stride controls downsampling; extract.DefaultStride when <= 0.
	Stride int
}

func (f *Fallback) Name() string { return "fallback" }

// Attempt extracts the position track and serializes it with the
// distinctive fallback styling so a manually-recovered track is easy to
// tell apart from converter output.
func (f *Fallback) Attempt(inputPath, outDir string, sink models.EventSink) (string, error) {
	track, err := extract.TrackFromULog(inputPath, f.Stride)
	if err != nil {
		return "", fmt.Errorf("decoding flight log: %w", err)
	}
	sink.Emit(models.EventInfo, fmt.Sprintf("decoded %d position samples from log", len(track.Samples)))

	target, err := reserveOutputPath(outDir, inputPath)
	if err != nil {
		return "", err
	}
	if err := kml.WriteTrack(target, track); err != nil {
		releaseOutputPath(target)
		return "", err
	}
	return target, nil
}

package service

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/beaglesim/flightlog-backend-go/internal/extract"
	"github.com/beaglesim/flightlog-backend-go/internal/models"
	"github.com/beaglesim/flightlog-backend-go/internal/spatial"
)

// ImportService extracts launch coordinates from planning documents and
// validates coordinates entered by hand. Both paths apply the same
// plausibility heuristic, and a swap is always reported as an event,
// never applied silently.
type ImportService struct{}

// NewImportService creates a new import service
func NewImportService() *ImportService {
	return &ImportService{}
}

// ImportCoordinates extracts a coordinate pair from a .plan or .kml
// document, normalizing with the swap heuristic. The returned flag
// reports whether a swap happened. extract.ErrNoCoordinates comes back
// unwrapped so callers can treat it as a warning rather than a failure.
func (s *ImportService) ImportCoordinates(path string, sink models.EventSink) (models.CoordinatePair, bool, error) {
	var (
		pair models.CoordinatePair
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".plan":
		pair, err = extract.FromPlan(path)
	case ".kml":
		pair, err = extract.FromKML(path)
	default:
		return models.CoordinatePair{}, false, fmt.Errorf("unsupported planning document %q: want .plan or .kml", filepath.Base(path))
	}
	if err != nil {
		return models.CoordinatePair{}, false, err
	}

	pair, swapped := s.normalize(pair, sink)
	sink.Emit(models.EventInfo, fmt.Sprintf("imported coordinates from %s: lat=%.8f, lon=%.8f",
		filepath.Base(path), pair.Latitude, pair.Longitude))
	return pair, swapped, nil
}

// ValidateLaunch rechecks a coordinate pair right before launch: both
// values must be finite, and the swap heuristic is applied once more in
// case the values were edited after import.
func (s *ImportService) ValidateLaunch(lat, lon float64, sink models.EventSink) (models.CoordinatePair, bool, error) {
	if !spatial.Finite(lat) || !spatial.Finite(lon) {
		return models.CoordinatePair{}, false, fmt.Errorf("invalid launch coordinates (%v, %v)", lat, lon)
	}
	pair, swapped := s.normalize(models.CoordinatePair{Latitude: lat, Longitude: lon}, sink)
	return pair, swapped, nil
}

func (s *ImportService) normalize(pair models.CoordinatePair, sink models.EventSink) (models.CoordinatePair, bool) {
	lat, lon, swapped := spatial.NormalizeLatLon(pair.Latitude, pair.Longitude)
	if swapped {
		log.Printf("[IMPORT] coordinates automatically swapped (lat assumed > lon)")
		sink.Emit(models.EventSwapApplied, "coordinates automatically swapped (lat assumed > lon)")
	}
	return models.CoordinatePair{Latitude: lat, Longitude: lon}, swapped
}

package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/beaglesim/flightlog-backend-go/internal/convert"
	"github.com/beaglesim/flightlog-backend-go/internal/kml"
	"github.com/beaglesim/flightlog-backend-go/internal/models"
	"github.com/beaglesim/flightlog-backend-go/internal/repository"
	"github.com/beaglesim/flightlog-backend-go/internal/spatial"
)

// ConvertService runs the conversion chain and records every outcome in
// the conversion history.
type ConvertService struct {
	converter *convert.Converter
	repo      *repository.ConversionRepository
}

// NewConvertService creates a new convert service. The repository may
// be nil for history-less callers such as tests.
func NewConvertService(converter *convert.Converter, repo *repository.ConversionRepository) *ConvertService {
	return &ConvertService{converter: converter, repo: repo}
}

// Convert converts one flight log into outDir and persists the outcome.
// Progress events are both forwarded to the given sink and returned so
// a synchronous caller can replay them. The returned record carries the
// failure reason instead of an error; only persistence problems error.
func (s *ConvertService) Convert(inputPath, outDir string, sink models.EventSink) (*models.ConversionRecord, []models.Event, error) {
	var events []models.Event
	collect := func(e models.Event) {
		events = append(events, e)
		log.Printf("[CONVERT] %s: %s", e.Kind, e.Message)
		if sink != nil {
			sink(e)
		}
	}

	start := time.Now()
	out, method, err := s.converter.Convert(inputPath, outDir, collect)

	rec := &models.ConversionRecord{
		InputPath:  inputPath,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Status = models.StatusFailure
		rec.Reason = err.Error()
	} else {
		rec.Status = models.StatusSuccess
		rec.OutputPath = out
		rec.Method = method
		if stats, ok := statsFromOutput(out); ok {
			rec.Points = stats.Points
			rec.DistanceM = stats.DistanceM
		}
	}

	if s.repo != nil {
		if err := s.repo.Insert(rec); err != nil {
			return nil, events, fmt.Errorf("failed to record conversion: %w", err)
		}
	}
	return rec, events, nil
}

// GetConversion retrieves a single history entry.
func (s *ConvertService) GetConversion(id int64) (*models.ConversionRecord, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("conversion not found")
	}
	return rec, nil
}

// ListConversions retrieves history entries with pagination defaults.
func (s *ConvertService) ListConversions(filter models.ConversionFilter) (*models.ConversionsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	records, total, err := s.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}

	return &models.ConversionsResponse{
		Data:       records,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

// statsFromOutput summarizes the produced file when it is parseable as
// a linestring track. External converters may emit richer documents;
// a parse failure just means no stats.
func statsFromOutput(path string) (models.TrackStats, bool) {
	track, err := kml.ParseTrack(path)
	if err != nil {
		return models.TrackStats{}, false
	}
	return spatial.TrackStats(track), true
}

package extract

import (
	"fmt"
	"path/filepath"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
	"github.com/beaglesim/flightlog-backend-go/internal/spatial"
	"github.com/beaglesim/flightlog-backend-go/internal/ulog"
)

// DefaultStride keeps every 5th sample when downsampling a recording.
const DefaultStride = 5

// Position topics, in preference order. vehicle_gps_position stores
// lat/lon as 1e7-scaled integers; altitude is used as stored.
const (
	topicGlobalPosition = "vehicle_global_position"
	topicGPSPosition    = "vehicle_gps_position"
	gpsScale            = 1e7
)

// TrackFromULog decodes the preferred position topic of the flight log
// at path into a downsampled track. Indices 0, stride, 2*stride, … are
// visited; a visited sample with non-finite latitude or longitude is
// dropped without shifting later visit indices. A missing or non-finite
// altitude decodes as 0.
//
// Returns ErrNoPositionTopic when neither position topic is present and
// ErrEmptyTrack when downsampling and filtering leave no samples.
func TrackFromULog(path string, stride int) (*models.Track, error) {
	if stride < 1 {
		stride = DefaultStride
	}

	l, err := ulog.OpenTopics(path, topicGlobalPosition, topicGPSPosition)
	if err != nil {
		return nil, fmt.Errorf("opening flight log: %w", err)
	}

	scale := 1.0
	topic, ok := l.Topic(topicGlobalPosition)
	if !ok {
		topic, ok = l.Topic(topicGPSPosition)
		scale = gpsScale
	}
	if !ok {
		return nil, ErrNoPositionTopic
	}

	lat, latOK := topic.Values("lat")
	lon, lonOK := topic.Values("lon")
	if !latOK || !lonOK {
		return nil, ErrNoPositionTopic
	}
	alt, altOK := topic.Values("alt")

	track := &models.Track{Name: filepath.Base(path)}
	for i := 0; i < len(lat); i += stride {
		la := lat[i] / scale
		lo := lon[i] / scale
		if !spatial.Finite(la) || !spatial.Finite(lo) {
			continue
		}
		al := 0.0
		if altOK && i < len(alt) && spatial.Finite(alt[i]) {
			al = alt[i]
		}
		track.Samples = append(track.Samples, models.PositionSample{
			Longitude: lo,
			Latitude:  la,
			Altitude:  al,
		})
	}

	if len(track.Samples) == 0 {
		return nil, ErrEmptyTrack
	}
	return track, nil
}

package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

// Earth's mean radius.
const (
	EarthRadiusMeters = 6371000.0
	EarthRadiusKm     = 6371.0
)

// HaversineDistance calculates the great-circle distance between two
// points in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// TrackLength sums the great-circle distance along consecutive samples
// of a track, in meters. Altitude is ignored.
func TrackLength(track *models.Track) float64 {
	total := 0.0
	for i := 1; i < len(track.Samples); i++ {
		a, b := track.Samples[i-1], track.Samples[i]
		total += HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	}
	return total
}

// TrackStats computes the summary stored with a conversion record.
func TrackStats(track *models.Track) models.TrackStats {
	stats := models.TrackStats{Points: len(track.Samples)}
	if stats.Points == 0 {
		return stats
	}
	stats.DistanceM = TrackLength(track)
	first := track.Samples[0]
	stats.MinLat, stats.MaxLat = first.Latitude, first.Latitude
	stats.MinLon, stats.MaxLon = first.Longitude, first.Longitude
	for _, s := range track.Samples[1:] {
		if s.Latitude < stats.MinLat {
			stats.MinLat = s.Latitude
		}
		if s.Latitude > stats.MaxLat {
			stats.MaxLat = s.Latitude
		}
		if s.Longitude < stats.MinLon {
			stats.MinLon = s.Longitude
		}
		if s.Longitude > stats.MaxLon {
			stats.MaxLon = s.Longitude
		}
	}
	return stats
}

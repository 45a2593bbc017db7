package spatial

import (
	"math"
	"testing"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

func TestNormalizeLatLon(t *testing.T) {
	tests := []struct {
		name             string
		lat, lon         float64
		wantLat, wantLon float64
		wantSwap         bool
	}{
		{"already plausible", 52.5163, 13.3777, 52.5163, 13.3777, false},
		{"entered reversed", 13.3777, 52.5163, 52.5163, 13.3777, true},
		{"equal magnitudes untouched", 45, 45, 45, 45, false},
		{"negative longitude dominates", 10, -80, -80, 10, true},
		{"southern hemisphere plausible", -33.8688, 18.4241, -33.8688, 18.4241, false},
		// Documented limitation: both values are valid coordinates but
		// the magnitude rule swaps them anyway.
		{"valid equatorial pair still swapped", 10, 80, 80, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, swapped := NormalizeLatLon(tt.lat, tt.lon)
			if lat != tt.wantLat || lon != tt.wantLon || swapped != tt.wantSwap {
				t.Errorf("NormalizeLatLon(%v, %v) = (%v, %v, %v), want (%v, %v, %v)",
					tt.lat, tt.lon, lat, lon, swapped, tt.wantLat, tt.wantLon, tt.wantSwap)
			}
		})
	}
}

func TestFinite(t *testing.T) {
	if Finite(math.NaN()) || Finite(math.Inf(1)) || Finite(math.Inf(-1)) {
		t.Error("non-finite value reported finite")
	}
	if !Finite(0) || !Finite(-180) {
		t.Error("finite value reported non-finite")
	}
}

func TestTrackStats(t *testing.T) {
	track := &models.Track{Samples: []models.PositionSample{
		{Latitude: 52.0, Longitude: 13.0, Altitude: 100},
		{Latitude: 52.0, Longitude: 13.1, Altitude: 110},
		{Latitude: 52.1, Longitude: 13.05, Altitude: 120},
	}}
	stats := TrackStats(track)
	if stats.Points != 3 {
		t.Fatalf("Points = %d, want 3", stats.Points)
	}
	if stats.DistanceM <= 0 {
		t.Errorf("DistanceM = %v, want > 0", stats.DistanceM)
	}
	if stats.MinLat != 52.0 || stats.MaxLat != 52.1 || stats.MinLon != 13.0 || stats.MaxLon != 13.1 {
		t.Errorf("bounds = (%v..%v, %v..%v)", stats.MinLat, stats.MaxLat, stats.MinLon, stats.MaxLon)
	}

	// ~7km of longitude at latitude 52 plus ~11km of latitude; sanity
	// bound rather than exact value.
	if stats.DistanceM < 15000 || stats.DistanceM > 25000 {
		t.Errorf("DistanceM = %v, outside plausible range", stats.DistanceM)
	}

	if empty := TrackStats(&models.Track{}); empty.Points != 0 || empty.DistanceM != 0 {
		t.Errorf("empty track stats = %+v", empty)
	}
}

func TestHaversineDistance(t *testing.T) {
	// Berlin -> Munich, roughly 504 km.
	d := HaversineDistance(52.5200, 13.4050, 48.1351, 11.5820)
	if d < 480000 || d > 530000 {
		t.Errorf("Berlin-Munich = %v m, want ~504 km", d)
	}
	if HaversineDistance(10, 20, 10, 20) != 0 {
		t.Error("distance to self not zero")
	}
}

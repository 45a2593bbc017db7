package spatial

import "math"

// NormalizeLatLon applies the coordinate plausibility heuristic: when
// the latitude's magnitude is smaller than the longitude's, the two are
// assumed to have been entered in the wrong order and are swapped.
// The swap is reported through the returned flag so callers can surface
// it as an informational notice rather than a silent correction.
//
// Known limitation: the comparison ignores the ±90° latitude bound, so
// a genuinely valid pair like (10, 80) is still swapped. Kept for
// compatibility with the established import behavior.
func NormalizeLatLon(lat, lon float64) (float64, float64, bool) {
	if math.Abs(lat) < math.Abs(lon) {
		return lon, lat, true
	}
	return lat, lon, false
}

// Finite reports whether v is a usable coordinate value (neither NaN
// nor infinite).
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

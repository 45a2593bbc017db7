// Package extract pulls geographic data out of mission planning files
// (QGroundControl .plan, KML) and recorded ULog flights.
package extract

import "errors"

// ErrNoCoordinates is returned when a planning document is readable but
// carries no usable coordinate data. This is an expected, recoverable
// condition reported to the user as a warning, not a failure.
var ErrNoCoordinates = errors.New("no suitable coordinates found")

// Binary-log decode failures, terminal for the fallback conversion tier.
var (
	ErrNoPositionTopic = errors.New("no GPS/global position topics found in log")
	ErrEmptyTrack      = errors.New("no valid GPS samples extracted from log")
)

package models

// PositionSample is a single recorded vehicle position in decimal
// degrees and meters. Altitude is 0 when the source topic carries no
// altitude channel.
type PositionSample struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Altitude  float64 `json:"altitude"`
}

// Track is an ordered sequence of position samples; insertion order is
// the chronological order of the source recording.
type Track struct {
	Name    string           `json:"name"`
	Samples []PositionSample `json:"samples"`
}

// CoordinatePair is a (latitude, longitude) pair in decimal degrees,
// as extracted from a planning document.
type CoordinatePair struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TrackStats summarizes a converted track for the conversion history.
type TrackStats struct {
	Points    int     `json:"points"`
	DistanceM float64 `json:"distanceM"`
	MinLat    float64 `json:"minLat"`
	MaxLat    float64 `json:"maxLat"`
	MinLon    float64 `json:"minLon"`
	MaxLon    float64 `json:"maxLon"`
}

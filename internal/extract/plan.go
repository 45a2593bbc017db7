package extract

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

// planFile mirrors the parts of a QGroundControl .plan document we
// read: the ordered mission items and the planned home position.
type planFile struct {
	Mission struct {
		Items               []map[string]any `json:"items"`
		PlannedHomePosition []any            `json:"plannedHomePosition"`
	} `json:"mission"`
}

// FromPlan extracts a launch coordinate pair from a .plan document.
// The first mission item carrying both param5 and param6 (the MAVLink
// convention for target latitude/longitude) wins; otherwise the
// plannedHomePosition [lat, lon, ...] array is used. Returns
// ErrNoCoordinates when neither yields a numeric pair. The plausibility
// heuristic is the caller's concern.
func FromPlan(path string) (models.CoordinatePair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.CoordinatePair{}, err
	}
	var plan planFile
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.CoordinatePair{}, fmt.Errorf("parsing plan file: %w", err)
	}

	for _, item := range plan.Mission.Items {
		p5, ok5 := item["param5"]
		p6, ok6 := item["param6"]
		if !ok5 || !ok6 {
			continue
		}
		// Items often carry null params (e.g. a takeoff item before a
		// home fix); the first carrier decides, numeric or not.
		lat, latOK := p5.(float64)
		lon, lonOK := p6.(float64)
		if latOK && lonOK {
			return models.CoordinatePair{Latitude: lat, Longitude: lon}, nil
		}
		break
	}

	php := plan.Mission.PlannedHomePosition
	if len(php) >= 2 {
		lat, latOK := php[0].(float64)
		lon, lonOK := php[1].(float64)
		if latOK && lonOK {
			return models.CoordinatePair{Latitude: lat, Longitude: lon}, nil
		}
	}

	return models.CoordinatePair{}, ErrNoCoordinates
}

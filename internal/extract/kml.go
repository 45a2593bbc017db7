package extract

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/beaglesim/flightlog-backend-go/internal/kml"
	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

// FromKML extracts a coordinate pair from a KML document. The first
// Point geometry in the KML 2.2 namespace is preferred; when no Point
// exists, the first element whose tag contains "coordinates" with text
// content is used instead. KML stores tuples as lon,lat[,alt], so the
// returned pair is order-swapped into (lat, lon). Returns
// ErrNoCoordinates when nothing parseable is present.
func FromKML(path string) (models.CoordinatePair, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.CoordinatePair{}, err
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	pointDepth := 0
	sawPoint := false
	inPointCoords := false
	looseText := "" // first non-Point "coordinates"-ish element text

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == kml.Namespace && t.Name.Local == "Point":
				pointDepth++
				sawPoint = true
			case pointDepth > 0 && t.Name.Space == kml.Namespace && t.Name.Local == "coordinates":
				inPointCoords = true
			case pointDepth == 0 && strings.Contains(t.Name.Local, "coordinates"):
				if looseText == "" {
					var text string
					if err := dec.DecodeElement(&text, &t); err == nil {
						looseText = strings.TrimSpace(text)
					}
				}
			}
		case xml.EndElement:
			if t.Name.Space == kml.Namespace && t.Name.Local == "Point" {
				pointDepth--
			}
			if t.Name.Local == "coordinates" {
				inPointCoords = false
			}
		case xml.CharData:
			if inPointCoords {
				text := strings.TrimSpace(string(t))
				if text == "" {
					continue
				}
				// Only the first tuple of the Point is relevant.
				return pairFromTuple(strings.Fields(text)[0])
			}
		}
	}

	// A Point that yielded nothing is terminal; the loose scan only
	// applies to documents without any Point geometry.
	if !sawPoint && looseText != "" {
		return pairFromTuple(looseText)
	}
	return models.CoordinatePair{}, ErrNoCoordinates
}

// pairFromTuple parses "lon,lat[,alt...]" and returns (lat, lon).
func pairFromTuple(tuple string) (models.CoordinatePair, error) {
	parts := strings.Split(tuple, ",")
	if len(parts) < 2 {
		return models.CoordinatePair{}, ErrNoCoordinates
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return models.CoordinatePair{}, fmt.Errorf("%w: unparsable tuple %q", ErrNoCoordinates, tuple)
	}
	return models.CoordinatePair{Latitude: lat, Longitude: lon}, nil
}

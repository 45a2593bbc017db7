// Package kml writes and reads the subset of KML 2.2 used for flight
// tracks: one named LineString placemark with absolute altitudes.
package kml

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

const Namespace = "http://www.opengis.net/kml/2.2"

// Style of the manually-recovered fallback track: opaque red
// (KML aabbggrr order), wide enough to stand out from converter output.
const (
	fallbackStyleID   = "fallbackTrack"
	fallbackLineColor = "ff0000ff"
	fallbackLineWidth = 4
)

type lineStyle struct {
	Color string `xml:"color"`
	Width int    `xml:"width"`
}

type style struct {
	ID        string    `xml:"id,attr"`
	LineStyle lineStyle `xml:"LineStyle"`
}

type lineString struct {
	Tessellate   int    `xml:"tessellate"`
	AltitudeMode string `xml:"altitudeMode"`
	Coordinates  string `xml:"coordinates"`
}

type placemark struct {
	Name       string     `xml:"name"`
	StyleURL   string     `xml:"styleUrl,omitempty"`
	LineString lineString `xml:"LineString"`
}

type document struct {
	Styles     []style     `xml:"Style"`
	Placemarks []placemark `xml:"Placemark"`
}

type kmlRoot struct {
	XMLName  xml.Name `xml:"kml"`
	Xmlns    string   `xml:"xmlns,attr"`
	Document document `xml:"Document"`
}

// WriteTrack serializes the track as a single LineString placemark with
// the distinctive fallback style and writes it to path. The coordinate
// list is lon,lat,alt in sample order.
func WriteTrack(path string, track *models.Track) error {
	var coords strings.Builder
	for i, s := range track.Samples {
		if i > 0 {
			coords.WriteByte(' ')
		}
		coords.WriteString(formatCoord(s.Longitude))
		coords.WriteByte(',')
		coords.WriteString(formatCoord(s.Latitude))
		coords.WriteByte(',')
		coords.WriteString(formatCoord(s.Altitude))
	}

	root := kmlRoot{
		Xmlns: Namespace,
		Document: document{
			Styles: []style{{
				ID:        fallbackStyleID,
				LineStyle: lineStyle{Color: fallbackLineColor, Width: fallbackLineWidth},
			}},
			Placemarks: []placemark{{
				Name:     track.Name,
				StyleURL: "#" + fallbackStyleID,
				LineString: lineString{
					Tessellate:   1,
					AltitudeMode: "absolute",
					Coordinates:  coords.String(),
				},
			}},
		},
	}

	data, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling kml: %w", err)
	}
	data = append([]byte(xml.Header), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing kml: %w", err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseTrack reads back a track written as a LineString placemark.
// Used for post-conversion statistics and round-trip verification;
// tolerant of output from external converters as long as a LineString
// coordinate list is present.
func ParseTrack(path string) (*models.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root kmlRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing kml: %w", err)
	}
	for _, pm := range root.Document.Placemarks {
		samples, err := parseCoordinates(pm.LineString.Coordinates)
		if err != nil {
			return nil, err
		}
		if len(samples) > 0 {
			return &models.Track{Name: pm.Name, Samples: samples}, nil
		}
	}
	return nil, fmt.Errorf("no linestring placemark in %s", path)
}

func parseCoordinates(text string) ([]models.PositionSample, error) {
	var samples []models.PositionSample
	for _, tuple := range strings.Fields(text) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate tuple %q: %w", tuple, err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate tuple %q: %w", tuple, err)
		}
		alt := 0.0
		if len(parts) >= 3 {
			if a, err := strconv.ParseFloat(parts[2], 64); err == nil {
				alt = a
			}
		}
		samples = append(samples, models.PositionSample{Longitude: lon, Latitude: lat, Altitude: alt})
	}
	return samples, nil
}

package convert

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/beaglesim/flightlog-backend-go/internal/extract"
	"github.com/beaglesim/flightlog-backend-go/internal/kml"
	"github.com/beaglesim/flightlog-backend-go/internal/models"
	"github.com/beaglesim/flightlog-backend-go/internal/ulog/ulogtest"
)

const globalFmt = "vehicle_global_position:uint64_t timestamp;double lat;double lon;float alt;"

func buildFlightLog(t *testing.T, n int) string {
	t.Helper()
	b := ulogtest.New().Format(globalFmt).Subscribe(1, 0, "vehicle_global_position")
	for i := 0; i < n; i++ {
		b.Data(1, ulogtest.GlobalPositionRecord(uint64(i),
			47.39+float64(i)*0.0001, 8.54+float64(i)*0.0001, float32(488+i)))
	}
	return b.WriteFile(t, t.TempDir(), "mission.ulg")
}

func TestFallbackRoundTrip(t *testing.T) {
	input := buildFlightLog(t, 23)
	outDir := t.TempDir()

	f := &Fallback{Stride: 5}
	out, err := f.Attempt(input, outDir, nil)
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if filepath.Base(out) != "mission.kml" {
		t.Errorf("out = %q, want mission.kml", out)
	}

	track, err := kml.ParseTrack(out)
	if err != nil {
		t.Fatalf("re-parsing output: %v", err)
	}
	// ceil(23/5) = 5 visited indices, all finite.
	if len(track.Samples) != 5 {
		t.Fatalf("samples = %d, want 5", len(track.Samples))
	}
	// Values survive the write/parse round trip exactly for the
	// shortest-representation formatting used by the writer.
	want, err := extract.TrackFromULog(input, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want.Samples {
		if math.Abs(track.Samples[i].Latitude-want.Samples[i].Latitude) > 1e-12 ||
			math.Abs(track.Samples[i].Longitude-want.Samples[i].Longitude) > 1e-12 {
			t.Errorf("sample %d = %+v, want %+v", i, track.Samples[i], want.Samples[i])
		}
	}
}

func TestFallbackEmptyLogFails(t *testing.T) {
	b := ulogtest.New().Format(globalFmt).Subscribe(1, 0, "vehicle_global_position")
	input := b.WriteFile(t, t.TempDir(), "empty.ulg")
	outDir := t.TempDir()

	f := &Fallback{}
	_, err := f.Attempt(input, outDir, nil)
	if !errors.Is(err, extract.ErrEmptyTrack) {
		t.Fatalf("err = %v, want ErrEmptyTrack", err)
	}
	// Never a zero-length but "successful" track file.
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Errorf("failure left %d files behind", len(entries))
	}
}

func TestFallbackNoPositionTopic(t *testing.T) {
	b := ulogtest.New().
		Format("sensor_baro:uint64_t timestamp;float pressure;").
		Subscribe(1, 0, "sensor_baro")
	input := b.WriteFile(t, t.TempDir(), "baro.ulg")

	f := &Fallback{}
	if _, err := f.Attempt(input, t.TempDir(), nil); !errors.Is(err, extract.ErrNoPositionTopic) {
		t.Fatalf("err = %v, want ErrNoPositionTopic", err)
	}
}

// Full chain: external tool absent, local library absent, fallback
// carries the conversion; then a decode failure becomes the overall
// result.
func TestChainFallsThroughToFallback(t *testing.T) {
	input := buildFlightLog(t, 12)
	outDir := t.TempDir()

	ext := NewExternalTool("")
	ext.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	local := NewLocalLibrary(filepath.Join(t.TempDir(), "nowhere"), "")

	var events []models.Event
	c := New(ext, local, &Fallback{Stride: 5})
	out, method, err := c.Convert(input, outDir, func(e models.Event) { events = append(events, e) })
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if filepath.Base(out) != "mission.kml" {
		t.Errorf("out = %q", out)
	}
	if method != "fallback" {
		t.Errorf("method = %q, want fallback", method)
	}

	var skips int
	for _, e := range events {
		if e.Kind == models.EventTierSkipped {
			skips++
		}
	}
	if skips != 2 {
		t.Errorf("skips = %d, want 2 (external and local both unavailable)", skips)
	}

	// Same chain against a log with no usable samples: structured
	// failure, wrapped with context, nothing written.
	bad := ulogtest.New().Format(globalFmt).Subscribe(1, 0, "vehicle_global_position").
		WriteFile(t, t.TempDir(), "dead.ulg")
	emptyOut := t.TempDir()
	if _, _, err := c.Convert(bad, emptyOut, nil); !errors.Is(err, extract.ErrEmptyTrack) {
		t.Fatalf("err = %v, want wrapped ErrEmptyTrack", err)
	}
	entries, _ := os.ReadDir(emptyOut)
	if len(entries) != 0 {
		t.Errorf("failed conversion left %d files behind", len(entries))
	}
}

// Converting the same log twice into one directory yields suffixed
// names, never an overwrite.
func TestChainNamingIdempotence(t *testing.T) {
	input := buildFlightLog(t, 10)
	outDir := t.TempDir()
	c := New(&Fallback{Stride: 5})

	first, _, err := c.Convert(input, outDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := c.Convert(input, outDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	third, _, err := c.Convert(input, outDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(first) != "mission.kml" ||
		filepath.Base(second) != "mission-1.kml" ||
		filepath.Base(third) != "mission-2.kml" {
		t.Errorf("names = %q, %q, %q", first, second, third)
	}
}

package ulog

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/beaglesim/flightlog-backend-go/internal/ulog/ulogtest"
)

const globalFmt = "vehicle_global_position:uint64_t timestamp;double lat;double lon;float alt;"

func TestOpenTopicsGlobalPosition(t *testing.T) {
	dir := t.TempDir()
	b := ulogtest.New().
		Format(globalFmt).
		Subscribe(7, 0, "vehicle_global_position").
		Data(7, ulogtest.GlobalPositionRecord(1, 52.5163, 13.3777, 34.5)).
		Data(7, ulogtest.GlobalPositionRecord(2, 52.5164, 13.3778, 35.0))
	path := b.WriteFile(t, dir, "flight.ulg")

	l, err := OpenTopics(path, "vehicle_global_position")
	if err != nil {
		t.Fatalf("OpenTopics: %v", err)
	}
	topic, ok := l.Topic("vehicle_global_position")
	if !ok {
		t.Fatal("topic not found")
	}
	if topic.Len() != 2 {
		t.Fatalf("Len = %d, want 2", topic.Len())
	}

	lat, ok := topic.Values("lat")
	if !ok {
		t.Fatal("lat field not found")
	}
	lon, _ := topic.Values("lon")
	alt, _ := topic.Values("alt")
	if lat[0] != 52.5163 || lon[0] != 13.3777 {
		t.Errorf("record 0 = (%v, %v), want (52.5163, 13.3777)", lat[0], lon[0])
	}
	if math.Abs(alt[1]-35.0) > 1e-6 {
		t.Errorf("alt[1] = %v, want 35.0", alt[1])
	}
}

func TestOpenTopicsFiltersUnwanted(t *testing.T) {
	dir := t.TempDir()
	b := ulogtest.New().
		Format(globalFmt).
		Format("sensor_accel:uint64_t timestamp;float x;").
		Subscribe(1, 0, "sensor_accel").
		Subscribe(2, 0, "vehicle_global_position").
		Data(1, make([]byte, 12)).
		Data(2, ulogtest.GlobalPositionRecord(1, 1, 2, 3))
	path := b.WriteFile(t, dir, "flight.ulg")

	l, err := OpenTopics(path, "vehicle_global_position")
	if err != nil {
		t.Fatalf("OpenTopics: %v", err)
	}
	if _, ok := l.Topic("sensor_accel"); ok {
		t.Error("unrequested topic retained")
	}
	topic, ok := l.Topic("vehicle_global_position")
	if !ok || topic.Len() != 1 {
		t.Fatalf("wanted topic missing or wrong length")
	}
}

func TestOpenTopicsKeepsFirstInstance(t *testing.T) {
	dir := t.TempDir()
	b := ulogtest.New().
		Format(globalFmt).
		Subscribe(3, 0, "vehicle_global_position").
		Subscribe(4, 1, "vehicle_global_position").
		Data(3, ulogtest.GlobalPositionRecord(1, 10, 20, 0)).
		Data(4, ulogtest.GlobalPositionRecord(1, 99, 99, 0))
	path := b.WriteFile(t, dir, "multi.ulg")

	l, err := OpenTopics(path, "vehicle_global_position")
	if err != nil {
		t.Fatalf("OpenTopics: %v", err)
	}
	topic, _ := l.Topic("vehicle_global_position")
	if topic.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (first instance only)", topic.Len())
	}
	lat, _ := topic.Values("lat")
	if lat[0] != 10 {
		t.Errorf("lat[0] = %v, want 10 from the first instance", lat[0])
	}
}

func TestOpenTopicsTruncatedTail(t *testing.T) {
	dir := t.TempDir()
	b := ulogtest.New().
		Format(globalFmt).
		Subscribe(7, 0, "vehicle_global_position").
		Data(7, ulogtest.GlobalPositionRecord(1, 48.1, 11.5, 500)).
		Raw([]byte{0xFF, 0x7F, 'D'}) // announces a record that never arrives
	path := b.WriteFile(t, dir, "truncated.ulg")

	l, err := OpenTopics(path, "vehicle_global_position")
	if err != nil {
		t.Fatalf("OpenTopics on truncated log: %v", err)
	}
	topic, _ := l.Topic("vehicle_global_position")
	if topic.Len() != 1 {
		t.Fatalf("Len = %d, want 1", topic.Len())
	}
}

func TestOpenTopicsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := ulogtest.New().WriteFile(t, dir, "ok.ulg")
	if _, err := OpenTopics(path); err != nil {
		t.Fatalf("valid empty log rejected: %v", err)
	}

	bad := ulogtest.New()
	raw := bad.Bytes()
	raw[0] = 'X'
	badPath := filepath.Join(dir, "bad.ulg")
	if err := os.WriteFile(badPath, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenTopics(badPath); err == nil {
		t.Error("bad magic accepted")
	}
}

func TestValuesShortRecordIsNaN(t *testing.T) {
	dir := t.TempDir()
	b := ulogtest.New().
		Format(globalFmt).
		Subscribe(7, 0, "vehicle_global_position").
		Data(7, ulogtest.GlobalPositionRecord(1, 1, 2, 3)[:20]) // alt cut off
	path := b.WriteFile(t, dir, "short.ulg")

	l, err := OpenTopics(path, "vehicle_global_position")
	if err != nil {
		t.Fatal(err)
	}
	topic, _ := l.Topic("vehicle_global_position")
	alt, ok := topic.Values("alt")
	if !ok {
		t.Fatal("alt lookup failed")
	}
	if !math.IsNaN(alt[0]) {
		t.Errorf("alt[0] = %v, want NaN for short record", alt[0])
	}
	if lat, _ := topic.Values("lat"); lat[0] != 1 {
		t.Errorf("lat[0] = %v, want 1", lat[0])
	}
}

func TestValuesRejectsArraysAndMissing(t *testing.T) {
	dir := t.TempDir()
	b := ulogtest.New().
		Format("esc_status:uint64_t timestamp;float[4] rpm;float temp;").
		Subscribe(9, 0, "esc_status").
		Data(9, make([]byte, 28))
	path := b.WriteFile(t, dir, "esc.ulg")

	l, err := OpenTopics(path, "esc_status")
	if err != nil {
		t.Fatal(err)
	}
	topic, _ := l.Topic("esc_status")
	if _, ok := topic.Values("rpm"); ok {
		t.Error("array field decoded as scalar")
	}
	if _, ok := topic.Values("nope"); ok {
		t.Error("missing field reported present")
	}
	// Scalar behind the array still decodes: offset skips the array.
	if _, ok := topic.Values("temp"); !ok {
		t.Error("scalar after array not found")
	}
}

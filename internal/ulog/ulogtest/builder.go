// Package ulogtest builds minimal ULog files in memory for tests.
package ulogtest

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Builder accumulates ULog messages after a valid file header.
type Builder struct {
	buf []byte
}

// New returns a builder primed with the ULog file header.
func New() *Builder {
	b := &Builder{}
	b.buf = append(b.buf, 0x55, 0x4C, 0x6F, 0x67, 0x01, 0x12, 0x35) // magic
	b.buf = append(b.buf, 0x01)                                     // version
	b.buf = append(b.buf, make([]byte, 8)...)                       // timestamp
	return b
}

func (b *Builder) msg(typ byte, payload []byte) *Builder {
	var hdr [3]byte
	binary.LittleEndian.PutUint16(hdr[:2], uint16(len(payload)))
	hdr[2] = typ
	b.buf = append(b.buf, hdr[:]...)
	b.buf = append(b.buf, payload...)
	return b
}

// Format appends an 'F' format definition, e.g.
// Format("vehicle_global_position:uint64_t timestamp;double lat;double lon;float alt;").
func (b *Builder) Format(def string) *Builder {
	return b.msg('F', []byte(def))
}

// Subscribe appends an 'A' add-subscription for the named topic.
func (b *Builder) Subscribe(msgID uint16, multiID uint8, name string) *Builder {
	payload := make([]byte, 3+len(name))
	payload[0] = multiID
	binary.LittleEndian.PutUint16(payload[1:3], msgID)
	copy(payload[3:], name)
	return b.msg('A', payload)
}

// Data appends a 'D' data record with the given payload bytes.
func (b *Builder) Data(msgID uint16, payload []byte) *Builder {
	body := make([]byte, 2+len(payload))
	binary.LittleEndian.PutUint16(body[:2], msgID)
	copy(body[2:], payload)
	return b.msg('D', body)
}

// Raw appends arbitrary bytes, for corrupt-tail scenarios.
func (b *Builder) Raw(p []byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// Bytes returns the assembled file contents.
func (b *Builder) Bytes() []byte { return b.buf }

// WriteFile writes the log into dir and returns its path.
func (b *Builder) WriteFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.buf, 0o644); err != nil {
		t.Fatalf("writing test ulog: %v", err)
	}
	return path
}

// GlobalPositionRecord encodes a vehicle_global_position record for the
// format "uint64_t timestamp;double lat;double lon;float alt;".
func GlobalPositionRecord(ts uint64, lat, lon float64, alt float32) []byte {
	p := make([]byte, 8+8+8+4)
	binary.LittleEndian.PutUint64(p[0:], ts)
	binary.LittleEndian.PutUint64(p[8:], math.Float64bits(lat))
	binary.LittleEndian.PutUint64(p[16:], math.Float64bits(lon))
	binary.LittleEndian.PutUint32(p[24:], math.Float32bits(alt))
	return p
}

// GPSPositionRecord encodes a vehicle_gps_position record for the
// format "uint64_t timestamp;int32_t lat;int32_t lon;int32_t alt;",
// with lat/lon in 1e7-scaled degrees.
func GPSPositionRecord(ts uint64, lat, lon, alt int32) []byte {
	p := make([]byte, 8+4+4+4)
	binary.LittleEndian.PutUint64(p[0:], ts)
	binary.LittleEndian.PutUint32(p[8:], uint32(lat))
	binary.LittleEndian.PutUint32(p[12:], uint32(lon))
	binary.LittleEndian.PutUint32(p[16:], uint32(alt))
	return p
}

// Package ulog reads the PX4 ULog container far enough to answer
// "give me the numeric values of field X across topic Y". It decodes
// the message framing, format definitions and subscriptions, and keeps
// raw data records only for the topics the caller asked for; full
// schema decoding is intentionally out of scope.
package ulog

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ULog file magic: "ULog" followed by 0x01 0x12 0x35.
var magic = []byte{0x55, 0x4C, 0x6F, 0x67, 0x01, 0x12, 0x35}

// Message types consumed by the reader. Everything else is skipped.
const (
	msgFlagBits     = 'B'
	msgFormat       = 'F'
	msgAddLogged    = 'A'
	msgRemoveLogged = 'R'
	msgData         = 'D'
)

// Sizes of the ULog basic types. A format field whose type is not in
// this map refers to another format (nested type).
var basicSize = map[string]int{
	"int8_t": 1, "uint8_t": 1, "bool": 1, "char": 1,
	"int16_t": 2, "uint16_t": 2,
	"int32_t": 4, "uint32_t": 4, "float": 4,
	"int64_t": 8, "uint64_t": 8, "double": 8,
}

type field struct {
	typ   string
	name  string
	count int // 1 for scalars, n for type[n]
}

// Topic holds the format and raw data records of one logged subscription.
type Topic struct {
	Name    string
	log     *Log
	fields  []field
	records [][]byte
}

// Log is a parsed ULog file restricted to the requested topics.
type Log struct {
	formats map[string][]field
	topics  map[string]*Topic
}

// OpenTopics parses the ULog file at path, retaining data records only
// for the named topics. Only the first logged instance of each topic is
// kept, matching the multi-instance behavior of the reference tooling.
// A truncated tail (power-loss logs) terminates parsing without error.
func OpenTopics(path string, names ...string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	r := bufio.NewReaderSize(f, 1<<16)
	header := make([]byte, 16)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading ulog header: %w", err)
	}
	if !bytes.Equal(header[:7], magic) {
		return nil, fmt.Errorf("not a ULog file: bad magic")
	}

	l := &Log{
		formats: make(map[string][]field),
		topics:  make(map[string]*Topic),
	}
	// msg_id -> topic currently subscribed; only wanted topics appear.
	subs := make(map[uint16]*Topic)

	hdr := make([]byte, 3)
	for {
		if _, err := io.ReadFull(r, hdr); err != nil {
			break // clean or truncated end of stream
		}
		size := int(binary.LittleEndian.Uint16(hdr[:2]))
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			break
		}

		switch hdr[2] {
		case msgFormat:
			name, fields, err := parseFormat(string(payload))
			if err != nil {
				return nil, err
			}
			l.formats[name] = fields
		case msgAddLogged:
			if size < 3 {
				continue
			}
			msgID := binary.LittleEndian.Uint16(payload[1:3])
			name := string(payload[3:])
			if !wanted[name] {
				continue
			}
			if _, seen := l.topics[name]; seen {
				continue // later multi_id instance, ignore
			}
			t := &Topic{Name: name, log: l, fields: l.formats[name]}
			l.topics[name] = t
			subs[msgID] = t
		case msgRemoveLogged:
			if size >= 2 {
				delete(subs, binary.LittleEndian.Uint16(payload[:2]))
			}
		case msgData:
			if size < 2 {
				continue
			}
			if t, ok := subs[binary.LittleEndian.Uint16(payload[:2])]; ok {
				t.records = append(t.records, payload[2:])
			}
		}
	}

	return l, nil
}

// parseFormat parses a format definition of the form
// "name:type0 field0;type1 field1;".
func parseFormat(def string) (string, []field, error) {
	name, rest, ok := strings.Cut(def, ":")
	if !ok {
		return "", nil, fmt.Errorf("malformed ulog format definition %q", def)
	}
	var fields []field
	for _, fd := range strings.Split(rest, ";") {
		fd = strings.TrimSpace(fd)
		if fd == "" {
			continue
		}
		typ, fname, ok := strings.Cut(fd, " ")
		if !ok {
			return "", nil, fmt.Errorf("malformed field %q in format %q", fd, name)
		}
		count := 1
		if i := strings.IndexByte(typ, '['); i >= 0 {
			n, err := strconv.Atoi(strings.TrimSuffix(typ[i+1:], "]"))
			if err != nil {
				return "", nil, fmt.Errorf("malformed array type %q in format %q", typ, name)
			}
			count = n
			typ = typ[:i]
		}
		fields = append(fields, field{typ: typ, name: fname, count: count})
	}
	return name, fields, nil
}

// Topic returns the named topic if it was requested and present.
func (l *Log) Topic(name string) (*Topic, bool) {
	t, ok := l.topics[name]
	return t, ok && t.fields != nil
}

// sizeOf resolves the encoded size of a type, recursing into nested
// format definitions. Returns false for unknown types.
func (l *Log) sizeOf(typ string) (int, bool) {
	if n, ok := basicSize[typ]; ok {
		return n, true
	}
	fields, ok := l.formats[typ]
	if !ok {
		return 0, false
	}
	total := 0
	for _, f := range fields {
		n, ok := l.sizeOf(f.typ)
		if !ok {
			return 0, false
		}
		total += n * f.count
	}
	return total, true
}

// Len returns the number of data records logged for the topic.
func (t *Topic) Len() int { return len(t.records) }

// Values decodes the named scalar field across every record of the
// topic, returning one float64 per record. Records too short to hold
// the field (trimmed trailing padding) yield NaN. Returns false when
// the field does not exist, is an array, or sits behind a field of
// unresolvable size.
func (t *Topic) Values(name string) ([]float64, bool) {
	offset := 0
	var typ string
	found := false
	for _, f := range t.fields {
		if f.name == name {
			if f.count != 1 {
				return nil, false
			}
			typ = f.typ
			found = true
			break
		}
		n, ok := t.log.sizeOf(f.typ)
		if !ok {
			return nil, false
		}
		offset += n * f.count
	}
	if !found {
		return nil, false
	}
	width, ok := basicSize[typ]
	if !ok {
		return nil, false
	}

	out := make([]float64, len(t.records))
	for i, rec := range t.records {
		if offset+width > len(rec) {
			out[i] = math.NaN()
			continue
		}
		out[i] = decodeScalar(typ, rec[offset:offset+width])
	}
	return out, true
}

func decodeScalar(typ string, b []byte) float64 {
	switch typ {
	case "int8_t":
		return float64(int8(b[0]))
	case "uint8_t", "bool", "char":
		return float64(b[0])
	case "int16_t":
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case "uint16_t":
		return float64(binary.LittleEndian.Uint16(b))
	case "int32_t":
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case "uint32_t":
		return float64(binary.LittleEndian.Uint32(b))
	case "int64_t":
		return float64(int64(binary.LittleEndian.Uint64(b)))
	case "uint64_t":
		return float64(binary.LittleEndian.Uint64(b))
	case "float":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case "double":
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return math.NaN()
}

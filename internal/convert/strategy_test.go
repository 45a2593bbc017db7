package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

// fakeStrategy scripts one tier of the chain.
type fakeStrategy struct {
	name   string
	out    string
	err    error
	called bool
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Attempt(inputPath, outDir string, sink models.EventSink) (string, error) {
	f.called = true
	return f.out, f.err
}

func testInput(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "flight.ulg")
	if err := os.WriteFile(input, []byte("log"), 0o644); err != nil {
		t.Fatal(err)
	}
	return input, t.TempDir()
}

func collectEvents(events *[]models.Event) models.EventSink {
	return func(e models.Event) { *events = append(*events, e) }
}

func TestConvertFirstSuccessWins(t *testing.T) {
	input, outDir := testInput(t)
	s1 := &fakeStrategy{name: "external", out: "/out/a.kml"}
	s2 := &fakeStrategy{name: "local"}

	out, method, err := New(s1, s2).Convert(input, outDir, nil)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out != "/out/a.kml" || method != "external" {
		t.Errorf("out, method = %q, %q", out, method)
	}
	if s2.called {
		t.Error("later tier attempted after success")
	}
}

func TestConvertAdvancesThroughChain(t *testing.T) {
	input, outDir := testInput(t)
	s1 := &fakeStrategy{name: "external", err: fmt.Errorf("%w: not on PATH", ErrUnavailable)}
	s2 := &fakeStrategy{name: "local", err: errors.New("library blew up")}
	s3 := &fakeStrategy{name: "fallback", out: "/out/b.kml"}

	var events []models.Event
	out, method, err := New(s1, s2, s3).Convert(input, outDir, collectEvents(&events))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out != "/out/b.kml" || method != "fallback" {
		t.Errorf("out, method = %q, %q", out, method)
	}
	if !s1.called || !s2.called || !s3.called {
		t.Error("not every tier was attempted")
	}

	// Every tier transition is visible to the caller: three starts,
	// one skip (unavailable), one failure.
	var starts, skips, fails int
	for _, e := range events {
		switch e.Kind {
		case models.EventTierStart:
			starts++
		case models.EventTierSkipped:
			skips++
		case models.EventTierFailed:
			fails++
		}
	}
	if starts != 3 || skips != 1 || fails != 1 {
		t.Errorf("events = %d starts, %d skips, %d fails; want 3/1/1", starts, skips, fails)
	}
}

func TestConvertLastFailurePropagates(t *testing.T) {
	input, outDir := testInput(t)
	decodeErr := errors.New("no GPS/global position topics found in log")
	s1 := &fakeStrategy{name: "external", err: ErrUnavailable}
	s2 := &fakeStrategy{name: "fallback", err: decodeErr}

	_, _, err := New(s1, s2).Convert(input, outDir, nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !errors.Is(err, decodeErr) {
		t.Errorf("err = %v, want wrapped final tier error", err)
	}
}

func TestConvertAllUnavailable(t *testing.T) {
	input, outDir := testInput(t)
	_, _, err := New(&fakeStrategy{name: "external", err: ErrUnavailable}).Convert(input, outDir, nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestConvertIOErrorsFailImmediately(t *testing.T) {
	s := &fakeStrategy{name: "external", out: "/out/x.kml"}

	_, outDir := testInput(t)
	if _, _, err := New(s).Convert(filepath.Join(outDir, "absent.ulg"), outDir, nil); err == nil {
		t.Error("unreadable input accepted")
	}
	if s.called {
		t.Error("tier attempted despite input I/O error")
	}

	input, _ := testInput(t)
	if _, _, err := New(s).Convert(input, filepath.Join(outDir, "missing-dir"), nil); err == nil {
		t.Error("missing output directory accepted")
	}
	if s.called {
		t.Error("tier attempted despite output I/O error")
	}
}

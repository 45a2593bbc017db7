// Package convert turns a recorded flight log into a KML track file
// using an ordered chain of conversion strategies: an external
// command-line converter, a local conversion library, and finally the
// in-process decoder. The first strategy to produce a file wins.
package convert

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

// ErrUnavailable signals that a strategy's tool or library is not
// present on this system. It advances the chain and is never surfaced
// as the overall failure on its own.
var ErrUnavailable = errors.New("converter unavailable")

// Strategy is one ranked conversion attempt. Attempt either produces
// the output file and returns its path, returns ErrUnavailable, or
// returns the failure that made the tier unusable for this input. A
// failed Attempt must not leave partial output behind.
type Strategy interface {
	Name() string
	Attempt(inputPath, outDir string, sink models.EventSink) (string, error)
}

// Converter walks an ordered strategy chain. The zero value is not
// usable; construct with New.
type Converter struct {
	strategies []Strategy
}

// New builds a converter over the given chain, in attempt order.
func New(strategies ...Strategy) *Converter {
	return &Converter{strategies: strategies}
}

// Convert runs the chain for one input log and returns the output path
// together with the name of the strategy that produced it. I/O
// preconditions shared by every tier (readable input, writable output
// directory) are checked once up front and fail immediately without
// fallback. Each tier transition is reported through the sink before
// the next attempt.
func (c *Converter) Convert(inputPath, outDir string, sink models.EventSink) (string, string, error) {
	if err := checkIO(inputPath, outDir); err != nil {
		return "", "", err
	}

	var lastErr error
	for _, s := range c.strategies {
		sink.Emit(models.EventTierStart, fmt.Sprintf("trying %s converter", s.Name()))
		out, err := s.Attempt(inputPath, outDir, sink)
		if err == nil {
			return out, s.Name(), nil
		}
		if errors.Is(err, ErrUnavailable) {
			sink.Emit(models.EventTierSkipped, fmt.Sprintf("%s converter unavailable, trying next method", s.Name()))
			continue
		}
		lastErr = err
		log.Printf("[CONVERT] %s converter failed: %v", s.Name(), err)
		sink.Emit(models.EventTierFailed, fmt.Sprintf("%s converter failed: %v; trying next method", s.Name(), err))
	}

	if lastErr == nil {
		lastErr = ErrUnavailable
	}
	return "", "", fmt.Errorf("all conversion methods failed: %w", lastErr)
}

// checkIO validates the filesystem prerequisites every tier shares.
func checkIO(inputPath, outDir string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("input log not readable: %w", err)
	}
	f.Close()

	info, err := os.Stat(outDir)
	if err != nil {
		return fmt.Errorf("output directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", outDir)
	}
	probe, err := os.CreateTemp(outDir, ".convert-probe-*")
	if err != nil {
		return fmt.Errorf("output directory not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

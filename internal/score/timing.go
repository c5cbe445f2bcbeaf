package score

import (
	"fmt"
	"math"
)

const (
	// TicksPerBeat is the pulses-per-beat resolution used for every score
	// file this package writes.
	TicksPerBeat = 960

	secondsPerMinute = 60.0
)

// BeatsToSeconds converts a beat offset to absolute seconds at the given
// tempo. Fails for non-positive tempo.
func BeatsToSeconds(tempo int, beats float64) (float64, error) {
	if tempo <= 0 {
		return 0, fmt.Errorf("%w: %d bpm", ErrInvalidTempo, tempo)
	}
	return beats * secondsPerMinute / float64(tempo), nil
}

// BeatsToTicks quantizes a beat offset to the shared tick resolution.
func BeatsToTicks(beats float64) uint32 {
	return uint32(math.Round(beats * TicksPerBeat))
}

// TicksToBeats converts an absolute tick position back to beats.
func TicksToBeats(ticks uint32) float64 {
	return float64(ticks) / TicksPerBeat
}

package score

import (
	"fmt"

	"github.com/verseforge/verseforge-api/internal/models"
)

// Normalize returns a copy of seq that occupies exactly targetBeats.
//
// Short sequences get a trailing rest; existing notes are never stretched.
// Long sequences are truncated: a final note overlapping the target is
// shortened, events starting at or past the target are dropped.
//
// An empty input degrades to a full-length rest. The returned sequence is
// still valid in that case; the accompanying ErrEmptySequence lets the
// caller log the degradation without aborting.
func Normalize(seq *models.NoteSequence, targetBeats float64) (*models.NoteSequence, error) {
	if targetBeats <= 0 {
		return nil, fmt.Errorf("normalize: target must be positive, got %v beats", targetBeats)
	}

	if len(seq.Events) == 0 {
		out := seq.Clone()
		out.Events = []models.NoteEvent{{Pitch: 0, StartBeats: 0, DurationBeats: targetBeats}}
		return out, fmt.Errorf("%w: padded to %v beats of rest", ErrEmptySequence, targetBeats)
	}

	out := seq.Clone()
	total := out.TotalBeats()

	switch {
	case total < targetBeats:
		out.Events = append(out.Events, models.NoteEvent{
			Pitch:         0,
			StartBeats:    total,
			DurationBeats: targetBeats - total,
		})
	case total > targetBeats:
		kept := out.Events[:0]
		for _, e := range out.Events {
			if e.StartBeats >= targetBeats {
				continue
			}
			if e.EndBeats() > targetBeats {
				e.DurationBeats = targetBeats - e.StartBeats
				if e.DurationBeats <= 0 {
					continue
				}
			}
			kept = append(kept, e)
		}
		out.Events = kept
		// Truncation can leave the sequence ending early when the dropped
		// tail carried all the remaining time.
		if remaining := out.TotalBeats(); remaining < targetBeats {
			out.Events = append(out.Events, models.NoteEvent{
				Pitch:         0,
				StartBeats:    remaining,
				DurationBeats: targetBeats - remaining,
			})
		}
	}

	return out, nil
}

package score

import (
	"errors"
	"testing"

	"github.com/verseforge/verseforge-api/internal/models"
)

func seq(events ...models.NoteEvent) *models.NoteSequence {
	return &models.NoteSequence{Tempo: 120, Key: "C", Scale: "major", Events: events}
}

func note(pitch int, start, dur float64) models.NoteEvent {
	return models.NoteEvent{Pitch: pitch, StartBeats: start, DurationBeats: dur}
}

func TestNormalizeLengthContract(t *testing.T) {
	tests := []struct {
		name   string
		input  *models.NoteSequence
		target float64
	}{
		{name: "short sequence padded", input: seq(note(60, 0, 2)), target: 8},
		{name: "exact sequence untouched", input: seq(note(60, 0, 4), note(62, 4, 4)), target: 8},
		{name: "long sequence truncated", input: seq(note(60, 0, 4), note(62, 4, 4), note(64, 8, 4)), target: 8},
		{name: "only rests", input: seq(note(0, 0, 3)), target: 8},
		{name: "sparse events with gaps", input: seq(note(60, 1, 1), note(64, 5, 0.5)), target: 8},
		{name: "tiny target", input: seq(note(60, 0, 4)), target: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input, tt.target)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if total := got.TotalBeats(); total != tt.target {
				t.Errorf("TotalBeats() = %v, want %v", total, tt.target)
			}
		})
	}
}

func TestNormalizeShortensOverlappingFinalNote(t *testing.T) {
	in := seq(note(60, 0, 4), note(62, 4, 6))
	got, err := Normalize(in, 8)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	last := got.Events[len(got.Events)-1]
	if last.Pitch != 62 {
		t.Fatalf("final note dropped, want it shortened: %+v", got.Events)
	}
	if last.DurationBeats != 4 {
		t.Errorf("final note duration = %v, want 4", last.DurationBeats)
	}
}

func TestNormalizeDropsNotesPastTarget(t *testing.T) {
	in := seq(note(60, 0, 8), note(62, 9, 2))
	got, err := Normalize(in, 8)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for _, e := range got.Events {
		if e.StartBeats >= 8 {
			t.Errorf("event past target survived: %+v", e)
		}
	}
	if total := got.TotalBeats(); total != 8 {
		t.Errorf("TotalBeats() = %v, want 8", total)
	}
}

func TestNormalizeNeverStretchesNotes(t *testing.T) {
	in := seq(note(60, 0, 2), note(62, 2, 1))
	got, err := Normalize(in, 16)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	for i, e := range got.Events[:2] {
		if e.DurationBeats != in.Events[i].DurationBeats {
			t.Errorf("note %d duration changed: %v -> %v", i, in.Events[i].DurationBeats, e.DurationBeats)
		}
	}
	pad := got.Events[len(got.Events)-1]
	if !pad.IsRest() || pad.StartBeats != 3 || pad.DurationBeats != 13 {
		t.Errorf("padding rest = %+v, want rest from 3 for 13 beats", pad)
	}
}

func TestNormalizeEmptySequence(t *testing.T) {
	got, err := Normalize(seq(), 8)
	if !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("error = %v, want ErrEmptySequence", err)
	}
	if got == nil {
		t.Fatal("expected a usable fallback sequence alongside ErrEmptySequence")
	}
	if total := got.TotalBeats(); total != 8 {
		t.Errorf("fallback TotalBeats() = %v, want 8", total)
	}
	if len(got.Events) != 1 || !got.Events[0].IsRest() {
		t.Errorf("fallback should be a single full-length rest, got %+v", got.Events)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := seq(note(60, 0, 2))
	if _, err := Normalize(in, 8); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(in.Events) != 1 {
		t.Errorf("input sequence mutated: %+v", in.Events)
	}
}

func TestNormalizeRejectsNonPositiveTarget(t *testing.T) {
	if _, err := Normalize(seq(note(60, 0, 1)), 0); err == nil {
		t.Error("expected error for zero target")
	}
}

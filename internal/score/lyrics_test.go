package score

import (
	"testing"

	"github.com/verseforge/verseforge-api/internal/models"
)

func vocalSeq(pitches ...int) *models.NoteSequence {
	s := &models.NoteSequence{Tempo: 120}
	start := 0.0
	for _, p := range pitches {
		s.Events = append(s.Events, models.NoteEvent{Pitch: p, StartBeats: start, DurationBeats: 1})
		start++
	}
	return s
}

func TestAlignLyricsDropsExcessWords(t *testing.T) {
	vocal := vocalSeq(60, 62, 64, 65)
	words := []string{"sun", "rise", "over", "town", "extra", "words"}

	got := AlignLyrics(words, vocal)

	if len(got) != 4 {
		t.Fatalf("got %d lyric events, want 4", len(got))
	}
	for i, l := range got {
		if l.Word != words[i] {
			t.Errorf("event %d word = %q, want %q", i, l.Word, words[i])
		}
		if l.StartBeats != float64(i) {
			t.Errorf("event %d start = %v, want %v", i, l.StartBeats, float64(i))
		}
	}
}

func TestAlignLyricsRestsConsumeNoWord(t *testing.T) {
	vocal := vocalSeq(60, 0, 62, 0, 64)
	got := AlignLyrics([]string{"one", "two", "three"}, vocal)

	if len(got) != 3 {
		t.Fatalf("got %d lyric events, want 3", len(got))
	}
	wantStarts := []float64{0, 2, 4}
	for i, l := range got {
		if l.StartBeats != wantStarts[i] {
			t.Errorf("event %d start = %v, want %v", i, l.StartBeats, wantStarts[i])
		}
	}
}

func TestAlignLyricsFewerWordsThanNotes(t *testing.T) {
	vocal := vocalSeq(60, 62, 64, 65)
	got := AlignLyrics([]string{"hold", "me"}, vocal)
	if len(got) != 2 {
		t.Fatalf("got %d lyric events, want 2", len(got))
	}
}

func TestAlignLyricsNoSoundingNotes(t *testing.T) {
	vocal := vocalSeq(0, 0, 0)
	if got := AlignLyrics([]string{"silent", "night"}, vocal); len(got) != 0 {
		t.Errorf("expected no lyric events for an all-rest line, got %d", len(got))
	}
}

func TestAlignLyricsNeverExceedsEitherCount(t *testing.T) {
	cases := []struct {
		words int
		notes int
	}{
		{words: 0, notes: 5},
		{words: 5, notes: 0},
		{words: 3, notes: 7},
		{words: 7, notes: 3},
	}
	for _, tc := range cases {
		words := make([]string, tc.words)
		for i := range words {
			words[i] = "la"
		}
		pitches := make([]int, tc.notes)
		for i := range pitches {
			pitches[i] = 60
		}
		got := AlignLyrics(words, vocalSeq(pitches...))
		max := tc.words
		if tc.notes < max {
			max = tc.notes
		}
		if len(got) > max {
			t.Errorf("words=%d notes=%d produced %d events", tc.words, tc.notes, len(got))
		}
	}
}

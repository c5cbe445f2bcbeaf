package score

import (
	"path/filepath"
	"testing"

	"github.com/verseforge/verseforge-api/internal/models"
)

func arrangedFixture(t *testing.T) *Document {
	t.Helper()
	tracks := scaleTracks()
	tracks[models.RoleHarmony] = quarterNotes(120, 48, 52, 55, 48)
	tracks[models.RoleVocal] = quarterNotes(120, 60, 62, 0, 64)
	drums := &models.NoteSequence{Tempo: 120}
	for i := 0; i < 8; i++ {
		drums.Events = append(drums.Events, models.NoteEvent{Pitch: 36, StartBeats: float64(i), DurationBeats: 0.25, Velocity: 110})
	}
	tracks[models.RoleDrums] = drums

	doc, err := Arrange(tracks, []string{"hey", "there", "you"})
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	return doc
}

type noteTuple struct {
	channel uint8
	pitch   uint8
	start   float64
	dur     float64
}

func tuples(doc *Document) map[noteTuple]int {
	out := map[noteTuple]int{}
	for _, e := range doc.Events {
		out[noteTuple{e.Channel, e.Pitch, e.StartBeats, e.DurationBeats}]++
	}
	return out
}

func TestScoreRoundTrip(t *testing.T) {
	doc := arrangedFixture(t)
	path := filepath.Join(t.TempDir(), "song.mid")

	if err := WriteScore(doc, path); err != nil {
		t.Fatalf("WriteScore: %v", err)
	}
	parsed, err := ReadScore(path)
	if err != nil {
		t.Fatalf("ReadScore: %v", err)
	}

	if parsed.Tempo != doc.Tempo {
		t.Errorf("tempo = %d, want %d", parsed.Tempo, doc.Tempo)
	}

	want := tuples(doc)
	got := tuples(parsed)
	if len(got) != len(want) {
		t.Fatalf("parsed %d distinct tuples, want %d", len(got), len(want))
	}
	for tup, n := range want {
		if got[tup] != n {
			t.Errorf("tuple %+v count = %d, want %d", tup, got[tup], n)
		}
	}
}

func TestScoreRoundTripLyrics(t *testing.T) {
	doc := arrangedFixture(t)
	path := filepath.Join(t.TempDir(), "song.mid")

	if err := WriteScore(doc, path); err != nil {
		t.Fatalf("WriteScore: %v", err)
	}
	parsed, err := ReadScore(path)
	if err != nil {
		t.Fatalf("ReadScore: %v", err)
	}

	if len(parsed.Lyrics) != len(doc.Lyrics) {
		t.Fatalf("parsed %d lyric events, want %d", len(parsed.Lyrics), len(doc.Lyrics))
	}
	for i, l := range parsed.Lyrics {
		if l.Word != doc.Lyrics[i].Word {
			t.Errorf("lyric %d = %q, want %q", i, l.Word, doc.Lyrics[i].Word)
		}
		if l.StartBeats != doc.Lyrics[i].StartBeats {
			t.Errorf("lyric %d start = %v, want %v", i, l.StartBeats, doc.Lyrics[i].StartBeats)
		}
	}
}

func TestVocalScoreContainsOnlyVocals(t *testing.T) {
	doc := arrangedFixture(t)
	path := filepath.Join(t.TempDir(), "vocals.mid")

	if err := WriteVocalScore(doc, path); err != nil {
		t.Fatalf("WriteVocalScore: %v", err)
	}
	parsed, err := ReadScore(path)
	if err != nil {
		t.Fatalf("ReadScore: %v", err)
	}

	for _, e := range parsed.Events {
		if e.Channel != ChannelVocal {
			t.Errorf("vocal score contains channel %d event %+v", e.Channel, e)
		}
	}
	if len(parsed.Events) != len(doc.ChannelEvents(ChannelVocal)) {
		t.Errorf("vocal score has %d events, want %d", len(parsed.Events), len(doc.ChannelEvents(ChannelVocal)))
	}
	if len(parsed.Lyrics) != len(doc.Lyrics) {
		t.Errorf("vocal score has %d lyric events, want %d", len(parsed.Lyrics), len(doc.Lyrics))
	}
}

func TestReadScoreMissingFile(t *testing.T) {
	if _, err := ReadScore(filepath.Join(t.TempDir(), "nope.mid")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSanitizeLyric(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "don’t", want: "don't"},
		{in: "“quoted”", want: `"quoted"`},
		{in: "dash—here", want: "dash-here"},
		{in: "plain", want: "plain"},
		{in: "héllo", want: "héllo"},
		{in: "note♪", want: "note"},
	}
	for _, tt := range tests {
		if got := sanitizeLyric(tt.in); got != tt.want {
			t.Errorf("sanitizeLyric(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package score

import (
	"errors"
	"testing"

	"github.com/verseforge/verseforge-api/internal/models"
)

func quarterNotes(tempo int, pitches ...int) *models.NoteSequence {
	s := &models.NoteSequence{Tempo: tempo, Key: "C", Scale: "major"}
	for i, p := range pitches {
		s.Events = append(s.Events, models.NoteEvent{Pitch: p, StartBeats: float64(i), DurationBeats: 1})
	}
	return s
}

func scaleTracks() map[models.Role]*models.NoteSequence {
	return map[models.Role]*models.NoteSequence{
		models.RoleMelody:       quarterNotes(120, 60, 62, 64, 65, 67, 69, 71, 72),
		models.RoleContinuation: quarterNotes(120, 62, 64, 66, 67, 69, 71, 73, 74),
	}
}

func findEvent(doc *Document, ch uint8, pitch uint8, start float64) bool {
	for _, e := range doc.Events {
		if e.Channel == ch && e.Pitch == pitch && e.StartBeats == start {
			return true
		}
	}
	return false
}

func TestArrangeLoopPlacement(t *testing.T) {
	doc, err := Arrange(scaleTracks(), nil)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}

	checks := []struct {
		name  string
		pitch uint8
		start float64
	}{
		{name: "melody opens at beat 0", pitch: 60, start: 0},
		{name: "continuation enters at beat 8", pitch: 62, start: 8},
		{name: "melody loops at beat 16", pitch: 60, start: 16},
		{name: "continuation loops at beat 24", pitch: 62, start: 24},
	}
	for _, c := range checks {
		if !findEvent(doc, ChannelMelody, c.pitch, c.start) {
			t.Errorf("%s: no event pitch %d at beat %v on channel 0", c.name, c.pitch, c.start)
		}
	}

	if doc.TotalBeats() != ArrangementBeats {
		t.Errorf("TotalBeats() = %v, want %v", doc.TotalBeats(), ArrangementBeats)
	}
	if doc.Tempo != 120 {
		t.Errorf("Tempo = %d, want inherited 120", doc.Tempo)
	}
}

func TestArrangeHarmonyEntersAtMeasureFive(t *testing.T) {
	tracks := scaleTracks()
	tracks[models.RoleHarmony] = quarterNotes(120, 48, 50, 52)

	doc, err := Arrange(tracks, nil)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}

	harmony := doc.ChannelEvents(ChannelHarmony)
	if len(harmony) != 3 {
		t.Fatalf("harmony events = %d, want 3", len(harmony))
	}
	if harmony[0].StartBeats != 16 {
		t.Errorf("first harmony event at beat %v, want 16", harmony[0].StartBeats)
	}
}

func TestArrangeMissingOptionalTracks(t *testing.T) {
	doc, err := Arrange(scaleTracks(), nil)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}

	for _, ch := range []uint8{ChannelHarmony, ChannelVocal, ChannelDrums} {
		if got := doc.ChannelEvents(ch); len(got) != 0 {
			t.Errorf("channel %d has %d events, want 0", ch, len(got))
		}
	}
	if doc.TotalBeats() != ArrangementBeats {
		t.Errorf("document length = %v, want %v", doc.TotalBeats(), ArrangementBeats)
	}
}

func TestArrangeMissingRequiredTrack(t *testing.T) {
	tests := []struct {
		name   string
		tracks map[models.Role]*models.NoteSequence
	}{
		{name: "no melody", tracks: map[models.Role]*models.NoteSequence{
			models.RoleContinuation: quarterNotes(120, 62),
		}},
		{name: "no continuation", tracks: map[models.Role]*models.NoteSequence{
			models.RoleMelody: quarterNotes(120, 60),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Arrange(tt.tracks, nil); !errors.Is(err, ErrMissingRequiredTrack) {
				t.Errorf("error = %v, want ErrMissingRequiredTrack", err)
			}
		})
	}
}

func TestArrangeInvalidTempo(t *testing.T) {
	tracks := scaleTracks()
	tracks[models.RoleMelody].Tempo = 0
	if _, err := Arrange(tracks, nil); !errors.Is(err, ErrInvalidTempo) {
		t.Errorf("error = %v, want ErrInvalidTempo", err)
	}
}

func TestArrangeDrumsKeepRelativeTiming(t *testing.T) {
	tracks := scaleTracks()
	drums := &models.NoteSequence{Tempo: 120}
	starts := []float64{0, 0.5, 1, 2.5, 17, 31.5}
	for _, s := range starts {
		drums.Events = append(drums.Events, models.NoteEvent{Pitch: 36, StartBeats: s, DurationBeats: 0.5, Velocity: 90})
	}
	tracks[models.RoleDrums] = drums

	doc, err := Arrange(tracks, nil)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}

	placed := doc.ChannelEvents(ChannelDrums)
	if len(placed) != len(starts) {
		t.Fatalf("drum events = %d, want %d", len(placed), len(starts))
	}
	for i, e := range placed {
		if e.StartBeats != starts[i] {
			t.Errorf("drum event %d at beat %v, want %v (loop logic must not shift drums)", i, e.StartBeats, starts[i])
		}
		if e.Velocity != 90 {
			t.Errorf("drum event %d velocity = %d, want 90", i, e.Velocity)
		}
	}
}

func TestArrangeVocalsGetLyrics(t *testing.T) {
	tracks := scaleTracks()
	tracks[models.RoleVocal] = quarterNotes(120, 60, 0, 62, 64)

	doc, err := Arrange(tracks, []string{"hello", "golden", "morning", "light"})
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}

	if len(doc.Lyrics) != 3 {
		t.Fatalf("lyric events = %d, want 3 (three sounding notes)", len(doc.Lyrics))
	}
	if doc.Lyrics[1].Word != "golden" || doc.Lyrics[1].StartBeats != 2 {
		t.Errorf("second lyric = %+v, want word %q at beat 2", doc.Lyrics[1], "golden")
	}
}

func TestArrangeEmptyOptionalTrackDegrades(t *testing.T) {
	tracks := scaleTracks()
	tracks[models.RoleDrums] = &models.NoteSequence{Tempo: 120}

	doc, err := Arrange(tracks, nil)
	if err != nil {
		t.Fatalf("Arrange should absorb an empty optional track, got %v", err)
	}
	if got := doc.ChannelEvents(ChannelDrums); len(got) != 0 {
		t.Errorf("empty drums produced %d events", len(got))
	}
}

func TestWithoutChannelFiltersVocals(t *testing.T) {
	tracks := scaleTracks()
	tracks[models.RoleVocal] = quarterNotes(120, 60, 62)

	doc, err := Arrange(tracks, []string{"la", "la"})
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}

	reduced := doc.WithoutChannel(ChannelVocal)
	if got := reduced.ChannelEvents(ChannelVocal); len(got) != 0 {
		t.Errorf("reduced document still has %d vocal events", len(got))
	}
	if len(reduced.Lyrics) != 0 {
		t.Errorf("reduced document still has %d lyric events", len(reduced.Lyrics))
	}
	if len(reduced.ChannelEvents(ChannelMelody)) != len(doc.ChannelEvents(ChannelMelody)) {
		t.Error("melody events changed by vocal filtering")
	}
}

func TestBindingFor(t *testing.T) {
	tests := []struct {
		role    models.Role
		channel uint8
	}{
		{role: models.RoleMelody, channel: 0},
		{role: models.RoleContinuation, channel: 0},
		{role: models.RoleHarmony, channel: 1},
		{role: models.RoleVocal, channel: 2},
		{role: models.RoleDrums, channel: 9},
	}
	for _, tt := range tests {
		b, err := BindingFor(tt.role)
		if err != nil {
			t.Fatalf("BindingFor(%s): %v", tt.role, err)
		}
		if b.Channel != tt.channel {
			t.Errorf("BindingFor(%s).Channel = %d, want %d", tt.role, b.Channel, tt.channel)
		}
	}

	if _, err := BindingFor(models.Role("theremin")); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("error = %v, want ErrUnknownRole", err)
	}

	drums, _ := BindingFor(models.RoleDrums)
	if drums.HasProgram {
		t.Error("percussion channel must not carry a program change")
	}
}

package score

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/verseforge/verseforge-api/internal/models"
)

const (
	BeatsPerMeasure     = 4
	ArrangementMeasures = 8

	// ArrangementBeats is the span of every arrangement, regardless of how
	// long the individual fragments came back.
	ArrangementBeats = float64(BeatsPerMeasure * ArrangementMeasures)

	sectionBeats = 2 * BeatsPerMeasure

	defaultVelocity = 100
)

// timelineSlot places one role's normalized sequence at an absolute beat
// offset. The slot table is the whole structural policy: measures 1-2
// melody, 3-4 continuation, 5-8 a loop of both with harmony entering at
// measure 5, drums and vocals spanning everything.
type timelineSlot struct {
	role      models.Role
	startBeat float64
	slotBeats float64
	required  bool
}

var timeline = []timelineSlot{
	{role: models.RoleMelody, startBeat: 0, slotBeats: sectionBeats, required: true},
	{role: models.RoleContinuation, startBeat: 8, slotBeats: sectionBeats, required: true},
	{role: models.RoleMelody, startBeat: 16, slotBeats: sectionBeats, required: true},
	{role: models.RoleContinuation, startBeat: 24, slotBeats: sectionBeats, required: true},
	{role: models.RoleHarmony, startBeat: 16, slotBeats: 2 * sectionBeats, required: false},
	{role: models.RoleDrums, startBeat: 0, slotBeats: ArrangementBeats, required: false},
	{role: models.RoleVocal, startBeat: 0, slotBeats: ArrangementBeats, required: false},
}

// PlacedEvent is one sounding note on the absolute 32-beat timeline.
type PlacedEvent struct {
	Channel       uint8
	Pitch         uint8
	StartBeats    float64
	DurationBeats float64
	Velocity      uint8
}

// Document is the fully time-aligned multi-channel composition, ready for
// serialization and rendering. It always spans exactly ArrangementBeats.
type Document struct {
	Tempo  int
	Key    string
	Scale  string
	Events []PlacedEvent
	Lyrics []models.LyricEvent
}

// TotalBeats is fixed by construction.
func (d *Document) TotalBeats() float64 {
	return ArrangementBeats
}

// ChannelEvents returns the events placed on one channel, in time order.
func (d *Document) ChannelEvents(ch uint8) []PlacedEvent {
	var out []PlacedEvent
	for _, e := range d.Events {
		if e.Channel == ch {
			out = append(out, e)
		}
	}
	return out
}

// WithoutChannel returns a reduced document with one channel's events
// removed. Used for the instrumental mixdown.
func (d *Document) WithoutChannel(ch uint8) *Document {
	out := &Document{Tempo: d.Tempo, Key: d.Key, Scale: d.Scale}
	for _, e := range d.Events {
		if e.Channel != ch {
			out.Events = append(out.Events, e)
		}
	}
	if ch != ChannelVocal {
		out.Lyrics = d.Lyrics
	}
	return out
}

// Arrange composes the per-role sequences into one Document following the
// fixed timeline. Melody and continuation are mandatory; every other role
// degrades to silence when absent. The tempo is inherited from the melody
// sequence and governs the whole document.
func Arrange(tracks map[models.Role]*models.NoteSequence, words []string) (*Document, error) {
	for _, slot := range timeline {
		if slot.required && tracks[slot.role] == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequiredTrack, slot.role)
		}
	}
	melody := tracks[models.RoleMelody]
	if melody.Tempo <= 0 {
		return nil, fmt.Errorf("%w: %d bpm", ErrInvalidTempo, melody.Tempo)
	}

	doc := &Document{
		Tempo: melody.Tempo,
		Key:   melody.Key,
		Scale: melody.Scale,
	}

	// Each role is normalized once per slot length it appears at.
	type normKey struct {
		role  models.Role
		beats float64
	}
	normalized := map[normKey]*models.NoteSequence{}

	for _, slot := range timeline {
		seq := tracks[slot.role]
		if seq == nil {
			continue
		}

		binding, err := BindingFor(slot.role)
		if err != nil {
			return nil, err
		}

		key := normKey{role: slot.role, beats: slot.slotBeats}
		norm := normalized[key]
		if norm == nil {
			norm, err = Normalize(seq, slot.slotBeats)
			if err != nil {
				if !errors.Is(err, ErrEmptySequence) {
					return nil, err
				}
				log.Printf("⚠️  %s came back empty, arranging %v beats of rest", slot.role, slot.slotBeats)
			}
			normalized[key] = norm
		}

		for _, e := range norm.Events {
			if e.IsRest() {
				continue
			}
			vel := e.Velocity
			if vel == 0 {
				vel = defaultVelocity
			}
			doc.Events = append(doc.Events, PlacedEvent{
				Channel:       binding.Channel,
				Pitch:         uint8(e.Pitch),
				StartBeats:    slot.startBeat + e.StartBeats,
				DurationBeats: e.DurationBeats,
				Velocity:      uint8(vel),
			})
		}
	}

	// Vocals are placed at beat 0, so the aligned lyric timings are already
	// absolute.
	if vocal := normalized[normKey{role: models.RoleVocal, beats: ArrangementBeats}]; vocal != nil {
		doc.Lyrics = AlignLyrics(words, vocal)
	}

	sort.SliceStable(doc.Events, func(i, j int) bool {
		a, b := doc.Events[i], doc.Events[j]
		if a.StartBeats != b.StartBeats {
			return a.StartBeats < b.StartBeats
		}
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		return a.Pitch < b.Pitch
	})

	return doc, nil
}

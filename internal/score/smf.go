package score

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/verseforge/verseforge-api/internal/models"
)

// Message ordering within one tick: program changes first, then note offs
// so repeated pitches re-trigger, then lyrics ahead of their note ons.
const (
	msgKindProgram = iota
	msgKindNoteOff
	msgKindLyric
	msgKindNoteOn
)

type timedMessage struct {
	tick uint32
	kind int
	msg  smf.Message
}

// WriteScore serializes the document to a standard MIDI file: track 0
// carries meter and tempo, then one track per active channel, with lyric
// meta events inline on the vocal track.
func WriteScore(doc *Document, path string) error {
	return writeSMF(doc, path, false)
}

// WriteRenderScore is WriteScore plus a program change per melodic channel
// ahead of any notes, so the synthesis engine picks the intended voices.
// The percussion channel takes no program change.
func WriteRenderScore(doc *Document, path string) error {
	return writeSMF(doc, path, true)
}

// WriteVocalScore writes only the vocal channel's track with its lyric meta
// events, for hand-off to external singing-synthesis tooling.
func WriteVocalScore(doc *Document, path string) error {
	vocalOnly := &Document{
		Tempo:  doc.Tempo,
		Key:    doc.Key,
		Scale:  doc.Scale,
		Events: doc.ChannelEvents(ChannelVocal),
		Lyrics: doc.Lyrics,
	}
	return writeSMF(vocalOnly, path, false)
}

func writeSMF(doc *Document, path string, withPrograms bool) error {
	if doc.Tempo <= 0 {
		return fmt.Errorf("%w: %d bpm", ErrInvalidTempo, doc.Tempo)
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(TicksPerBeat)

	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(BeatsPerMeasure, 4))
	track0.Add(0, smf.MetaTempo(float64(doc.Tempo)))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return fmt.Errorf("adding tempo track: %w", err)
	}

	endTick := BeatsToTicks(doc.TotalBeats())

	for _, binding := range Bindings() {
		events := doc.ChannelEvents(binding.Channel)

		var timed []timedMessage
		if withPrograms && binding.HasProgram && len(events) > 0 {
			timed = append(timed, timedMessage{
				tick: 0,
				kind: msgKindProgram,
				msg:  smf.Message(midi.ProgramChange(binding.Channel, binding.Program)),
			})
		}
		for _, e := range events {
			on := BeatsToTicks(e.StartBeats)
			off := BeatsToTicks(e.StartBeats + e.DurationBeats)
			timed = append(timed,
				timedMessage{tick: on, kind: msgKindNoteOn, msg: smf.Message(midi.NoteOn(binding.Channel, e.Pitch, e.Velocity))},
				timedMessage{tick: off, kind: msgKindNoteOff, msg: smf.Message(midi.NoteOff(binding.Channel, e.Pitch))},
			)
		}
		if binding.Channel == ChannelVocal {
			for _, l := range doc.Lyrics {
				timed = append(timed, timedMessage{
					tick: BeatsToTicks(l.StartBeats),
					kind: msgKindLyric,
					msg:  smf.Message(smf.MetaLyric(sanitizeLyric(l.Word))),
				})
			}
		}
		if len(timed) == 0 {
			continue
		}

		sort.SliceStable(timed, func(i, j int) bool {
			if timed[i].tick != timed[j].tick {
				return timed[i].tick < timed[j].tick
			}
			return timed[i].kind < timed[j].kind
		})

		var track smf.Track
		var lastTick uint32
		for _, tm := range timed {
			track.Add(tm.tick-lastTick, tm.msg)
			lastTick = tm.tick
		}
		var closing uint32
		if endTick > lastTick {
			closing = endTick - lastTick
		}
		track.Close(closing)
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("adding channel %d track: %w", binding.Channel, err)
		}
	}

	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("writing score file: %w", err)
	}
	return nil
}

// ReadScore parses a score file back into a Document. Key and scale are not
// carried by the file format and come back empty. The SMF parser can panic
// on malformed input, so the recover guard turns that into an error.
func ReadScore(path string) (doc *Document, err error) {
	defer func() {
		if r, ok := recover().(string); ok {
			err = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading score file: %w", err)
	}
	rd, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parsing score file: %w", err)
	}

	doc = &Document{Tempo: 120}
	if changes := rd.TempoChanges(); len(changes) > 0 {
		doc.Tempo = int(changes[0].BPM)
	}

	for _, track := range rd.Tracks {
		var absTick uint32
		type openNote struct {
			tick     uint32
			velocity uint8
		}
		open := map[[2]uint8]openNote{}

		for _, ev := range track {
			absTick += ev.Delta
			msg := ev.Message

			var ch, key, vel uint8
			var lyric string
			switch {
			case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
				open[[2]uint8{ch, key}] = openNote{tick: absTick, velocity: vel}
			case msg.GetNoteOff(&ch, &key, &vel), msg.GetNoteOn(&ch, &key, &vel):
				if on, ok := open[[2]uint8{ch, key}]; ok {
					doc.Events = append(doc.Events, PlacedEvent{
						Channel:       ch,
						Pitch:         key,
						StartBeats:    TicksToBeats(on.tick),
						DurationBeats: TicksToBeats(absTick - on.tick),
						Velocity:      on.velocity,
					})
					delete(open, [2]uint8{ch, key})
				}
			case msg.GetMetaLyric(&lyric):
				doc.Lyrics = append(doc.Lyrics, models.LyricEvent{
					Word:       lyric,
					StartBeats: TicksToBeats(absTick),
				})
			}
		}
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

var lyricReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"—", "-",
	"–", "-",
	"…", "...",
	" ", " ",
	"«", `"`,
	"»", `"`,
	"′", "'",
	"ʼ", "'",
)

// sanitizeLyric maps common Unicode punctuation to ASCII and strips anything
// outside latin-1, which is all the lyric meta event can carry.
func sanitizeLyric(word string) string {
	cleaned := lyricReplacer.Replace(word)
	var b strings.Builder
	for _, r := range cleaned {
		if r <= 0xFF {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package score

import "github.com/verseforge/verseforge-api/internal/models"

// AlignLyrics binds words to the non-rest notes of a vocal sequence, one
// word per note in time order. Rests consume no word. Alignment stops when
// either side runs out: unlabeled trailing notes are sung as held vowels,
// excess words are dropped. A vocal line with no sounding notes yields an
// empty result.
func AlignLyrics(words []string, vocal *models.NoteSequence) []models.LyricEvent {
	if vocal == nil || len(words) == 0 {
		return nil
	}

	var out []models.LyricEvent
	next := 0
	for _, e := range vocal.Events {
		if e.IsRest() {
			continue
		}
		if next >= len(words) {
			break
		}
		out = append(out, models.LyricEvent{
			Word:          words[next],
			Pitch:         e.Pitch,
			StartBeats:    e.StartBeats,
			DurationBeats: e.DurationBeats,
		})
		next++
	}
	return out
}

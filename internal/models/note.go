package models

// Role identifies which musical part a Note Sequence plays in the song.
type Role string

const (
	RoleMelody       Role = "melody"
	RoleContinuation Role = "continuation"
	RoleHarmony      Role = "harmony"
	RoleVocal        Role = "vocal"
	RoleDrums        Role = "drums"
)

// NoteEvent is a single pitched or percussive event inside a sequence.
// Pitch 0 is a rest; a rest still consumes its duration.
type NoteEvent struct {
	Pitch         int     `json:"pitch"`
	StartBeats    float64 `json:"startBeats"`
	DurationBeats float64 `json:"durationBeats"`
	// Velocity is set for percussive and vocal events; melodic generators
	// may omit it, in which case a default is applied at the boundary.
	Velocity int `json:"velocity,omitempty"`
}

// IsRest reports whether the event is silence.
func (e NoteEvent) IsRest() bool {
	return e.Pitch == 0
}

// EndBeats returns the beat offset at which the event stops sounding.
func (e NoteEvent) EndBeats() float64 {
	return e.StartBeats + e.DurationBeats
}

// NoteSequence is the canonical representation of one generated part.
// The first generated sequence of a song fixes tempo/key/scale; later
// sequences inherit them. Sequences are never mutated after creation;
// the normalizer returns a padded or truncated copy.
type NoteSequence struct {
	Tempo  int         `json:"tempo"`
	Key    string      `json:"key,omitempty"`
	Scale  string      `json:"scale,omitempty"`
	Events []NoteEvent `json:"notes"`
}

// TotalBeats is the end of the last-sounding event, rests included.
func (s *NoteSequence) TotalBeats() float64 {
	var total float64
	for _, e := range s.Events {
		if end := e.EndBeats(); end > total {
			total = end
		}
	}
	return total
}

// NonRestCount returns how many events actually sound.
func (s *NoteSequence) NonRestCount() int {
	n := 0
	for _, e := range s.Events {
		if !e.IsRest() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy with an independent event slice.
func (s *NoteSequence) Clone() *NoteSequence {
	out := *s
	out.Events = make([]NoteEvent, len(s.Events))
	copy(out.Events, s.Events)
	return &out
}

// LyricEvent binds one word to the timing of one non-rest note so it can
// be embedded into a score as singable text.
type LyricEvent struct {
	Word          string  `json:"word"`
	Pitch         int     `json:"pitch"`
	StartBeats    float64 `json:"startBeats"`
	DurationBeats float64 `json:"durationBeats"`
}

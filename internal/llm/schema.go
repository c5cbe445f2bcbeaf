package llm

const (
	// Pitch constraints. Pitch 0 doubles as the rest marker: it is never
	// placed on a channel, only consumed as silence.
	pitchMin = 0
	pitchMax = 127

	// Velocity constraints
	velocityMin     = 1
	velocityMax     = 127
	velocityDefault = 100

	// Duration constraints
	durationBeatsMin = 0.01

	// Tempo constraints
	tempoMin = 40
	tempoMax = 240
)

// GetNoteSequenceSchema returns the JSON schema for a generated note
// sequence. Every musical role (melody, continuation, harmony, drums,
// vocal) uses this same shape; the prompt carries the role-specific
// instructions.
func GetNoteSequenceSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tempo": map[string]any{
				"type":        "integer",
				"minimum":     tempoMin,
				"maximum":     tempoMax,
				"description": "Tempo in beats per minute.",
			},
			"key": map[string]any{
				"type":        "string",
				"description": "Tonal center, e.g. 'C', 'F#', 'Bb'.",
			},
			"scale": map[string]any{
				"type":        "string",
				"description": "Scale quality, e.g. 'major', 'minor'.",
			},
			"notes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"pitch": map[string]any{
							"type":        "integer",
							"minimum":     pitchMin,
							"maximum":     pitchMax,
							"description": "MIDI note number. 0 means a rest.",
						},
						"velocity": map[string]any{
							"type":    "integer",
							"minimum": velocityMin,
							"maximum": velocityMax,
							"default": velocityDefault,
						},
						"startBeats":    map[string]any{"type": "number", "minimum": 0},
						"durationBeats": map[string]any{"type": "number", "minimum": durationBeatsMin},
					},
					"required":             []string{"pitch", "velocity", "startBeats", "durationBeats"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"tempo", "key", "scale", "notes"},
		"additionalProperties": false,
	}
}

// GetLyricsSchema returns the JSON schema for generated song lyrics.
// Lines are kept separate so the first verse can be lifted out cleanly.
func GetLyricsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Song title.",
			},
			"lines": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":        "string",
					"description": "One lyric line. Section markers like [Verse] are not lines.",
				},
			},
		},
		"required":             []string{"title", "lines"},
		"additionalProperties": false,
	}
}

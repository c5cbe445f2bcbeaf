package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNoteSequenceSchemaShape(t *testing.T) {
	schema := GetNoteSequenceSchema()

	assert.Equal(t, "object", schema["type"])
	assert.ElementsMatch(t, []string{"tempo", "key", "scale", "notes"}, schema["required"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	notes, ok := props["notes"].(map[string]any)
	require.True(t, ok)
	items, ok := notes["items"].(map[string]any)
	require.True(t, ok)

	noteProps, ok := items["properties"].(map[string]any)
	require.True(t, ok)

	pitch, ok := noteProps["pitch"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, pitchMin, pitch["minimum"])
	assert.Equal(t, pitchMax, pitch["maximum"])

	velocity, ok := noteProps["velocity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, velocityMin, velocity["minimum"])
	assert.Equal(t, velocityMax, velocity["maximum"])

	// OpenAI structured output needs every property required and closed objects
	assert.ElementsMatch(t, []string{"pitch", "velocity", "startBeats", "durationBeats"}, items["required"])
	assert.Equal(t, false, items["additionalProperties"])
}

func TestLyricsSchemaShape(t *testing.T) {
	schema := GetLyricsSchema()

	assert.Equal(t, "object", schema["type"])
	assert.ElementsMatch(t, []string{"title", "lines"}, schema["required"])
	assert.Equal(t, false, schema["additionalProperties"])
}

func TestConvertSchemaToGemini(t *testing.T) {
	converted := convertSchemaToGemini(GetNoteSequenceSchema())

	require.NotNil(t, converted)
	assert.Equal(t, genai.TypeObject, converted.Type)
	assert.ElementsMatch(t, []string{"tempo", "key", "scale", "notes"}, converted.Required)

	notes := converted.Properties["notes"]
	require.NotNil(t, notes)
	assert.Equal(t, genai.TypeArray, notes.Type)
	require.NotNil(t, notes.Items)
	assert.Equal(t, genai.TypeObject, notes.Items.Type)
	assert.Equal(t, genai.TypeInteger, notes.Items.Properties["pitch"].Type)
	assert.Equal(t, genai.TypeNumber, notes.Items.Properties["startBeats"].Type)
}

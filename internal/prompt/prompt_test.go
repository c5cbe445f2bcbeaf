package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verseforge/verseforge-api/internal/models"
)

func TestGetRolePromptAllRoles(t *testing.T) {
	loader := NewPromptLoader()

	roles := []models.Role{
		models.RoleMelody,
		models.RoleContinuation,
		models.RoleHarmony,
		models.RoleDrums,
		models.RoleVocal,
	}

	for _, role := range roles {
		t.Run(string(role), func(t *testing.T) {
			p, err := loader.GetRolePrompt(role)
			require.NoError(t, err)
			assert.NotEmpty(t, p)
			// Every role prompt carries the shared note format contract
			assert.Contains(t, p, "startBeats")
			assert.Contains(t, p, "durationBeats")
		})
	}
}

func TestGetRolePromptUnknownRole(t *testing.T) {
	loader := NewPromptLoader()
	_, err := loader.GetRolePrompt(models.Role("kazoo"))
	assert.Error(t, err)
}

func TestGetLyricsPrompt(t *testing.T) {
	loader := NewPromptLoader()
	p, err := loader.GetLyricsPrompt()
	require.NoError(t, err)
	assert.Contains(t, p, "lines")
	assert.NotContains(t, p, "startBeats")
}

func TestBuildContextPromptIncludesMelody(t *testing.T) {
	builder := NewPromptBuilder()
	melody := &models.NoteSequence{
		Tempo: 120,
		Key:   "C",
		Scale: "major",
		Events: []models.NoteEvent{
			{Pitch: 60, StartBeats: 0, DurationBeats: 1},
		},
	}

	p, err := builder.BuildContextPrompt("summer rain", 8, melody)
	require.NoError(t, err)
	assert.Contains(t, p, "summer rain")
	assert.Contains(t, p, "8 beats")
	assert.Contains(t, p, `"tempo":120`)
}

func TestBuildVocalPromptListsWords(t *testing.T) {
	builder := NewPromptBuilder()
	melody := &models.NoteSequence{Tempo: 100, Key: "G", Scale: "major"}
	words := []string{"rain", "falls", "on", "me"}

	p, err := builder.BuildVocalPrompt("summer rain", 32, melody, words)
	require.NoError(t, err)
	assert.Contains(t, p, "rain falls on me")
	assert.Contains(t, p, "exactly 4 non-rest notes")
}

func TestBuildThemePrompt(t *testing.T) {
	builder := NewPromptBuilder()
	p := builder.BuildThemePrompt("midnight trains", 8)
	assert.True(t, strings.Contains(p, "midnight trains"))
	assert.Contains(t, p, "8 beats")
}

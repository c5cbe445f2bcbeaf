package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verseforge/verseforge-api/internal/models"
)

// Builder builds the user-facing half of each generation prompt. The role
// prompts from the Loader carry the instructions; the Builder carries the
// song context (theme, phrase length, prior material, lyric words).
type Builder struct{}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() *Builder {
	return &Builder{}
}

// BuildThemePrompt builds the user prompt for a track generated from the
// theme alone (melody, and lyrics).
func (b *Builder) BuildThemePrompt(theme string, phraseBeats float64) string {
	return fmt.Sprintf("Theme: %s\n\nWrite a phrase exactly %g beats long.", theme, phraseBeats)
}

// BuildContextPrompt builds the user prompt for a track that follows
// existing material (continuation, harmony, drums).
func (b *Builder) BuildContextPrompt(theme string, phraseBeats float64, melody *models.NoteSequence) (string, error) {
	melodyJSON, err := json.Marshal(melody)
	if err != nil {
		return "", fmt.Errorf("encoding melody context: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Theme: %s\n\n", theme)
	fmt.Fprintf(&sb, "The song's melody:\n%s\n\n", melodyJSON)
	fmt.Fprintf(&sb, "Write a phrase exactly %g beats long.", phraseBeats)
	return sb.String(), nil
}

// BuildVocalPrompt builds the user prompt for the vocal line, which needs
// both the melody context and the lyric words it will carry.
func (b *Builder) BuildVocalPrompt(
	theme string, phraseBeats float64, melody *models.NoteSequence, words []string,
) (string, error) {
	base, err := b.BuildContextPrompt(theme, phraseBeats, melody)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(base)
	fmt.Fprintf(&sb, "\n\nLyric words to set, in order (%d words):\n%s", len(words), strings.Join(words, " "))
	fmt.Fprintf(&sb, "\n\nWrite exactly %d non-rest notes, one per word.", len(words))
	return sb.String(), nil
}

// BuildLyricsPrompt builds the user prompt for lyric generation.
func (b *Builder) BuildLyricsPrompt(theme string) string {
	return fmt.Sprintf("Write song lyrics about: %s", theme)
}

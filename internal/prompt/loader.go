package prompt

import (
	"fmt"
	"strings"

	"github.com/verseforge/verseforge-api/internal/models"
	"github.com/verseforge/verseforge-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetRolePrompt loads the system prompt for a musical role, with the shared
// note format instructions appended.
func (l *Loader) GetRolePrompt(role models.Role) (string, error) {
	var raw []byte
	switch role {
	case models.RoleMelody:
		raw = embedded.MelodyPromptTxt
	case models.RoleContinuation:
		raw = embedded.ContinuationPromptTxt
	case models.RoleHarmony:
		raw = embedded.HarmonyPromptTxt
	case models.RoleDrums:
		raw = embedded.DrumsPromptTxt
	case models.RoleVocal:
		raw = embedded.VocalPromptTxt
	default:
		return "", fmt.Errorf("no prompt for role %q", role)
	}

	sections := []string{
		strings.TrimSpace(string(raw)),
		strings.TrimSpace(string(embedded.NoteFormatInstructionsTxt)),
	}
	return strings.Join(sections, "\n\n"), nil
}

// GetLyricsPrompt loads the lyric writing system prompt. It carries its own
// output format, so the note format instructions are not appended.
func (l *Loader) GetLyricsPrompt() (string, error) {
	return strings.TrimSpace(string(embedded.LyricsPromptTxt)), nil
}

package score

import (
	"fmt"

	"github.com/verseforge/verseforge-api/internal/models"
)

// Fixed role-to-channel convention. Channel 9 is the General MIDI
// percussion channel and must never be reassigned.
const (
	ChannelMelody  uint8 = 0
	ChannelHarmony uint8 = 1
	ChannelVocal   uint8 = 2
	ChannelDrums   uint8 = 9
)

// ChannelBinding stamps a role with its channel and instrument voice.
type ChannelBinding struct {
	Role    models.Role
	Channel uint8
	// Program is the General MIDI program number. The percussion channel
	// takes no program change (HasProgram false).
	Program    uint8
	HasProgram bool
	Label      string
}

var channelBindings = []ChannelBinding{
	{Role: models.RoleMelody, Channel: ChannelMelody, Program: 0, HasProgram: true, Label: "Acoustic Grand Piano"},
	{Role: models.RoleContinuation, Channel: ChannelMelody, Program: 0, HasProgram: true, Label: "Acoustic Grand Piano"},
	{Role: models.RoleHarmony, Channel: ChannelHarmony, Program: 24, HasProgram: true, Label: "Acoustic Guitar (nylon)"},
	{Role: models.RoleVocal, Channel: ChannelVocal, Program: 52, HasProgram: true, Label: "Choir Aahs"},
	{Role: models.RoleDrums, Channel: ChannelDrums, HasProgram: false, Label: "Standard Kit"},
}

// BindingFor returns the fixed binding for a role.
func BindingFor(role models.Role) (ChannelBinding, error) {
	for _, b := range channelBindings {
		if b.Role == role {
			return b, nil
		}
	}
	return ChannelBinding{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

// Bindings returns the full binding table in channel order, one entry per
// channel (melody and continuation share channel 0).
func Bindings() []ChannelBinding {
	out := make([]ChannelBinding, 0, len(channelBindings))
	seen := map[uint8]bool{}
	for _, b := range channelBindings {
		if seen[b.Channel] {
			continue
		}
		seen[b.Channel] = true
		out = append(out, b)
	}
	return out
}

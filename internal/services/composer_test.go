package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verseforge/verseforge-api/internal/llm"
	"github.com/verseforge/verseforge-api/internal/models"
	"github.com/verseforge/verseforge-api/internal/observability"
)

// scriptedProvider replays a fixed list of outputs, repeating the last one.
type scriptedProvider struct {
	outputs     []string
	calls       int
	streamCalls int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(_ context.Context, _ *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	return &llm.GenerationResponse{RawOutput: p.next()}, nil
}

func (p *scriptedProvider) GenerateStream(
	_ context.Context, _ *llm.GenerationRequest, callback llm.StreamCallback,
) (*llm.GenerationResponse, error) {
	p.streamCalls++
	_ = callback(llm.StreamEvent{Type: "completed", Message: "Generation complete"})
	return &llm.GenerationResponse{RawOutput: p.next()}, nil
}

func (p *scriptedProvider) next() string {
	i := p.calls
	if i >= len(p.outputs) {
		i = len(p.outputs) - 1
	}
	p.calls++
	return p.outputs[i]
}

func TestParseAndValidateClampsRanges(t *testing.T) {
	c := NewComposer(nil, nil)
	raw := `{
		"tempo": 500,
		"key": "C",
		"scale": "major",
		"notes": [
			{"pitch": 200, "velocity": 300, "startBeats": 0, "durationBeats": 1},
			{"pitch": -5, "velocity": 0, "startBeats": 1, "durationBeats": 1},
			{"pitch": 64, "velocity": 90, "startBeats": 2, "durationBeats": 1}
		]
	}`

	seq, err := c.parseAndValidate(raw, TrackRequest{Role: models.RoleMelody, PhraseBeats: 8})
	require.NoError(t, err)

	assert.Equal(t, 240, seq.Tempo)
	require.Len(t, seq.Events, 3)
	assert.Equal(t, 127, seq.Events[0].Pitch)
	assert.Equal(t, 127, seq.Events[0].Velocity)
	assert.Equal(t, 0, seq.Events[1].Pitch) // negative pitch becomes a rest
	assert.Equal(t, 100, seq.Events[1].Velocity)
	assert.Equal(t, 64, seq.Events[2].Pitch)
	assert.Equal(t, 90, seq.Events[2].Velocity)
}

func TestParseAndValidateDropsBadEvents(t *testing.T) {
	c := NewComposer(nil, nil)
	raw := `{
		"tempo": 120,
		"key": "C",
		"scale": "major",
		"notes": [
			{"pitch": 60, "velocity": 100, "startBeats": -1, "durationBeats": 1},
			{"pitch": 62, "velocity": 100, "startBeats": 0, "durationBeats": 0},
			{"pitch": 64, "velocity": 100, "startBeats": 9, "durationBeats": 1},
			{"pitch": 65, "velocity": 100, "startBeats": 1, "durationBeats": 1}
		]
	}`

	seq, err := c.parseAndValidate(raw, TrackRequest{Role: models.RoleMelody, PhraseBeats: 8})
	require.NoError(t, err)
	require.Len(t, seq.Events, 1)
	assert.Equal(t, 65, seq.Events[0].Pitch)
}

func TestParseAndValidateSortsEvents(t *testing.T) {
	c := NewComposer(nil, nil)
	raw := `{
		"tempo": 120,
		"key": "C",
		"scale": "major",
		"notes": [
			{"pitch": 64, "velocity": 100, "startBeats": 4, "durationBeats": 1},
			{"pitch": 60, "velocity": 100, "startBeats": 0, "durationBeats": 1},
			{"pitch": 62, "velocity": 100, "startBeats": 2, "durationBeats": 1}
		]
	}`

	seq, err := c.parseAndValidate(raw, TrackRequest{Role: models.RoleMelody, PhraseBeats: 8})
	require.NoError(t, err)
	require.Len(t, seq.Events, 3)
	assert.Equal(t, 60, seq.Events[0].Pitch)
	assert.Equal(t, 62, seq.Events[1].Pitch)
	assert.Equal(t, 64, seq.Events[2].Pitch)
}

func TestParseAndValidateInheritsSongContext(t *testing.T) {
	c := NewComposer(nil, nil)
	melody := &models.NoteSequence{Tempo: 96, Key: "Eb", Scale: "minor"}
	raw := `{
		"tempo": 200,
		"key": "A",
		"scale": "major",
		"notes": [{"pitch": 55, "velocity": 100, "startBeats": 0, "durationBeats": 2}]
	}`

	seq, err := c.parseAndValidate(raw, TrackRequest{
		Role: models.RoleHarmony, PhraseBeats: 16, Melody: melody,
	})
	require.NoError(t, err)
	assert.Equal(t, 96, seq.Tempo)
	assert.Equal(t, "Eb", seq.Key)
	assert.Equal(t, "minor", seq.Scale)
}

func TestParseAndValidateRejectsSilentMelody(t *testing.T) {
	c := NewComposer(nil, nil)
	raw := `{"tempo": 120, "key": "C", "scale": "major", "notes": [
		{"pitch": 0, "velocity": 100, "startBeats": 0, "durationBeats": 8}
	]}`

	_, err := c.parseAndValidate(raw, TrackRequest{Role: models.RoleMelody, PhraseBeats: 8})
	assert.Error(t, err)

	// Drums may legitimately come back empty; the normalizer pads them
	seq, err := c.parseAndValidate(raw, TrackRequest{
		Role: models.RoleDrums, PhraseBeats: 32,
		Melody: &models.NoteSequence{Tempo: 120},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, seq.NonRestCount())
}

func TestParseAndValidateRejectsGarbage(t *testing.T) {
	c := NewComposer(nil, nil)
	_, err := c.parseAndValidate("not json at all", TrackRequest{Role: models.RoleMelody, PhraseBeats: 8})
	assert.Error(t, err)
}

func TestGenerateTrackRetriesRejectedOutput(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{"not json at all", stubNoteJSON}}
	c := NewComposer(&stubSource{provider: provider}, nil)
	trace := observability.GetClient().StartTrace(context.Background(), "test", nil)

	seq, err := c.GenerateTrack(context.Background(), TrackRequest{
		Role: models.RoleMelody, Theme: "night drive", PhraseBeats: 8,
	}, trace)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
	assert.Equal(t, 2, seq.NonRestCount())
}

func TestGenerateTrackGivesUpAfterMaxAttempts(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{"not json at all"}}
	c := NewComposer(&stubSource{provider: provider}, nil)
	trace := observability.GetClient().StartTrace(context.Background(), "test", nil)

	_, err := c.GenerateTrack(context.Background(), TrackRequest{
		Role: models.RoleMelody, Theme: "night drive", PhraseBeats: 8,
	}, trace)
	require.Error(t, err)
	assert.Equal(t, maxGenerationAttempts, provider.calls)
}

func TestGenerateTrackStreamsWhenCallbackSet(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{stubNoteJSON}}
	c := NewComposer(&stubSource{provider: provider}, nil)
	trace := observability.GetClient().StartTrace(context.Background(), "test", nil)

	var events []llm.StreamEvent
	seq, err := c.GenerateTrack(context.Background(), TrackRequest{
		Role:        models.RoleMelody,
		Theme:       "night drive",
		PhraseBeats: 8,
		OnStream: func(e llm.StreamEvent) error {
			events = append(events, e)
			return nil
		},
	}, trace)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.streamCalls)
	require.Len(t, events, 1)
	assert.Equal(t, "completed", events[0].Type)
	assert.Equal(t, 2, seq.NonRestCount())
}

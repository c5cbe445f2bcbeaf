package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/verseforge/verseforge-api/internal/llm"
	"github.com/verseforge/verseforge-api/internal/metrics"
	"github.com/verseforge/verseforge-api/internal/models"
	"github.com/verseforge/verseforge-api/internal/observability"
	"github.com/verseforge/verseforge-api/internal/prompt"
)

// ProviderSource yields the LLM provider for a model. *llm.ProviderFactory
// satisfies it.
type ProviderSource interface {
	GetProvider(ctx context.Context, model, providerName string) (llm.Provider, error)
}

const (
	defaultModel         = "gpt-5-mini"
	defaultReasoningMode = "low"

	// Parse or validation failures trigger a regeneration before giving up
	maxGenerationAttempts = 3

	tempoFloor = 40
	tempoCeil  = 240

	pitchCeil    = 127
	velocityMin  = 1
	velocityMax  = 127
	velocityDflt = 100
)

// Composer turns a song theme into validated note sequences, one role at a
// time. The model output is untrusted: everything is clamped or rejected at
// this boundary before the score layer ever sees it.
type Composer struct {
	providers     ProviderSource
	loader        *prompt.Loader
	builder       *prompt.Builder
	sentryMetrics *metrics.SentryMetrics
	cwMetrics     *metrics.Client
}

// NewComposer creates a composer backed by the given provider source.
func NewComposer(providers ProviderSource, cwMetrics *metrics.Client) *Composer {
	return &Composer{
		providers:     providers,
		loader:        prompt.NewPromptLoader(),
		builder:       prompt.NewPromptBuilder(),
		sentryMetrics: metrics.NewSentryMetrics(),
		cwMetrics:     cwMetrics,
	}
}

// recordTokenUsage fans one call's token accounting out to both metrics
// backends. Providers that report no usage record nothing.
func recordTokenUsage(
	ctx context.Context,
	sentryMetrics *metrics.SentryMetrics,
	cwMetrics *metrics.Client,
	model string,
	usage observability.TokenUsage,
) {
	if usage.Total == 0 {
		return
	}
	sentryMetrics.RecordTokenUsage(ctx, model, usage.Total, usage.Input, usage.Output, usage.Reasoning)
	if cwMetrics != nil {
		cwMetrics.RecordTokenUsage(model, usage.Total, usage.Input, usage.Output, usage.Reasoning)
	}
}

// TrackRequest describes one part to generate.
type TrackRequest struct {
	Role        models.Role
	Theme       string
	PhraseBeats float64

	// Melody is the song context for dependent parts; nil for the opening
	// melody itself. When set, its tempo/key/scale override the model's.
	Melody *models.NoteSequence

	// Words is set for the vocal part only.
	Words []string

	Model    string
	Provider string

	// OnStream, when set, switches the call to the provider's streaming API
	// and receives its token-level events.
	OnStream llm.StreamCallback
}

// GenerateTrack asks the model for one part and validates the result. Bad
// output (unparseable JSON, no usable notes) is retried up to two times.
func (c *Composer) GenerateTrack(
	ctx context.Context, req TrackRequest, trace *observability.Trace,
) (*models.NoteSequence, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	provider, err := c.providers.GetProvider(ctx, model, req.Provider)
	if err != nil {
		return nil, err
	}

	systemPrompt, err := c.loader.GetRolePrompt(req.Role)
	if err != nil {
		return nil, err
	}

	userPrompt, err := c.buildUserPrompt(req)
	if err != nil {
		return nil, err
	}

	genReq := &llm.GenerationRequest{
		Model:         model,
		SystemPrompt:  systemPrompt,
		ReasoningMode: defaultReasoningMode,
		InputArray: []map[string]any{
			{"role": "user", "content": userPrompt},
		},
		OutputSchema: &llm.OutputSchema{
			Name:        "note_sequence",
			Description: "A sequence of timed note events for one musical part",
			Schema:      llm.GetNoteSequenceSchema(),
		},
	}

	var lastErr error
	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		gen := trace.Generation(fmt.Sprintf("compose.%s", req.Role), map[string]any{
			"role":    string(req.Role),
			"attempt": attempt,
			"model":   model,
		})
		gen.Input(genReq.InputArray)

		var resp *llm.GenerationResponse
		if req.OnStream != nil {
			resp, err = provider.GenerateStream(ctx, genReq, req.OnStream)
		} else {
			resp, err = provider.Generate(ctx, genReq)
		}
		if err != nil {
			gen.SetLevel("ERROR")
			gen.Finish()
			return nil, fmt.Errorf("generating %s track: %w", req.Role, err)
		}
		usage := observability.ExtractTokenUsage(model, resp.Usage)
		gen.Output(resp.RawOutput)
		gen.Usage(usage.Map())
		gen.Finish()
		recordTokenUsage(ctx, c.sentryMetrics, c.cwMetrics, model, usage)

		seq, err := c.parseAndValidate(resp.RawOutput, req)
		if err == nil {
			return seq, nil
		}

		lastErr = err
		log.Printf("⚠️  %s track attempt %d/%d rejected: %v", req.Role, attempt, maxGenerationAttempts, err)
	}

	return nil, fmt.Errorf("%s track failed validation after %d attempts: %w",
		req.Role, maxGenerationAttempts, lastErr)
}

func (c *Composer) buildUserPrompt(req TrackRequest) (string, error) {
	switch {
	case req.Role == models.RoleVocal:
		return c.builder.BuildVocalPrompt(req.Theme, req.PhraseBeats, req.Melody, req.Words)
	case req.Melody != nil:
		return c.builder.BuildContextPrompt(req.Theme, req.PhraseBeats, req.Melody)
	default:
		return c.builder.BuildThemePrompt(req.Theme, req.PhraseBeats), nil
	}
}

// parseAndValidate decodes the model's JSON and enforces the note sequence
// contract: sane tempo, pitches and velocities in range, durations positive,
// events in time order. Dependent parts inherit the melody's song context
// regardless of what the model claimed.
func (c *Composer) parseAndValidate(raw string, req TrackRequest) (*models.NoteSequence, error) {
	var seq models.NoteSequence
	if err := json.Unmarshal([]byte(raw), &seq); err != nil {
		return nil, fmt.Errorf("parsing model output: %w", err)
	}

	if req.Melody != nil {
		seq.Tempo = req.Melody.Tempo
		seq.Key = req.Melody.Key
		seq.Scale = req.Melody.Scale
	} else {
		if seq.Tempo < tempoFloor {
			seq.Tempo = tempoFloor
		}
		if seq.Tempo > tempoCeil {
			seq.Tempo = tempoCeil
		}
	}

	cleaned := make([]models.NoteEvent, 0, len(seq.Events))
	for _, e := range seq.Events {
		if e.StartBeats < 0 || e.DurationBeats <= 0 {
			continue
		}
		if e.StartBeats >= req.PhraseBeats {
			continue
		}
		if e.Pitch < 0 {
			e.Pitch = 0
		}
		if e.Pitch > pitchCeil {
			e.Pitch = pitchCeil
		}
		if e.Velocity == 0 {
			e.Velocity = velocityDflt
		}
		if e.Velocity < velocityMin {
			e.Velocity = velocityMin
		}
		if e.Velocity > velocityMax {
			e.Velocity = velocityMax
		}
		cleaned = append(cleaned, e)
	}
	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].StartBeats < cleaned[j].StartBeats
	})
	seq.Events = cleaned

	// The melody and its continuation carry the song; they must actually
	// contain music. Other parts may come back sparse or empty and the
	// normalizer fills them with rest.
	if req.Role == models.RoleMelody || req.Role == models.RoleContinuation {
		if seq.NonRestCount() == 0 {
			return nil, fmt.Errorf("%s track has no sounding notes", req.Role)
		}
	}

	return &seq, nil
}

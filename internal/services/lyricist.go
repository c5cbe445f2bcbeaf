package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/verseforge/verseforge-api/internal/llm"
	"github.com/verseforge/verseforge-api/internal/metrics"
	"github.com/verseforge/verseforge-api/internal/observability"
	"github.com/verseforge/verseforge-api/internal/prompt"
)

const verseLines = 4

// Lyrics is the validated output of a lyric generation.
type Lyrics struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Text joins the lines back into displayable lyrics.
func (l *Lyrics) Text() string {
	return strings.Join(l.Lines, "\n")
}

// FirstVerse returns the opening verse, the part that gets sung. Section
// markers and blank lines are skipped.
func (l *Lyrics) FirstVerse() []string {
	verse := make([]string, 0, verseLines)
	for _, line := range l.Lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "[") {
			continue
		}
		verse = append(verse, trimmed)
		if len(verse) == verseLines {
			break
		}
	}
	return verse
}

// VerseWords flattens the first verse into the word stream the vocal line
// will carry, one word per sung note.
func (l *Lyrics) VerseWords() []string {
	var words []string
	for _, line := range l.FirstVerse() {
		words = append(words, strings.Fields(line)...)
	}
	return words
}

// Lyricist generates song lyrics from a theme.
type Lyricist struct {
	providers     ProviderSource
	loader        *prompt.Loader
	builder       *prompt.Builder
	sentryMetrics *metrics.SentryMetrics
	cwMetrics     *metrics.Client
}

// NewLyricist creates a lyricist backed by the given provider source.
func NewLyricist(providers ProviderSource, cwMetrics *metrics.Client) *Lyricist {
	return &Lyricist{
		providers:     providers,
		loader:        prompt.NewPromptLoader(),
		builder:       prompt.NewPromptBuilder(),
		sentryMetrics: metrics.NewSentryMetrics(),
		cwMetrics:     cwMetrics,
	}
}

// GenerateLyrics asks the model for lyrics and validates that a sung verse
// can be extracted from them. A non-nil stream callback receives the
// provider's token-level events.
func (ly *Lyricist) GenerateLyrics(
	ctx context.Context, theme, model, providerName string,
	stream llm.StreamCallback, trace *observability.Trace,
) (*Lyrics, error) {
	if model == "" {
		model = defaultModel
	}

	provider, err := ly.providers.GetProvider(ctx, model, providerName)
	if err != nil {
		return nil, err
	}

	systemPrompt, err := ly.loader.GetLyricsPrompt()
	if err != nil {
		return nil, err
	}

	genReq := &llm.GenerationRequest{
		Model:         model,
		SystemPrompt:  systemPrompt,
		ReasoningMode: defaultReasoningMode,
		InputArray: []map[string]any{
			{"role": "user", "content": ly.builder.BuildLyricsPrompt(theme)},
		},
		OutputSchema: &llm.OutputSchema{
			Name:        "song_lyrics",
			Description: "Song title and lyric lines",
			Schema:      llm.GetLyricsSchema(),
		},
	}

	var lastErr error
	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		gen := trace.Generation("compose.lyrics", map[string]any{
			"attempt": attempt,
			"model":   model,
		})
		gen.Input(genReq.InputArray)

		var resp *llm.GenerationResponse
		if stream != nil {
			resp, err = provider.GenerateStream(ctx, genReq, stream)
		} else {
			resp, err = provider.Generate(ctx, genReq)
		}
		if err != nil {
			gen.SetLevel("ERROR")
			gen.Finish()
			return nil, fmt.Errorf("generating lyrics: %w", err)
		}
		usage := observability.ExtractTokenUsage(model, resp.Usage)
		gen.Output(resp.RawOutput)
		gen.Usage(usage.Map())
		gen.Finish()
		recordTokenUsage(ctx, ly.sentryMetrics, ly.cwMetrics, model, usage)

		var lyrics Lyrics
		if err := json.Unmarshal([]byte(resp.RawOutput), &lyrics); err != nil {
			lastErr = fmt.Errorf("parsing lyrics output: %w", err)
		} else if len(lyrics.FirstVerse()) == 0 {
			lastErr = fmt.Errorf("lyrics contain no singable lines")
		} else {
			return &lyrics, nil
		}

		log.Printf("⚠️  lyrics attempt %d/%d rejected: %v", attempt, maxGenerationAttempts, lastErr)
	}

	return nil, fmt.Errorf("lyrics failed validation after %d attempts: %w", maxGenerationAttempts, lastErr)
}

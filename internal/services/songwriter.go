package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/verseforge/verseforge-api/internal/config"
	"github.com/verseforge/verseforge-api/internal/llm"
	"github.com/verseforge/verseforge-api/internal/metrics"
	"github.com/verseforge/verseforge-api/internal/models"
	"github.com/verseforge/verseforge-api/internal/observability"
	"github.com/verseforge/verseforge-api/internal/render"
	"github.com/verseforge/verseforge-api/internal/score"
	"gorm.io/gorm"
)

const (
	totalSteps = 9

	phraseBeats  = 8.0
	harmonyBeats = 16.0
	fullBeats    = 32.0

	scoreFileName        = "score.mid"
	vocalScoreFileName   = "vocal_score.mid"
	completeFileName     = "complete.wav"
	instrumentalFileName = "instrumental.wav"

	percentScale = 100
)

// ProgressFunc receives one update after each pipeline step.
type ProgressFunc func(update models.ProgressUpdate)

// Songwriter runs the full song pipeline: lyrics, five instrument parts,
// arrangement, then the two audio mixdowns. Score artifacts alone are a
// valid outcome; a song without audio is "partial", not failed.
type Songwriter struct {
	composer *Composer
	lyricist *Lyricist
	renderer *render.Engine
	db       *gorm.DB
	cfg      *config.Config

	sentryMetrics *metrics.SentryMetrics
	cwMetrics     *metrics.Client
}

// NewSongwriter wires the pipeline together.
func NewSongwriter(
	composer *Composer,
	lyricist *Lyricist,
	renderer *render.Engine,
	db *gorm.DB,
	cfg *config.Config,
	cwMetrics *metrics.Client,
) *Songwriter {
	return &Songwriter{
		composer:      composer,
		lyricist:      lyricist,
		renderer:      renderer,
		db:            db,
		cfg:           cfg,
		sentryMetrics: metrics.NewSentryMetrics(),
		cwMetrics:     cwMetrics,
	}
}

// GenerateSong runs the pipeline end to end, persisting the song record as
// it goes and reporting progress after each step. A non-nil stream callback
// receives the provider's token-level events from every LLM call.
func (s *Songwriter) GenerateSong(
	ctx context.Context, req models.GenerateSongRequest,
	stream llm.StreamCallback, progress ProgressFunc,
) (*models.Song, error) {
	startTime := time.Now()
	log.Printf("🎼 SONG GENERATION STARTED (theme: %q)", req.Theme)

	song := &models.Song{
		Theme:  req.Theme,
		Status: models.SongStatusGenerating,
	}
	if err := s.db.WithContext(ctx).Create(song).Error; err != nil {
		return nil, fmt.Errorf("creating song record: %w", err)
	}

	trace := observability.GetClient().StartTrace(ctx, "song.generate", map[string]any{
		"song_id": song.ID.String(),
		"theme":   req.Theme,
	})
	defer trace.Finish()

	result, err := s.runPipeline(ctx, song, req, stream, progress, trace)
	if err != nil {
		song.Status = models.SongStatusFailed
		song.Error = err.Error()
		if dbErr := s.db.WithContext(ctx).Save(song).Error; dbErr != nil {
			log.Printf("⚠️  Failed to persist failed song %s: %v", song.ID, dbErr)
		}
		return song, err
	}

	if err := s.db.WithContext(ctx).Save(result).Error; err != nil {
		return result, fmt.Errorf("persisting song: %w", err)
	}

	log.Printf("🎉 SONG GENERATION FINISHED in %v (status: %s)", time.Since(startTime), result.Status)
	return result, nil
}

func (s *Songwriter) runPipeline(
	ctx context.Context,
	song *models.Song,
	req models.GenerateSongRequest,
	stream llm.StreamCallback,
	progress ProgressFunc,
	trace *observability.Trace,
) (*models.Song, error) {
	report := func(step int, message string) {
		if progress == nil {
			return
		}
		progress(models.ProgressUpdate{
			Step:       step,
			Total:      totalSteps,
			Message:    message,
			Percentage: step * percentScale / totalSteps,
		})
	}

	// Step 1: lyrics
	lyrics, err := s.lyricist.GenerateLyrics(ctx, req.Theme, req.Model, req.Provider, stream, trace)
	if err != nil {
		return nil, err
	}
	song.Lyrics = lyrics.Text()
	report(1, "Lyrics written")

	// Step 2: melody fixes the song context (tempo, key, scale)
	melody, err := s.composer.GenerateTrack(ctx, TrackRequest{
		Role:        models.RoleMelody,
		Theme:       req.Theme,
		PhraseBeats: phraseBeats,
		Model:       req.Model,
		Provider:    req.Provider,
		OnStream:    stream,
	}, trace)
	if err != nil {
		return nil, err
	}
	song.Tempo = melody.Tempo
	song.Key = melody.Key
	song.Scale = melody.Scale
	report(2, "Melody composed")

	// Steps 3-6: the dependent parts
	continuation, err := s.composer.GenerateTrack(ctx, TrackRequest{
		Role:        models.RoleContinuation,
		Theme:       req.Theme,
		PhraseBeats: phraseBeats,
		Melody:      melody,
		Model:       req.Model,
		Provider:    req.Provider,
		OnStream:    stream,
	}, trace)
	if err != nil {
		return nil, err
	}
	report(3, "Continuation composed")

	harmony, err := s.composer.GenerateTrack(ctx, TrackRequest{
		Role:        models.RoleHarmony,
		Theme:       req.Theme,
		PhraseBeats: harmonyBeats,
		Melody:      melody,
		Model:       req.Model,
		Provider:    req.Provider,
		OnStream:    stream,
	}, trace)
	if err != nil {
		return nil, err
	}
	report(4, "Harmony composed")

	drums, err := s.composer.GenerateTrack(ctx, TrackRequest{
		Role:        models.RoleDrums,
		Theme:       req.Theme,
		PhraseBeats: fullBeats,
		Melody:      melody,
		Model:       req.Model,
		Provider:    req.Provider,
		OnStream:    stream,
	}, trace)
	if err != nil {
		return nil, err
	}
	report(5, "Drums composed")

	words := lyrics.VerseWords()
	vocal, err := s.composer.GenerateTrack(ctx, TrackRequest{
		Role:        models.RoleVocal,
		Theme:       req.Theme,
		PhraseBeats: fullBeats,
		Melody:      melody,
		Words:       words,
		Model:       req.Model,
		Provider:    req.Provider,
		OnStream:    stream,
	}, trace)
	if err != nil {
		return nil, err
	}
	report(6, "Vocal melody composed")

	// Step 7: arrange and write the score artifacts
	doc, err := score.Arrange(map[models.Role]*models.NoteSequence{
		models.RoleMelody:       melody,
		models.RoleContinuation: continuation,
		models.RoleHarmony:      harmony,
		models.RoleDrums:        drums,
		models.RoleVocal:        vocal,
	}, words)
	if err != nil {
		return nil, err
	}

	songDir := filepath.Join(s.cfg.ArtifactDir, song.ID.String())
	if err := os.MkdirAll(songDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}

	if err := score.WriteScore(doc, filepath.Join(songDir, scoreFileName)); err != nil {
		return nil, err
	}
	song.ScorePath = s.artifactPath(song, scoreFileName)

	if err := score.WriteVocalScore(doc, filepath.Join(songDir, vocalScoreFileName)); err != nil {
		return nil, err
	}
	song.VocalScorePath = s.artifactPath(song, vocalScoreFileName)
	report(7, "Score arranged")

	// Steps 8-9: audio mixdowns, both recoverable
	song.Status = models.SongStatusComplete

	if path, ok := s.renderMix(ctx, doc, render.ModeComplete, songDir, completeFileName); ok {
		song.CompleteAudioPath = s.artifactPath(song, path)
		report(8, "Complete mix rendered")
	} else {
		song.Status = models.SongStatusPartial
		report(8, "Complete mix unavailable")
	}

	if path, ok := s.renderMix(ctx, doc, render.ModeInstrumental, songDir, instrumentalFileName); ok {
		song.InstrumentalAudioPath = s.artifactPath(song, path)
		report(9, "Instrumental mix rendered")
	} else {
		song.Status = models.SongStatusPartial
		report(9, "Instrumental mix unavailable")
	}

	return song, nil
}

// renderMix runs one mixdown and reports whether it produced audio. Render
// unavailability is absorbed here; anything else still only degrades the
// song to partial, since the score artifacts already exist.
func (s *Songwriter) renderMix(
	ctx context.Context, doc *score.Document, mode render.Mode, songDir, fileName string,
) (string, bool) {
	start := time.Now()
	err := s.renderer.Render(ctx, doc, mode, filepath.Join(songDir, fileName))
	duration := time.Since(start)

	s.sentryMetrics.RecordRenderOutcome(ctx, string(mode), duration, err == nil)
	if s.cwMetrics != nil {
		s.cwMetrics.RecordRenderOutcome(string(mode), duration, err == nil)
	}

	if err != nil {
		if errors.Is(err, render.ErrRenderUnavailable) {
			log.Printf("⚠️  %s mixdown unavailable: %v", mode, err)
		} else {
			log.Printf("❌ %s mixdown failed: %v", mode, err)
		}
		return "", false
	}
	return fileName, true
}

// artifactPath stores paths relative to the artifact root so the serving
// layer can prefix them with its own mount point.
func (s *Songwriter) artifactPath(song *models.Song, fileName string) *string {
	p := filepath.ToSlash(filepath.Join(song.ID.String(), fileName))
	return &p
}

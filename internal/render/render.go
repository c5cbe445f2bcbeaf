package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/verseforge/verseforge-api/internal/score"
)

// ErrRenderUnavailable marks a recoverable synthesis failure. Score
// artifacts remain valid; only the audio output is withheld.
var ErrRenderUnavailable = errors.New("render unavailable")

// Mode selects which channels end up in the mixdown.
type Mode string

const (
	// ModeComplete mixes every channel present in the document.
	ModeComplete Mode = "complete"
	// ModeInstrumental filters the vocal channel before mixing.
	ModeInstrumental Mode = "instrumental"
)

const (
	DefaultSampleRate = 44100

	stereoChannels = 2
	renderTimeout  = 2 * time.Minute
)

// Engine drives the external synthesis engine (FluidSynth) as a
// subprocess, feeding it a score with instrument programs applied and a
// loaded soundfont, and collecting the raw PCM it produces.
type Engine struct {
	binaryPath    string
	soundfontPath string
	sampleRate    int
	gain          float64
}

// NewEngine configures a synthesis engine. Nothing is validated here;
// availability is checked per render so a soundfont installed after boot is
// picked up.
func NewEngine(binaryPath, soundfontPath string, sampleRate int, gain float64) *Engine {
	if binaryPath == "" {
		binaryPath = "fluidsynth"
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if gain <= 0 {
		gain = 1.0
	}
	return &Engine{
		binaryPath:    binaryPath,
		soundfontPath: soundfontPath,
		sampleRate:    sampleRate,
		gain:          gain,
	}
}

// Render mixes the document down to a WAV file at outPath. Instrumental
// mode renders a reduced document with the vocal channel removed. Any
// synthesis failure comes back wrapped in ErrRenderUnavailable.
func (e *Engine) Render(ctx context.Context, doc *score.Document, mode Mode, outPath string) error {
	start := time.Now()

	if mode == ModeInstrumental {
		doc = doc.WithoutChannel(score.ChannelVocal)
	}

	if e.soundfontPath == "" {
		return fmt.Errorf("%w: no soundfont configured", ErrRenderUnavailable)
	}
	if _, err := os.Stat(e.soundfontPath); err != nil {
		return fmt.Errorf("%w: soundfont not found at %s", ErrRenderUnavailable, e.soundfontPath)
	}

	tmpDir, err := os.MkdirTemp("", "verseforge-render-*")
	if err != nil {
		return fmt.Errorf("creating render workspace: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// The synthesis engine reads a score that already carries its program
	// changes, one per melodic channel, ahead of any notes.
	scorePath := filepath.Join(tmpDir, "render.mid")
	if err := score.WriteRenderScore(doc, scorePath); err != nil {
		return fmt.Errorf("preparing render score: %w", err)
	}

	rawPath := filepath.Join(tmpDir, "render.pcm")

	renderCtx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	cmd := exec.CommandContext(renderCtx, e.binaryPath,
		"-ni",
		"-T", "raw",
		"-O", "s16",
		"-F", rawPath,
		"-r", fmt.Sprintf("%d", e.sampleRate),
		"-g", fmt.Sprintf("%g", e.gain),
		e.soundfontPath,
		scorePath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s not installed", ErrRenderUnavailable, e.binaryPath)
		}
		return fmt.Errorf("%w: synthesis failed: %v (%s)", ErrRenderUnavailable, err, firstLine(output))
	}

	pcm, err := os.ReadFile(rawPath)
	if err != nil {
		return fmt.Errorf("%w: synthesis produced no output: %v", ErrRenderUnavailable, err)
	}
	if len(pcm) == 0 {
		return fmt.Errorf("%w: synthesis produced an empty buffer", ErrRenderUnavailable)
	}

	if err := writeWAV(outPath, pcm, e.sampleRate, stereoChannels); err != nil {
		return err
	}

	log.Printf("🔊 Rendered %s mixdown in %v (%d PCM bytes -> %s)", mode, time.Since(start), len(pcm), outPath)
	return nil
}

func firstLine(output []byte) string {
	for i, b := range output {
		if b == '\n' {
			return string(output[:i])
		}
	}
	return string(output)
}

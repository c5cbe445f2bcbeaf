package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/verseforge/verseforge-api/internal/models"
)

func strPtr(s string) *string { return &s }

func TestToSongResultURLs(t *testing.T) {
	h := NewSongHandler(nil, nil)
	id := uuid.New()
	song := &models.Song{
		ID:                id,
		Theme:             "summer rain",
		Status:            models.SongStatusComplete,
		Lyrics:            "line one\nline two",
		ScorePath:         strPtr(id.String() + "/score.mid"),
		VocalScorePath:    strPtr(id.String() + "/vocal_score.mid"),
		CompleteAudioPath: strPtr(id.String() + "/complete.wav"),
	}

	result := h.toSongResult(song)

	assert.Equal(t, id.String(), result.ID)
	assert.Equal(t, "complete", result.Status)
	assert.Equal(t, "/artifacts/"+id.String()+"/score.mid", result.ScoreURL)
	assert.Equal(t, "/artifacts/"+id.String()+"/vocal_score.mid", result.VocalScoreURL)
	assert.Equal(t, "/artifacts/"+id.String()+"/complete.wav", result.CompleteAudioURL)
}

func TestToSongResultOmitsMissingAudio(t *testing.T) {
	h := NewSongHandler(nil, nil)
	song := &models.Song{
		ID:        uuid.New(),
		Status:    models.SongStatusPartial,
		ScorePath: strPtr("x/score.mid"),
	}

	result := h.toSongResult(song)

	// No audio paths means no audio URLs, not empty-string links
	assert.Empty(t, result.CompleteAudioURL)
	assert.Empty(t, result.InstrumentalAudioURL)
	assert.Equal(t, "partial", result.Status)
}

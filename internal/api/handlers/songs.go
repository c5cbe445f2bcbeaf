package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/verseforge/verseforge-api/internal/llm"
	"github.com/verseforge/verseforge-api/internal/models"
	"github.com/verseforge/verseforge-api/internal/services"
	"gorm.io/gorm"
)

const (
	artifactMount = "/artifacts"
	listPageSize  = 50
)

// allowedModels are the generation models the API accepts
var allowedModels = map[string]bool{
	// OpenAI GPT-5 models
	"gpt-5-mini": true,
	"gpt-5-nano": true,
	// Google Gemini 2.5 models
	"gemini-2.5-flash": true,
	"gemini-2.5-pro":   true,
}

type SongHandler struct {
	songwriter *services.Songwriter
	db         *gorm.DB
}

func NewSongHandler(songwriter *services.Songwriter, db *gorm.DB) *SongHandler {
	return &SongHandler{
		songwriter: songwriter,
		db:         db,
	}
}

// sseEvent mirrors the streaming event shape used by the LLM providers so
// clients consume one format across the whole pipeline.
type sseEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Generate runs the song pipeline and streams progress over SSE.
func (h *SongHandler) Generate(c *gin.Context) {
	var req models.GenerateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Model != "" && !allowedModels[req.Model] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid model. Allowed: gpt-5-mini, gpt-5-nano, gemini-2.5-flash, gemini-2.5-pro",
		})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// Token-level provider events and pipeline-step progress share the SSE
	// stream; their event types never overlap.
	stream := func(event llm.StreamEvent) error {
		h.writeEvent(c, sseEvent{
			Type:    event.Type,
			Message: event.Message,
			Data:    event.Data,
		})
		return nil
	}

	song, err := h.songwriter.GenerateSong(c.Request.Context(), req, stream, func(update models.ProgressUpdate) {
		h.writeEvent(c, sseEvent{
			Type:    "progress",
			Message: update.Message,
			Data:    update,
		})
	})
	if err != nil {
		errorEvent := sseEvent{
			Type:    "error",
			Message: err.Error(),
		}
		if song != nil {
			errorEvent.Data = gin.H{"song_id": song.ID.String()}
		}
		h.writeEvent(c, errorEvent)
		return
	}

	h.writeEvent(c, sseEvent{
		Type:    "result",
		Message: "Song generation complete",
		Data:    h.toSongResult(song),
	})
	h.writeEvent(c, sseEvent{
		Type:    "done",
		Message: "Stream complete",
		Data:    gin.H{"request_id": c.GetString("request_id")},
	})
}

// GetSong returns a single song by ID.
func (h *SongHandler) GetSong(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song ID"})
		return
	}

	var song models.Song
	if err := h.db.WithContext(c.Request.Context()).First(&song, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load song"})
		return
	}

	c.JSON(http.StatusOK, h.toSongResult(&song))
}

// ListSongs returns the most recent songs.
func (h *SongHandler) ListSongs(c *gin.Context) {
	var songs []models.Song
	err := h.db.WithContext(c.Request.Context()).
		Order("created_at DESC").
		Limit(listPageSize).
		Find(&songs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list songs"})
		return
	}

	results := make([]*models.SongResult, 0, len(songs))
	for i := range songs {
		results = append(results, h.toSongResult(&songs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"songs": results})
}

func (h *SongHandler) toSongResult(song *models.Song) *models.SongResult {
	result := &models.SongResult{
		ID:     song.ID.String(),
		Theme:  song.Theme,
		Status: string(song.Status),
		Lyrics: song.Lyrics,
	}
	result.ScoreURL = artifactURL(song.ScorePath)
	result.VocalScoreURL = artifactURL(song.VocalScorePath)
	result.CompleteAudioURL = artifactURL(song.CompleteAudioPath)
	result.InstrumentalAudioURL = artifactURL(song.InstrumentalAudioPath)
	return result
}

func artifactURL(path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	return artifactMount + "/" + *path
}

func (h *SongHandler) writeEvent(c *gin.Context, event sseEvent) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(c.Writer, "data: %s\n\n", eventJSON)
	c.Writer.Flush()
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SongStatus is the terminal state of a generation attempt. A song whose
// score files exist but whose audio rendering failed is "partial", which
// is still a successful outcome.
type SongStatus string

const (
	SongStatusGenerating SongStatus = "generating"
	SongStatusComplete   SongStatus = "complete"
	SongStatusPartial    SongStatus = "partial"
	SongStatusFailed     SongStatus = "failed"
)

// Song is the persisted record of one generation attempt and its artifacts.
// Audio paths are pointers so a failed render stores NULL and the JSON field
// is omitted rather than serialized as an empty string.
type Song struct {
	ID        uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Theme  string     `gorm:"not null" json:"theme"`
	Status SongStatus `gorm:"default:'generating';index" json:"status"`

	Tempo int    `json:"tempo,omitempty"`
	Key   string `json:"key,omitempty"`
	Scale string `json:"scale,omitempty"`

	Lyrics string `json:"lyrics,omitempty"`

	ScorePath             *string `json:"score_path,omitempty"`
	VocalScorePath        *string `json:"vocal_score_path,omitempty"`
	CompleteAudioPath     *string `json:"complete_audio_path,omitempty"`
	InstrumentalAudioPath *string `json:"instrumental_audio_path,omitempty"`

	Error string `json:"error,omitempty"`
}

// BeforeCreate assigns the song ID.
func (s *Song) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

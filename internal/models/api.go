package models

// GenerateSongRequest is the client request that kicks off a song.
type GenerateSongRequest struct {
	Theme    string `json:"theme" binding:"required"`
	Provider string `json:"provider,omitempty"` // "openai" or "gemini"; inferred from model when empty
	Model    string `json:"model,omitempty"`
}

// ProgressUpdate is streamed to the client after each pipeline step.
type ProgressUpdate struct {
	Step       int    `json:"step"`
	Total      int    `json:"total"`
	Message    string `json:"message"`
	Percentage int    `json:"percentage"`
}

// SongResult is the final payload of a successful (or partial) generation.
// Audio URLs are omitted entirely when rendering was unavailable so a client
// never sees an empty string that looks like a broken link.
type SongResult struct {
	ID     string `json:"id"`
	Theme  string `json:"theme"`
	Status string `json:"status"`
	Lyrics string `json:"lyrics"`

	ScoreURL      string `json:"score_url"`
	VocalScoreURL string `json:"vocal_score_url"`

	CompleteAudioURL     string `json:"complete_audio_url,omitempty"`
	InstrumentalAudioURL string `json:"instrumental_audio_url,omitempty"`
}

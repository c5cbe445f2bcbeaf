package llm

import "context"

// Provider defines the interface for LLM providers.
// All providers MUST support structured output (JSON Schema) so the musical
// payloads they return can be parsed reliably at the boundary.
type Provider interface {
	// Generate runs one structured-output request and returns the raw JSON
	// text the model produced.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// GenerateStream is Generate with incremental updates through callback.
	GenerateStream(ctx context.Context, request *GenerationRequest, callback StreamCallback) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model         string
	InputArray    []map[string]any
	ReasoningMode string
	SystemPrompt  string
	// Structured output schema - REQUIRED for reliable JSON parsing
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// GenerationResponse contains the result from the LLM. RawOutput is the
// JSON (or plain) text; callers parse it into their own strict types.
type GenerationResponse struct {
	RawOutput string `json:"-"`
	Usage     any    `json:"usage"`
}

// StreamCallback is called for each streaming event
type StreamCallback func(event StreamEvent) error

// StreamEvent represents a server-sent event during streaming
type StreamEvent struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

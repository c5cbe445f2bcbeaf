package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
	maxLogEventCount   = 5
	geminiUserRole     = "user"
)

// GeminiProvider implements the Provider interface using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Generate implements non-streaming generation using Gemini's API
func (p *GeminiProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("🎵 GEMINI GENERATION REQUEST STARTED (Model: %s)", request.Model)

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "gemini.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", "gemini")

	contents := p.buildGeminiContents(request.InputArray)
	config := p.buildGeminiConfig(request)

	log.Printf("🚨 GEMINI: About to call Gemini API with model='%s'", request.Model)

	// Call Gemini API
	span := transaction.StartChild("gemini.api_call")
	apiStartTime := time.Now()
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ GEMINI REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	log.Printf("⏱️  GEMINI API CALL COMPLETED in %v", apiDuration)

	// Process response
	response, err := p.processGeminiResponse(result, startTime, transaction)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}

	transaction.SetTag("success", "true")
	return response, nil
}

// GenerateStream implements streaming generation for Gemini
func (p *GeminiProvider) GenerateStream(
	ctx context.Context, request *GenerationRequest, callback StreamCallback,
) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("🎵 GEMINI STREAMING GENERATION REQUEST STARTED (Model: %s)", request.Model)

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "gemini.generate_stream")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", "gemini")
	transaction.SetTag("streaming", "true")

	contents := p.buildGeminiContents(request.InputArray)
	config := p.buildGeminiConfig(request)

	log.Printf("🚨 GEMINI STREAMING: About to call Gemini streaming API with model='%s'", request.Model)

	// Call Gemini streaming API
	iter := p.client.Models.GenerateContentStream(ctx, request.Model, contents, config)

	// Process stream
	response, err := p.processGeminiStream(iter, callback, startTime)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}

	transaction.SetTag("success", "true")
	log.Printf("✅ GEMINI STREAMING GENERATION COMPLETED in %v", time.Since(startTime))

	return response, nil
}

// buildGeminiContents converts our input array to Gemini Content format
func (p *GeminiProvider) buildGeminiContents(inputArray []map[string]any) []*genai.Content {
	var contents []*genai.Content

	for _, item := range inputArray {
		role, hasRole := item["role"].(string)
		content, hasContent := item["content"].(string)

		if !hasRole || !hasContent {
			log.Printf("⚠️  Skipping invalid input item (missing role or content): %v", item)
			continue
		}

		// Convert role to Gemini format
		geminiRole := geminiUserRole // Gemini uses "user" and "model"
		if role == "developer" || role == "system" {
			geminiRole = geminiUserRole // System messages go as user in Gemini
		}

		contents = append(contents, &genai.Content{
			Role:  geminiRole,
			Parts: []*genai.Part{{Text: content}},
		})
	}

	return contents
}

// buildGeminiConfig applies the system prompt and, when an output schema is
// requested, structured JSON output.
func (p *GeminiProvider) buildGeminiConfig(request *GenerationRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		},
	}

	if request.OutputSchema != nil {
		config.ResponseMIMEType = mimeTypeJSON
		config.ResponseSchema = convertSchemaToGemini(request.OutputSchema.Schema)
	}

	return config
}

// convertSchemaToGemini maps a JSON Schema object onto Gemini's Schema type.
// Gemini ignores keywords it doesn't support (additionalProperties, numeric
// bounds), so only structure, types, and required lists are carried over.
func convertSchemaToGemini(schema map[string]any) *genai.Schema {
	out := &genai.Schema{}

	switch schema["type"] {
	case "object":
		out.Type = genai.TypeObject
		if props, ok := schema["properties"].(map[string]any); ok {
			out.Properties = make(map[string]*genai.Schema, len(props))
			for name, sub := range props {
				if subSchema, ok := sub.(map[string]any); ok {
					out.Properties[name] = convertSchemaToGemini(subSchema)
				}
			}
		}
		if required, ok := schema["required"].([]string); ok {
			out.Required = required
		}
	case "array":
		out.Type = genai.TypeArray
		if items, ok := schema["items"].(map[string]any); ok {
			out.Items = convertSchemaToGemini(items)
		}
	case "integer":
		out.Type = genai.TypeInteger
	case "number":
		out.Type = genai.TypeNumber
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}

	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}

	return out
}

// processGeminiResponse converts Gemini response to our GenerationResponse
func (p *GeminiProvider) processGeminiResponse(
	result *genai.GenerateContentResponse,
	startTime time.Time,
	transaction *sentry.Span,
) (*GenerationResponse, error) {
	span := transaction.StartChild("process_response")
	defer span.Finish()

	// Extract text from Gemini response
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in Gemini response")
	}

	candidate := result.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no parts in Gemini response")
	}

	textOutput := candidate.Content.Parts[0].Text
	log.Printf("📥 GEMINI RESPONSE: output_length=%d", len(textOutput))

	if textOutput == "" {
		return nil, fmt.Errorf("gemini response did not include any output text")
	}

	// Log usage stats if available
	if result.UsageMetadata != nil {
		log.Printf("📊 GEMINI USAGE: input=%d, output=%d, total=%d",
			result.UsageMetadata.PromptTokenCount,
			result.UsageMetadata.CandidatesTokenCount,
			result.UsageMetadata.TotalTokenCount)
	}

	totalDuration := time.Since(startTime)
	log.Printf("✅ GEMINI GENERATION COMPLETED in %v (output: %s)",
		totalDuration, truncate(textOutput, maxOutputTrunc))

	return &GenerationResponse{
		RawOutput: textOutput,
		Usage:     result.UsageMetadata,
	}, nil
}

// processGeminiStream processes the Gemini streaming response
func (p *GeminiProvider) processGeminiStream(
	iter func(yield func(*genai.GenerateContentResponse, error) bool),
	callback StreamCallback,
	startTime time.Time,
) (*GenerationResponse, error) {
	var accumulatedText string
	var finalUsage *genai.GenerateContentResponseUsageMetadata
	eventCount := 0

	// Send initial event
	_ = callback(StreamEvent{Type: "output_started", Message: "Generating output..."})

	// Iterate over stream using Go 1.23+ iterator pattern
	for chunk, err := range iter {
		if err != nil {
			log.Printf("❌ GEMINI STREAMING ERROR: %v", err)
			return nil, fmt.Errorf("gemini stream error: %w", err)
		}

		eventCount++

		// Send heartbeat periodically
		if eventCount%10 == 0 {
			elapsed := time.Since(startTime)
			_ = callback(StreamEvent{
				Type:    "heartbeat",
				Message: "Processing...",
				Data: map[string]any{
					"events_received": eventCount,
					"elapsed_seconds": int(elapsed.Seconds()),
				},
			})
		}

		// Accumulate text from chunks
		if len(chunk.Candidates) > 0 && len(chunk.Candidates[0].Content.Parts) > 0 {
			text := chunk.Candidates[0].Content.Parts[0].Text
			accumulatedText += text
			if eventCount <= maxLogEventCount {
				log.Printf("✅ Gemini chunk #%d: +%d chars (total: %d)", eventCount, len(text), len(accumulatedText))
			}
		}

		// Save usage metadata
		if chunk.UsageMetadata != nil {
			finalUsage = chunk.UsageMetadata
		}
	}

	log.Printf("📦 Gemini stream complete - accumulated text: %d chars", len(accumulatedText))

	if accumulatedText == "" {
		return nil, fmt.Errorf("gemini stream produced no output text")
	}

	// Send completion event
	_ = callback(StreamEvent{
		Type:    "completed",
		Message: "Generation complete",
		Data: map[string]any{
			"output_length": len(accumulatedText),
		},
	})

	totalDuration := time.Since(startTime)
	log.Printf("⏱️  GEMINI STREAMING TIME: %v", totalDuration)

	return &GenerationResponse{
		RawOutput: accumulatedText,
		Usage:     finalUsage,
	}, nil
}

package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const (
	// Role constants
	userRole      = "user"
	developerRole = "developer"

	// Reasoning effort levels
	reasoningNone    = "none" // GPT-5.2 default - lowest latency
	reasoningMinimal = "minimal"
	reasoningLow     = "low"
	reasoningMedium  = "medium"
	reasoningHigh    = "high"
	reasoningXHigh   = "xhigh" // GPT-5.2 new level - maximum reasoning
	reasoningMin     = "min"
	reasoningMed     = "med"

	// Provider name
	providerNameOpenAI = "openai"

	// Logging limits
	maxLogEventCountOpenAI = 5
	maxOutputTrunc         = 200
)

// OpenAIProvider implements the Provider interface using OpenAI's Responses API
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client: &client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Generate implements non-streaming generation using OpenAI's Responses API
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("🎵 OPENAI GENERATION REQUEST STARTED (Model: %s)", request.Model)

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "openai.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", "openai")

	// Build OpenAI-specific request parameters
	params := p.buildRequestParams(request)

	// Call OpenAI API with Sentry span
	span := transaction.StartChild("openai.api_call")
	apiStartTime := time.Now()
	resp, err := p.client.Responses.New(ctx, params)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ OPENAI REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	log.Printf("⏱️  OPENAI API CALL COMPLETED in %v", apiDuration)

	result, err := p.processResponse(resp, startTime, transaction)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}
	transaction.SetTag("success", "true")
	return result, nil
}

// buildRequestParams converts GenerationRequest to OpenAI-specific ResponseNewParams
func (p *OpenAIProvider) buildRequestParams(request *GenerationRequest) responses.ResponseNewParams {
	// Convert input_array to OpenAI messages format
	inputItems := responses.ResponseInputParam{}

	for _, item := range request.InputArray {
		role, hasRole := item["role"].(string)
		content, hasContent := item["content"].(string)

		if !hasRole || !hasContent {
			log.Printf("⚠️  Skipping invalid input item (missing role or content): %v", item)
			continue
		}

		// Convert role string to OpenAI enum
		var roleEnum responses.EasyInputMessageRole
		switch role {
		case developerRole:
			roleEnum = responses.EasyInputMessageRoleDeveloper
		case userRole:
			roleEnum = responses.EasyInputMessageRoleUser
		default:
			roleEnum = responses.EasyInputMessageRoleUser
		}

		inputItems = append(inputItems,
			responses.ResponseInputItemParamOfMessage(content, roleEnum),
		)
	}

	// Only include reasoning parameter for models that support it (GPT-5 family)
	// Models like gpt-4.1-mini do NOT support reasoning parameters
	modelsWithReasoning := map[string]bool{
		// GPT-5 base
		"gpt-5":      true,
		"gpt-5-mini": true,
		"gpt-5-nano": true,
		// GPT-5.1
		"gpt-5.1":      true,
		"gpt-5.1-mini": true,
		"gpt-5.1-nano": true,
		// GPT-5.2
		"gpt-5.2":      true,
		"gpt-5.2-mini": true,
		"gpt-5.2-nano": true,
		"gpt-5.2-pro":  true,
	}
	supportsReasoning := modelsWithReasoning[request.Model]

	var reasoningEffort shared.ReasoningEffort
	if supportsReasoning {
		switch request.ReasoningMode {
		case reasoningNone:
			// GPT-5.2 default - lowest latency
			reasoningEffort = shared.ReasoningEffort("none")
		case reasoningMinimal, reasoningMin:
			reasoningEffort = responses.ReasoningEffortLow
		case reasoningLow:
			reasoningEffort = responses.ReasoningEffortLow
		case reasoningMedium, reasoningMed:
			reasoningEffort = responses.ReasoningEffortMedium
		case reasoningHigh:
			reasoningEffort = responses.ReasoningEffortHigh
		case reasoningXHigh:
			reasoningEffort = shared.ReasoningEffort("xhigh")
		default:
			reasoningEffort = shared.ReasoningEffort("none")
		}
	}

	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: inputItems,
		},
		Instructions: openai.String(request.SystemPrompt),
	}

	if supportsReasoning {
		params.Reasoning = shared.ReasoningParam{
			Effort: reasoningEffort,
		}
	}

	// Structured output keeps the musical payload parseable at the boundary
	if request.OutputSchema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema(
				request.OutputSchema.Name,
				request.OutputSchema.Schema,
			),
		}
		log.Printf("📋 JSON SCHEMA CONFIGURED: %s", request.OutputSchema.Name)
	}

	return params
}

// processResponse extracts the output text from an OpenAI response
func (p *OpenAIProvider) processResponse(
	resp *responses.Response,
	startTime time.Time,
	transaction *sentry.Span,
) (*GenerationResponse, error) {
	span := transaction.StartChild("process_response")
	defer span.Finish()

	textOutput := p.extractAndCleanTextOutput(resp)
	log.Printf("📥 OPENAI RESPONSE: output_length=%d, output_items=%d, tokens=%d",
		len(textOutput), len(resp.Output), resp.Usage.TotalTokens)

	if textOutput == "" {
		return nil, fmt.Errorf("openai response did not include any output text")
	}

	p.logUsageStats(resp.Usage)

	duration := time.Since(startTime)
	log.Printf("✅ OPENAI GENERATION COMPLETED in %v", duration)

	return &GenerationResponse{
		RawOutput: textOutput,
		Usage:     resp.Usage,
	}, nil
}

// extractAndCleanTextOutput extracts and cleans text output from response
func (p *OpenAIProvider) extractAndCleanTextOutput(resp *responses.Response) string {
	textOutput := resp.OutputText()

	if textOutput == "" {
		return ""
	}

	// Strip markdown code blocks
	cleaned := strings.TrimPrefix(textOutput, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned != textOutput {
		log.Printf("🧹 Stripped markdown code blocks from output: %d -> %d chars", len(textOutput), len(cleaned))
	}

	return cleaned
}

// logUsageStats logs token usage statistics
func (p *OpenAIProvider) logUsageStats(usage responses.ResponseUsage) {
	reasoningTokens := int64(0)
	if usage.OutputTokensDetails.ReasoningTokens > 0 {
		reasoningTokens = usage.OutputTokensDetails.ReasoningTokens
	}
	log.Printf("📊 USAGE: input=%d, output=%d, reasoning=%d, total=%d",
		usage.InputTokens, usage.OutputTokens,
		reasoningTokens, usage.TotalTokens)
}

// truncate truncates a string to maxLen characters
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// GenerateStream implements streaming generation using OpenAI's Responses API
// It streams text chunks as they arrive from the LLM and calls the callback for each chunk
func (p *OpenAIProvider) GenerateStream(
	ctx context.Context,
	request *GenerationRequest,
	callback StreamCallback,
) (*GenerationResponse, error) {
	startTime := time.Now()
	log.Printf("🎵 OPENAI STREAMING GENERATION REQUEST STARTED (Model: %s)", request.Model)

	// Start Sentry transaction
	transaction := sentry.StartTransaction(ctx, "openai.generate_stream")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", "openai")
	transaction.SetTag("streaming", "true")

	// Build OpenAI-specific request parameters
	params := p.buildRequestParams(request)

	// Send initial event
	if callback != nil {
		_ = callback(StreamEvent{Type: "started", Message: "Starting generation..."})
	}

	// Call OpenAI streaming API
	span := transaction.StartChild("openai.api_stream")
	stream := p.client.Responses.NewStreaming(ctx, params)
	defer stream.Close()

	// Accumulate text and track usage
	var accumulatedText string
	var finalResponse *responses.Response
	eventCount := 0

	// Process stream events
	for stream.Next() {
		event := stream.Current()
		eventCount++

		// Log event type for debugging (first few events only)
		if eventCount <= maxLogEventCountOpenAI {
			log.Printf("📥 Stream event #%d: type=%s", eventCount, event.Type)
		}

		switch event.Type {
		case "response.output_text.delta":
			// Text delta - this is what we want to stream
			textDelta := event.AsResponseOutputTextDelta()
			delta := textDelta.Delta
			if delta != "" {
				accumulatedText += delta
				if callback != nil {
					_ = callback(StreamEvent{
						Type:    "text_delta",
						Message: delta,
						Data: map[string]interface{}{
							"accumulated_length": len(accumulatedText),
						},
					})
				}
			}

		case "response.output_text.done":
			log.Printf("✅ Text output complete: %d chars accumulated", len(accumulatedText))

		case "response.completed":
			completedEvent := event.AsResponseCompleted()
			finalResponse = &completedEvent.Response
			log.Printf("✅ Response completed")

		case "response.failed":
			failedEvent := event.AsResponseFailed()
			log.Printf("❌ Stream failed: %s", failedEvent.Response.Error.Message)
			span.Finish()
			transaction.SetTag("success", "false")
			return nil, fmt.Errorf("streaming failed: %s", failedEvent.Response.Error.Message)

		case "error":
			errorEvent := event.AsError()
			log.Printf("❌ Stream error: %s", errorEvent.Message)
			span.Finish()
			transaction.SetTag("success", "false")
			return nil, fmt.Errorf("stream error: %s", errorEvent.Message)

		default:
			if eventCount <= maxLogEventCountOpenAI {
				log.Printf("📋 Other event type: %s", event.Type)
			}
		}

		// Send periodic heartbeat
		if eventCount%50 == 0 {
			elapsed := time.Since(startTime)
			if callback != nil {
				_ = callback(StreamEvent{
					Type:    "heartbeat",
					Message: "Processing...",
					Data: map[string]interface{}{
						"events_received": eventCount,
						"elapsed_seconds": int(elapsed.Seconds()),
					},
				})
			}
		}
	}

	span.Finish()

	// Check for stream error
	if err := stream.Err(); err != nil {
		log.Printf("❌ Stream error: %v", err)
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("stream error: %w", err)
	}

	// Log completion
	duration := time.Since(startTime)
	log.Printf("✅ OPENAI STREAMING COMPLETE: %d events, %d chars, %v duration",
		eventCount, len(accumulatedText), duration)

	// Send completion event
	if callback != nil {
		_ = callback(StreamEvent{
			Type:    "completed",
			Message: "Generation complete",
			Data: map[string]interface{}{
				"total_length": len(accumulatedText),
				"event_count":  eventCount,
			},
		})
	}

	// Build response
	response := &GenerationResponse{
		RawOutput: accumulatedText,
	}

	// Extract usage from final response if available
	if finalResponse != nil {
		response.Usage = finalResponse.Usage
		p.logUsageStats(finalResponse.Usage)
	}

	transaction.SetTag("success", "true")
	return response, nil
}

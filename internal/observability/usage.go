package observability

import (
	"github.com/openai/openai-go/responses"
	"google.golang.org/genai"
)

// TokenUsage is the provider-neutral token accounting for one LLM call.
type TokenUsage struct {
	Input     int
	Output    int
	Reasoning int
	Total     int
	CostUSD   float64
}

// ExtractTokenUsage normalizes the provider-specific usage payload carried on
// a generation response. Unknown payloads yield a zero TokenUsage.
func ExtractTokenUsage(model string, usage any) TokenUsage {
	switch u := usage.(type) {
	case responses.ResponseUsage:
		return TokenUsage{
			Input:     int(u.InputTokens),
			Output:    int(u.OutputTokens),
			Reasoning: int(u.OutputTokensDetails.ReasoningTokens),
			Total:     int(u.TotalTokens),
			CostUSD:   CalculateOpenAICost(model, u),
		}
	case *genai.GenerateContentResponseUsageMetadata:
		if u == nil {
			return TokenUsage{}
		}
		return TokenUsage{
			Input:   int(u.PromptTokenCount),
			Output:  int(u.CandidatesTokenCount),
			Total:   int(u.TotalTokenCount),
			CostUSD: CalculateGeminiCost(model, int(u.PromptTokenCount), int(u.CandidatesTokenCount)),
		}
	default:
		return TokenUsage{}
	}
}

// Map renders the usage in the shape Generation.Usage expects.
func (u TokenUsage) Map() map[string]interface{} {
	return map[string]interface{}{
		"input_tokens":  u.Input,
		"output_tokens": u.Output,
		"total_tokens":  u.Total,
		"cost_usd":      u.CostUSD,
	}
}

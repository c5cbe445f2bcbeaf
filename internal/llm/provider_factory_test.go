package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProviderByExplicitName(t *testing.T) {
	factory := NewProviderFactory("test-openai-key", "test-gemini-key")

	provider, err := factory.GetProvider(context.Background(), "", "openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Name())

	provider, err = factory.GetProvider(context.Background(), "", "gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini", provider.Name())
}

func TestGetProviderByModelPrefix(t *testing.T) {
	factory := NewProviderFactory("test-openai-key", "test-gemini-key")

	tests := []struct {
		model string
		want  string
	}{
		{"gpt-5", "openai"},
		{"gpt-4.1-mini", "openai"},
		{"gemini-2.5-flash", "gemini"},
		{"something-else", "openai"}, // default
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			provider, err := factory.GetProvider(context.Background(), tt.model, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, provider.Name())
		})
	}
}

func TestGetProviderMissingKeys(t *testing.T) {
	factory := NewProviderFactory("", "")

	_, err := factory.GetProvider(context.Background(), "gpt-5", "")
	assert.Error(t, err)

	_, err = factory.GetProvider(context.Background(), "", "gemini")
	assert.Error(t, err)

	_, err = factory.GetProvider(context.Background(), "", "not-a-provider")
	assert.Error(t, err)
}

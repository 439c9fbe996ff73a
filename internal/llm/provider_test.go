package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "# Photosynthesis", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: "# Mitosis"},
	)

	resp1, err := mock.Generate(context.Background(), UserPrompt("first", 100))
	require.NoError(t, err)
	assert.Equal(t, "# Photosynthesis", resp1.Text)
	assert.Equal(t, 10, resp1.Usage.InputTokens)
	assert.Equal(t, "end", resp1.StopReason)

	resp2, err := mock.Generate(context.Background(), UserPrompt("second", 100))
	require.NoError(t, err)
	assert.Equal(t, "# Mitosis", resp2.Text)
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "ok"})

	_, _ = mock.Generate(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})

	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestUserPrompt(t *testing.T) {
	req := UserPrompt("summarize this", 512)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "summarize this"}}, req.Messages)
	assert.Equal(t, 512, req.MaxTokens)
	assert.Empty(t, req.System)
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))

	ctx = WithPurpose(ctx, PurposeNotes)
	assert.Equal(t, "notes", PurposeFrom(ctx))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"openrouter with key", Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "sk-or"}}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
			assert.Equal(t, !tt.wantErr, tt.cfg.Configured())
		})
	}
}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TEXTQUIZ_LLM_PROVIDER", "TEXTQUIZ_GEMINI_API_KEY", "TEXTQUIZ_GEMINI_MODEL",
		"TEXTQUIZ_OPENAI_API_KEY", "TEXTQUIZ_OPENAI_MODEL", "TEXTQUIZ_OPENAI_BASE_URL",
		"TEXTQUIZ_ANTHROPIC_API_KEY", "TEXTQUIZ_ANTHROPIC_MODEL",
		"TEXTQUIZ_OPENROUTER_API_KEY", "TEXTQUIZ_OPENROUTER_MODEL",
		"TEXTQUIZ_LLM_MAX_TOKENS", "TEXTQUIZ_LLM_TIMEOUT",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearLLMEnv(t)
		cfg := ConfigFromEnv()
		assert.Equal(t, "gemini", cfg.Provider)
		assert.Equal(t, "gemini-flash", cfg.Gemini.Model)
		assert.False(t, cfg.Configured())
	})

	t.Run("explicit provider", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("TEXTQUIZ_LLM_PROVIDER", "openai")
		t.Setenv("TEXTQUIZ_OPENAI_API_KEY", "sk-test")
		t.Setenv("TEXTQUIZ_OPENAI_MODEL", "gpt-4o")
		t.Setenv("TEXTQUIZ_LLM_TIMEOUT", "5s")
		t.Setenv("GEMINI_API_KEY", "ignored")

		cfg := ConfigFromEnv()
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
		assert.Equal(t, "5s", cfg.Timeout.String())
		assert.True(t, cfg.Configured())
	})

	t.Run("discovers vendor key", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
		t.Setenv("TEXTQUIZ_LLM_MAX_TOKENS", "1024")

		cfg := ConfigFromEnv()
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
		assert.Equal(t, 1024, cfg.MaxTokens)
	})
}

func TestDiscoverConfig_Priority(t *testing.T) {
	clearLLMEnv(t)
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("OPENAI_API_KEY", "sk-o")
	t.Setenv("GEMINI_API_KEY", "g")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider)
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "gemini"}, nil, nil)
	assert.Error(t, err)

	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.OpenAI.APIKey = "sk-test"
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())
	assert.IsType(t, &TimeoutProvider{}, p)
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)

	versioned := LookupCost("gemini-2.0-flash-001")
	require.NotNil(t, versioned)
	assert.Equal(t, ModelCost{0.1, 0.4}, *versioned)

	mini := LookupCost("gpt-4o-mini-2024-07-18")
	require.NotNil(t, mini)
	assert.Equal(t, ModelCost{0.15, 0.6}, *mini)

	assert.Nil(t, LookupCost("no-such-model"))
}

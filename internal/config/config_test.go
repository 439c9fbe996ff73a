package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var textquizEnv = []string{
	"TEXTQUIZ_ENV", "TEXTQUIZ_LOG_LEVEL", "TEXTQUIZ_ADDR", "TEXTQUIZ_CORS_ORIGINS", "TEXTQUIZ_DB",
	"TEXTQUIZ_NLP_ENGINE", "TEXTQUIZ_SPACY_MODEL", "TEXTQUIZ_PYTHON", "TEXTQUIZ_PYTHON_DIR",
	"TEXTQUIZ_NLP_WORKERS", "TEXTQUIZ_LEXICON_FILE", "TEXTQUIZ_NUM_QUESTIONS",
	"TEXTQUIZ_TF_FALSE_PROBABILITY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range textquizEnv {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Development, cfg.App.Env)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, ":5000", cfg.App.Addr)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Equal(t, EngineSpacy, cfg.NLP.Engine)
	assert.Equal(t, "en_core_web_sm", cfg.NLP.SpacyModel)
	assert.Equal(t, 2, cfg.NLP.Workers)
	assert.Equal(t, 10, cfg.Quiz.NumQuestions)
	assert.Equal(t, 0.5, cfg.Quiz.FalseProbability)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEXTQUIZ_ENV", "Production")
	t.Setenv("TEXTQUIZ_ADDR", ":8080")
	t.Setenv("TEXTQUIZ_CORS_ORIGINS", "http://localhost:3000, https://quiz.example.com,")
	t.Setenv("TEXTQUIZ_NLP_ENGINE", "PROSE")
	t.Setenv("TEXTQUIZ_NLP_WORKERS", "4")
	t.Setenv("TEXTQUIZ_NUM_QUESTIONS", "not-a-number")
	t.Setenv("TEXTQUIZ_TF_FALSE_PROBABILITY", "0.25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Production, cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":8080", cfg.App.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "https://quiz.example.com"}, cfg.App.CORSOrigins)
	assert.Equal(t, EngineProse, cfg.NLP.Engine)
	assert.Equal(t, 4, cfg.NLP.Workers)
	assert.Equal(t, 10, cfg.Quiz.NumQuestions)
	assert.Equal(t, 0.25, cfg.Quiz.FalseProbability)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"unknown engine", func(c *Config) { c.NLP.Engine = "stanza" }, "TEXTQUIZ_NLP_ENGINE"},
		{"no workers", func(c *Config) { c.NLP.Workers = 0 }, "TEXTQUIZ_NLP_WORKERS"},
		{"no questions", func(c *Config) { c.Quiz.NumQuestions = 0 }, "TEXTQUIZ_NUM_QUESTIONS"},
		{"probability above one", func(c *Config) { c.Quiz.FalseProbability = 1.5 }, "TEXTQUIZ_TF_FALSE_PROBABILITY"},
		{"no addr", func(c *Config) { c.App.Addr = "" }, "TEXTQUIZ_ADDR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

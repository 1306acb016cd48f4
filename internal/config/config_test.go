package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AI_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL", "OPENAI_MAX_TOKENS",
		"OPENAI_TEMPERATURE", "AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_KEY", "AZURE_OPENAI_DEPLOYMENT",
		"FEEDBACK_TIMEOUT", "ASSESSMENT_TIMEOUT", "STORE_DRIVER", "STORE_PATH", "MONGODB_URL",
		"DATABASE_NAME", "LOG_LEVEL", "LOG_FORMAT", "QUESTION_SETS_FILE", "RESULTS_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadAppConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadAppConfig()
	assert.Equal(t, ProviderNone, cfg.AI.Provider)
	assert.False(t, cfg.AI.Enabled())
	assert.Equal(t, "bolt", cfg.Store.Driver)
	assert.Equal(t, 20*time.Second, cfg.Interview.FeedbackTimeout)
	assert.Equal(t, 60*time.Second, cfg.Interview.AssessmentTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadAppConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MAX_TOKENS", "512")
	t.Setenv("FEEDBACK_TIMEOUT", "5s")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("LOG_FORMAT", "json")

	cfg := LoadAppConfig()
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, 512, cfg.AI.OpenAI.MaxTokens)
	assert.Equal(t, 5*time.Second, cfg.Interview.FeedbackTimeout)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"unknown driver", func(c *AppConfig) { c.Store.Driver = "redis" }},
		{"bad log format", func(c *AppConfig) { c.Log.Format = "xml" }},
		{"zero feedback timeout", func(c *AppConfig) { c.Interview.FeedbackTimeout = 0 }},
		{"openai without key", func(c *AppConfig) { c.AI.Provider = ProviderOpenAI }},
		{"azure without deployment", func(c *AppConfig) {
			c.AI.Provider = ProviderAzure
			c.AI.Azure.Endpoint = "https://example.openai.azure.com"
			c.AI.Azure.APIKey = "k"
		}},
		{"unknown provider", func(c *AppConfig) { c.AI.Provider = "gemini" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := LoadAppConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadEnvFileMissingIsFine(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RESULTS_DIR=/tmp/out\n"), 0600))
	os.Unsetenv("RESULTS_DIR")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "/tmp/out", LoadAppConfig().Interview.ResultsDir)
}

func TestLoadSampleSeedFile(t *testing.T) {
	seed, err := Load(filepath.Join("..", "..", "config", "question_sets.yaml"))
	require.NoError(t, err)
	assert.Len(t, seed.QuestionSets, 3)
	assert.Equal(t, "default_soft_skills_v1", seed.Defaults.General)
}

func TestParseRejectsInvalidSeeds(t *testing.T) {
	tests := map[string]string{
		"empty": `question_sets: []`,
		"missing id": `
question_sets:
  - name: x
    kind: general
    questions: [a]`,
		"repeated id": `
question_sets:
  - {id: a, name: x, kind: general, questions: [q]}
  - {id: a, name: y, kind: general, questions: [q]}`,
		"bad kind": `
question_sets:
  - {id: a, name: x, kind: marketing, questions: [q]}`,
		"no questions": `
question_sets:
  - {id: a, name: x, kind: general, questions: []}`,
		"blank question": `
question_sets:
  - {id: a, name: x, kind: general, questions: ["  "]}`,
		"unknown default": `
question_sets:
  - {id: a, name: x, kind: general, questions: [q]}
defaults:
  general: b`,
		"default kind mismatch": `
question_sets:
  - {id: a, name: x, kind: designer, questions: [q]}
defaults:
  developer: a`,
		"not yaml": `question_sets: [`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

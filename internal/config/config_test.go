package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithEnv("", envMap(map[string]string{"GOOGLE_API_KEY": "g-key"}))
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.Model)
	assert.Equal(t, []string{"application/pdf"}, cfg.AcceptedTypes)
	assert.Zero(t, cfg.RequestTimeout)
	assert.False(t, cfg.HasR2())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: openai
model: gpt-4o
requestTimeout: 45s
logLevel: debug
openai:
  apiKey: file-key
  baseUrl: http://localhost:11434/v1
r2:
  bucket: resumes
  accessKey: ak
  secretKey: sk
`), 0o600))

	cfg, err := LoadWithEnv(path, envMap(map[string]string{
		"OPENAI_API_KEY": "env-key",
		"ACCEPTED_TYPES": "application/pdf, text/plain",
	}))
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"application/pdf", "text/plain"}, cfg.AcceptedTypes)
	assert.True(t, cfg.HasR2())
	assert.Equal(t, "resumes", cfg.R2.Bucket)
}

func TestLoadOpenAIDefaultModel(t *testing.T) {
	cfg, err := LoadWithEnv("", envMap(map[string]string{
		"PROVIDER":       "OpenAI",
		"OPENAI_API_KEY": "k",
	}))
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, cfg.Model)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing google key", env: map[string]string{}, want: "GOOGLE_API_KEY"},
		{name: "missing openai key", env: map[string]string{"PROVIDER": "openai"}, want: "OPENAI_API_KEY"},
		{name: "unknown provider", env: map[string]string{"PROVIDER": "llama"}, want: "unknown provider"},
		{name: "bad timeout", env: map[string]string{"GOOGLE_API_KEY": "k", "REQUEST_TIMEOUT": "soon"}, want: "REQUEST_TIMEOUT"},
		{name: "bad log level", env: map[string]string{"GOOGLE_API_KEY": "k", "LOG_LEVEL": "chatty"}, want: "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithEnv("", envMap(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"), envMap(nil))
	assert.Error(t, err)
}

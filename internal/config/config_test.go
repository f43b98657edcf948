package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewace/interviewace/internal/llm"
)

// isolate runs the test in an empty directory with no InterviewAce or
// vendor variables set, and points the sqlite default under a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{
		"INTERVIEWACE_DB", "INTERVIEWACE_MODE", "INTERVIEWACE_PORT", "INTERVIEWACE_DB_DRIVER",
		"INTERVIEWACE_DB_DSN", "INTERVIEWACE_LLM_PROVIDER", "INTERVIEWACE_LOG_LEVEL",
		"INTERVIEWACE_LLM_OPENROUTER_API_KEY", "INTERVIEWACE_LLM_TIMEOUT",
		"INTERVIEWACE_RATELIMIT_RPS", "INTERVIEWACE_RATELIMIT_BURST",
		"OPENROUTER_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Mode)
	assert.Equal(t, 8081, c.Port)
	assert.Equal(t, ":8081", c.ListenAddr())
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, filepath.Join(dir, "data", "interviewace", "interviewace.db"), c.DB.DSN)
	assert.Equal(t, "openrouter", c.LLM.Provider)
	assert.Equal(t, 20*time.Second, c.LLM.Timeout)
	assert.Equal(t, 3, c.LLM.Retry.MaxAttempts)
	assert.False(t, c.AIEnabled)
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
	assert.True(t, c.IsDev())
}

func TestLoad_OpenRouterKeyEnablesAI(t *testing.T) {
	isolate(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-or-test", c.LLM.OpenRouter.APIKey)
	assert.True(t, c.AIEnabled)
}

func TestLoad_PrefixedEnv(t *testing.T) {
	isolate(t)
	t.Setenv("INTERVIEWACE_MODE", "PROD")
	t.Setenv("INTERVIEWACE_PORT", "9090")
	t.Setenv("INTERVIEWACE_LOG_LEVEL", "debug")
	t.Setenv("INTERVIEWACE_LLM_PROVIDER", "mock")
	t.Setenv("INTERVIEWACE_LLM_TIMEOUT", "5s")
	t.Setenv("INTERVIEWACE_DB_DRIVER", "postgres")
	t.Setenv("INTERVIEWACE_DB_DSN", "postgres://u:p@localhost/db")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prod", c.Mode)
	assert.False(t, c.IsDev())
	assert.Equal(t, 9090, c.Port)
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())
	assert.Equal(t, "mock", c.LLM.Provider)
	assert.Equal(t, 5*time.Second, c.LLM.Timeout)
	assert.True(t, c.AIEnabled)
	assert.Equal(t, "postgres", c.DB.Driver)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENROUTER_API_KEY=from-dotenv\n"), 0o600))
	// godotenv never overrides a variable that is present, even if empty.
	os.Unsetenv("OPENROUTER_API_KEY")
	t.Cleanup(func() { os.Unsetenv("OPENROUTER_API_KEY") })

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", c.LLM.OpenRouter.APIKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "interviewace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 7000
llm:
  provider: anthropic
  anthropic:
    api_key: sk-ant
ratelimit:
  rps: 0.5
  burst: 2
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, c.Port)
	assert.Equal(t, "anthropic", c.LLM.Provider)
	assert.True(t, c.AIEnabled)
	assert.Equal(t, 0.5, c.RateLimit.RPS)
	assert.Equal(t, 2, c.RateLimit.Burst)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Mode:      "prod",
			Port:      8081,
			DB:        DBConfig{Driver: "postgres", DSN: "postgres://x"},
			LLM:       llmMock(),
			RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown mode normalized", func(c *Config) { c.Mode = "staging" }, false},
		{"bad port", func(c *Config) { c.Port = 0 }, true},
		{"bad driver", func(c *Config) { c.DB.Driver = "mysql" }, true},
		{"postgres without dsn", func(c *Config) { c.DB.DSN = "" }, true},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "llama" }, true},
		{"zero rps", func(c *Config) { c.RateLimit.RPS = 0 }, true},
		{"zero burst raised", func(c *Config) { c.RateLimit.Burst = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, []string{"dev", "prod", "demo"}, c.Mode)
			assert.GreaterOrEqual(t, c.RateLimit.Burst, 1)
		})
	}
}

func TestSlogLevel_Unknown(t *testing.T) {
	c := &Config{LogLevel: "loud"}
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
}

func llmMock() llm.Config {
	return llm.Config{Provider: "mock", Timeout: time.Second}
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_TOKEN", "ADMIN_CHAT_ID", "LOG_LEVEL", "METRICS_ADDR",
	"STATS_INTERVAL", "TRIGGER_MARKER", "TRIGGER_CASE_INSENSITIVE", "TRIGGER_STRIP",
	"RESPOND_IN_PRIVATE", "COMPLETION_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	"OPENAI_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL", "SYSTEM_PROMPT", "MAX_PROMPT_LENGTH",
	"MODERATION_ENABLED", "COMPLETION_TIMEOUT", "SPEECH_MODE", "SPEECH_MARKER",
	"SPEECH_MODEL", "SPEECH_VOICE", "SPEECH_PERFORMER", "SPEECH_TIMEOUT", "REGISTRY_BACKEND",
	"REGISTRY_PATH", "REGISTRY_LOCK_PATH", "DATABASE_URL", "MIGRATIONS_PATH", "POLL_TIMEOUT",
	"POLL_RETRY_DELAY", "PLATFORM_TIMEOUT", "ALLOWED_USERS", "GEMINI_GROUNDING", "SOURCES_LABEL",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	t.Setenv("ADMIN_CHAT_ID", "-1001234")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test_token", cfg.BotToken)
	assert.Equal(t, int64(-1001234), cfg.AdminChatID)
	assert.Equal(t, "#idk", cfg.Trigger.Marker)
	assert.False(t, cfg.Trigger.CaseInsensitive)
	assert.True(t, cfg.Trigger.Strip)
	assert.False(t, cfg.Trigger.RespondInPrivate)
	assert.Equal(t, "openai", cfg.Completion.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Completion.OpenAIModel)
	assert.Equal(t, 4000, cfg.Completion.MaxPromptLength)
	assert.Equal(t, 60*time.Second, cfg.Completion.Timeout)
	assert.Contains(t, cfg.Completion.SystemPrompt, "{name}")
	assert.Equal(t, "request", cfg.Speech.Mode)
	assert.Equal(t, "#voice", cfg.Speech.Marker)
	assert.Equal(t, "file", cfg.Registry.Backend)
	assert.Equal(t, "usersdb.txt", cfg.Registry.Path)
	assert.Equal(t, "usersdb.txt.lck", cfg.Registry.LockPath)
	assert.Equal(t, 10*time.Second, cfg.Telegram.PollTimeout)
	assert.Equal(t, 2*time.Second, cfg.Telegram.RetryDelay)
	assert.Equal(t, 24*time.Hour, cfg.StatsInterval)
	assert.Empty(t, cfg.AllowedUsers)
	assert.False(t, cfg.Completion.GeminiGrounding)
	assert.Equal(t, "Sources", cfg.Completion.SourcesLabel)
	assert.True(t, cfg.UseModeration())
}

func TestLoad_TokenFallback(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_TOKEN", "legacy_token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy_token", cfg.BotToken)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("TRIGGER_MARKER", "??")
	t.Setenv("TRIGGER_CASE_INSENSITIVE", "true")
	t.Setenv("TRIGGER_STRIP", "false")
	t.Setenv("RESPOND_IN_PRIVATE", "1")
	t.Setenv("POLL_RETRY_DELAY", "500ms")
	t.Setenv("REGISTRY_PATH", "/var/lib/bot/chats.txt")
	t.Setenv("REGISTRY_LOCK_PATH", "/run/bot/chats.lck")
	t.Setenv("SPEECH_MODE", "OFF")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "??", cfg.Trigger.Marker)
	assert.True(t, cfg.Trigger.CaseInsensitive)
	assert.False(t, cfg.Trigger.Strip)
	assert.True(t, cfg.Trigger.RespondInPrivate)
	assert.Equal(t, 500*time.Millisecond, cfg.Telegram.RetryDelay)
	assert.Equal(t, "/run/bot/chats.lck", cfg.Registry.LockPath)
	assert.Equal(t, "off", cfg.Speech.Mode)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		contains string
	}{
		{
			name:     "missing token",
			env:      map[string]string{"TELEGRAM_BOT_TOKEN": ""},
			contains: "TELEGRAM_BOT_TOKEN",
		},
		{
			name:     "missing admin chat",
			env:      map[string]string{"ADMIN_CHAT_ID": ""},
			contains: "ADMIN_CHAT_ID",
		},
		{
			name:     "malformed admin chat",
			env:      map[string]string{"ADMIN_CHAT_ID": "admins"},
			contains: "ADMIN_CHAT_ID",
		},
		{
			name:     "missing openai key",
			env:      map[string]string{"OPENAI_API_KEY": ""},
			contains: "OPENAI_API_KEY",
		},
		{
			name:     "gemini without key",
			env:      map[string]string{"COMPLETION_PROVIDER": "gemini", "SPEECH_MODE": "off"},
			contains: "GEMINI_API_KEY",
		},
		{
			name:     "unknown provider",
			env:      map[string]string{"COMPLETION_PROVIDER": "llama"},
			contains: "COMPLETION_PROVIDER",
		},
		{
			name:     "unknown speech mode",
			env:      map[string]string{"SPEECH_MODE": "sometimes"},
			contains: "SPEECH_MODE",
		},
		{
			name:     "postgres without dsn",
			env:      map[string]string{"REGISTRY_BACKEND": "postgres"},
			contains: "DATABASE_URL",
		},
		{
			name:     "bad duration",
			env:      map[string]string{"COMPLETION_TIMEOUT": "forever"},
			contains: "COMPLETION_TIMEOUT",
		},
		{
			name:     "bad bool",
			env:      map[string]string{"TRIGGER_STRIP": "maybe"},
			contains: "TRIGGER_STRIP",
		},
		{
			name:     "speech requested without openai key",
			env:      map[string]string{"COMPLETION_PROVIDER": "gemini", "GEMINI_API_KEY": "g-key", "OPENAI_API_KEY": "", "SPEECH_MODE": "request"},
			contains: "SPEECH_MODE",
		},
		{
			name:     "malformed allowed users",
			env:      map[string]string{"ALLOWED_USERS": "501,ann"},
			contains: "ALLOWED_USERS",
		},
		{
			name:     "grounding without gemini",
			env:      map[string]string{"GEMINI_GROUNDING": "true"},
			contains: "GEMINI_GROUNDING",
		},
		{
			name:     "blank marker",
			env:      map[string]string{"TRIGGER_MARKER": "   "},
			contains: "TRIGGER_MARKER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_GeminiWithoutSpeech(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	t.Setenv("ADMIN_CHAT_ID", "1")
	t.Setenv("COMPLETION_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("SPEECH_MODE", "off")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Completion.Provider)
	assert.False(t, cfg.UseModeration())
}

func TestLoad_GeminiDefaultsSpeechOff(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	t.Setenv("ADMIN_CHAT_ID", "1")
	t.Setenv("COMPLETION_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GEMINI_GROUNDING", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "off", cfg.Speech.Mode)
	assert.True(t, cfg.Completion.GeminiGrounding)
}

func TestLoad_AllowedUsers(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []int64
	}{
		{
			name:     "unset",
			raw:      "",
			expected: nil,
		},
		{
			name:     "single id",
			raw:      "501",
			expected: []int64{501},
		},
		{
			name:     "spaces and blank entries",
			raw:      " 501, ,-42 ,7,",
			expected: []int64{501, -42, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			t.Setenv("ALLOWED_USERS", tt.raw)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.AllowedUsers)
		})
	}
}

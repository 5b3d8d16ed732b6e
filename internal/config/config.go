package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSystemPrompt = "You are EngeyBot, here to help {name} with a question they have. " +
	"Provide every piece of knowledge you can about the subject {name} asked about. " +
	"Match the energy and emotion of the question, and greet {name} by name in a warm " +
	"and fun way before giving the answer."

// Config holds all application configuration
type Config struct {
	BotToken      string
	AdminChatID   int64
	AllowedUsers  []int64
	LogLevel      string
	MetricsAddr   string
	StatsInterval time.Duration

	Trigger    TriggerConfig
	Completion CompletionConfig
	Speech     SpeechConfig
	Registry   RegistryConfig
	Telegram   TelegramConfig
}

// TriggerConfig controls which messages get answered
type TriggerConfig struct {
	Marker           string
	CaseInsensitive  bool
	Strip            bool
	RespondInPrivate bool
}

// CompletionConfig holds completion provider settings
type CompletionConfig struct {
	Provider        string
	OpenAIKey       string
	OpenAIBaseURL   string
	OpenAIModel     string
	GeminiKey       string
	GeminiModel     string
	GeminiGrounding bool
	SourcesLabel    string
	SystemPrompt    string
	MaxPromptLength int
	Moderation      bool
	Timeout         time.Duration
}

// SpeechConfig holds text-to-speech settings
type SpeechConfig struct {
	Mode      string
	Marker    string
	Model     string
	Voice     string
	Performer string
	Timeout   time.Duration
}

// RegistryConfig selects and configures the chat registry backend
type RegistryConfig struct {
	Backend        string
	Path           string
	LockPath       string
	DatabaseURL    string
	MigrationsPath string
}

// TelegramConfig holds long polling settings
type TelegramConfig struct {
	PollTimeout     time.Duration
	RetryDelay      time.Duration
	PlatformTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	p := &envParser{}

	cfg := &Config{
		BotToken:      firstNonEmpty(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_TOKEN")),
		AdminChatID:   p.int64("ADMIN_CHAT_ID", 0),
		AllowedUsers:  p.int64List("ALLOWED_USERS"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		StatsInterval: p.duration("STATS_INTERVAL", 24*time.Hour),
		Trigger: TriggerConfig{
			Marker:           getEnv("TRIGGER_MARKER", "#idk"),
			CaseInsensitive:  p.bool("TRIGGER_CASE_INSENSITIVE", false),
			Strip:            p.bool("TRIGGER_STRIP", true),
			RespondInPrivate: p.bool("RESPOND_IN_PRIVATE", false),
		},
		Completion: CompletionConfig{
			Provider:        strings.ToLower(getEnv("COMPLETION_PROVIDER", "openai")),
			OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			GeminiKey:       os.Getenv("GEMINI_API_KEY"),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			GeminiGrounding: p.bool("GEMINI_GROUNDING", false),
			SourcesLabel:    getEnv("SOURCES_LABEL", "Sources"),
			SystemPrompt:    getEnv("SYSTEM_PROMPT", defaultSystemPrompt),
			MaxPromptLength: p.int("MAX_PROMPT_LENGTH", 4000),
			Moderation:      p.bool("MODERATION_ENABLED", true),
			Timeout:         p.duration("COMPLETION_TIMEOUT", 60*time.Second),
		},
		Speech: SpeechConfig{
			Mode:      strings.ToLower(os.Getenv("SPEECH_MODE")),
			Marker:    getEnv("SPEECH_MARKER", "#voice"),
			Model:     getEnv("SPEECH_MODEL", "tts-1"),
			Voice:     getEnv("SPEECH_VOICE", "nova"),
			Performer: getEnv("SPEECH_PERFORMER", "@EngeyBot"),
			Timeout:   p.duration("SPEECH_TIMEOUT", 60*time.Second),
		},
		Registry: RegistryConfig{
			Backend:        strings.ToLower(getEnv("REGISTRY_BACKEND", "file")),
			Path:           getEnv("REGISTRY_PATH", "usersdb.txt"),
			LockPath:       os.Getenv("REGISTRY_LOCK_PATH"),
			DatabaseURL:    os.Getenv("DATABASE_URL"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		},
		Telegram: TelegramConfig{
			PollTimeout:     p.duration("POLL_TIMEOUT", 10*time.Second),
			RetryDelay:      p.duration("POLL_RETRY_DELAY", 2*time.Second),
			PlatformTimeout: p.duration("PLATFORM_TIMEOUT", 30*time.Second),
		},
	}

	if p.err != nil {
		return nil, p.err
	}
	if cfg.Registry.LockPath == "" {
		cfg.Registry.LockPath = cfg.Registry.Path + ".lck"
	}
	if cfg.Speech.Mode == "" {
		cfg.Speech.Mode = defaultSpeechMode(cfg.Completion)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.AdminChatID == 0 {
		return fmt.Errorf("ADMIN_CHAT_ID is required")
	}
	if strings.TrimSpace(c.Trigger.Marker) == "" {
		return fmt.Errorf("TRIGGER_MARKER must not be empty")
	}

	switch c.Completion.Provider {
	case "openai":
		if c.Completion.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Completion.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("COMPLETION_PROVIDER %q is not supported", c.Completion.Provider)
	}
	if c.Completion.GeminiGrounding && c.Completion.Provider != "gemini" {
		return fmt.Errorf("GEMINI_GROUNDING requires COMPLETION_PROVIDER=gemini")
	}

	switch c.Speech.Mode {
	case "off":
	case "always", "request":
		if c.Completion.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when SPEECH_MODE is %q", c.Speech.Mode)
		}
	default:
		return fmt.Errorf("SPEECH_MODE %q is not supported", c.Speech.Mode)
	}

	switch c.Registry.Backend {
	case "file":
	case "postgres", "sqlite":
		if c.Registry.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s registry", c.Registry.Backend)
		}
	default:
		return fmt.Errorf("REGISTRY_BACKEND %q is not supported", c.Registry.Backend)
	}

	if c.Telegram.PollTimeout < 0 || c.Telegram.RetryDelay <= 0 {
		return fmt.Errorf("POLL_TIMEOUT must be >= 0 and POLL_RETRY_DELAY > 0")
	}

	return nil
}

// defaultSpeechMode turns speech off when no OpenAI key is available to synthesize it
func defaultSpeechMode(c CompletionConfig) string {
	if c.OpenAIKey == "" {
		return "off"
	}
	return "request"
}

// UseModeration reports whether prompts go through the moderation endpoint
func (c *Config) UseModeration() bool {
	return c.Completion.Moderation && c.Completion.OpenAIKey != ""
}

// envParser reads typed values and keeps the first parse error
type envParser struct {
	err error
}

func (p *envParser) bool(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return defaultValue
	}
	return v
}

func (p *envParser) int(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return defaultValue
	}
	return v
}

func (p *envParser) int64(key string, defaultValue int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(key, raw, err)
		return defaultValue
	}
	return v
}

// int64List parses a comma separated list of ids, blank entries are skipped
func (p *envParser) int64List(key string) []int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			p.fail(key, raw, err)
			return nil
		}
		ids = append(ids, v)
	}
	return ids
}

func (p *envParser) duration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return defaultValue
	}
	return v
}

func (p *envParser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

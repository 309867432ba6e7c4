package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported synthesis providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all runtime settings. Everything comes from the
// environment, optionally seeded from a .env file.
type Config struct {
	Provider string `env:"TTS_PROVIDER" envDefault:"gemini"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_TTS_MODEL" envDefault:"gemini-2.5-flash-preview-tts"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_TTS_MODEL" envDefault:"gpt-4o-mini-tts"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	Port           string `env:"PORT" envDefault:"5000"`
	AudioOutputDir string `env:"AUDIO_OUTPUT_DIR" envDefault:"/app/audio_output"`
	DBPath         string `env:"CLIP_DB_PATH"`

	AuthSecret   string `env:"AUTH_SECRET"`
	RateLimitRPM int    `env:"RATE_LIMIT_RPM" envDefault:"0"`
	CacheEnabled bool   `env:"TTS_CACHE" envDefault:"false"`

	SynthWorkers   int           `env:"SYNTH_WORKERS" envDefault:"4"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.AudioOutputDir, "clips.db")
	}
	return cfg, nil
}

// Validate checks that the selected provider is usable.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
	default:
		return fmt.Errorf("unknown TTS provider: %q", c.Provider)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.SynthWorkers < 1 {
		return fmt.Errorf("SYNTH_WORKERS must be at least 1")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// ModelName returns the model identifier for the active provider.
func (c *Config) ModelName() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

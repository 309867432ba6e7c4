package tts

import (
	"context"
	"fmt"

	"github.com/mgiatti/fast-api-gemini-tts/config"
)

// SpeakerConfig assigns a prebuilt voice to a named speaker in the
// input text, e.g. {"name": "Host", "voice": "Kore"}.
type SpeakerConfig struct {
	Name  string `json:"name"`
	Voice string `json:"voice"`
}

// SpeechRequest is one synthesis call. Speakers is optional; without it
// the provider picks its default voice.
type SpeechRequest struct {
	Text     string
	Speakers []SpeakerConfig
}

// Audio is raw synthesized PCM before WAV framing.
type Audio struct {
	PCM         []byte
	SampleRate  int
	Channels    int
	SampleWidth int
}

// Synthesizer turns text into speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) (*Audio, error)
	Voices() []string
	Name() string
}

// New builds the synthesizer selected by the configuration.
func New(ctx context.Context, cfg *config.Config) (Synthesizer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiSynthesizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderOpenAI:
		return NewOpenAISynthesizer(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unknown TTS provider: %q", cfg.Provider)
	}
}

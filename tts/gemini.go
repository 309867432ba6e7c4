package tts

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/mgiatti/fast-api-gemini-tts/audio"
	"github.com/mgiatti/fast-api-gemini-tts/config"
)

// Voice names accepted by the Gemini TTS models.
var geminiVoices = []string{
	"Kore", "Puck", "Charon", "Krypton", "Fenrir",
	"Aoede", "Orpheus", "Pegasus", "Sage", "Tamara",
}

// GeminiSynthesizer synthesizes speech with the Gemini TTS preview
// models through the official SDK.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
}

func NewGeminiSynthesizer(ctx context.Context, apiKey, model string) (*GeminiSynthesizer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		return nil, errors.New("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "initialize genai client")
	}

	return &GeminiSynthesizer{client: client, model: model}, nil
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, req SpeechRequest) (*Audio, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
	}
	if sc := speechConfig(req.Speakers); sc != nil {
		cfg.SpeechConfig = sc
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Text, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if stderrors.As(err, &apiErr) {
			return nil, fmt.Errorf("gemini request failed (status=%d): %s",
				apiErr.Code, strings.TrimSpace(apiErr.Message))
		}
		return nil, errors.Wrap(err, "gemini request failed")
	}

	pcm, err := extractAudio(resp)
	if err != nil {
		return nil, err
	}

	return &Audio{
		PCM:         pcm,
		SampleRate:  audio.SampleRate,
		Channels:    audio.Channels,
		SampleWidth: audio.SampleWidth,
	}, nil
}

func (g *GeminiSynthesizer) Voices() []string {
	return geminiVoices
}

func (g *GeminiSynthesizer) Name() string {
	return config.ProviderGemini
}

// speechConfig maps speaker assignments onto the SDK's multi-speaker
// voice configuration. Returns nil when no speakers are given so the
// model falls back to its default voice.
func speechConfig(speakers []SpeakerConfig) *genai.SpeechConfig {
	if len(speakers) == 0 {
		return nil
	}

	cfgs := make([]*genai.SpeakerVoiceConfig, 0, len(speakers))
	for _, sp := range speakers {
		cfgs = append(cfgs, &genai.SpeakerVoiceConfig{
			Speaker: sp.Name,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: sp.Voice,
				},
			},
		})
	}

	return &genai.SpeechConfig{
		MultiSpeakerVoiceConfig: &genai.MultiSpeakerVoiceConfig{
			SpeakerVoiceConfigs: cfgs,
		},
	}
}

// extractAudio pulls the inline PCM out of a generate-content response.
func extractAudio(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errors.New("no candidates in response")
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return nil, errors.New("no audio in response")
	}
	part := content.Parts[0]
	if part.InlineData == nil || len(part.InlineData.Data) == 0 {
		return nil, errors.New("no audio in response")
	}
	return part.InlineData.Data, nil
}

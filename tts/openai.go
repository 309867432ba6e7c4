package tts

import (
	"context"
	"io"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mgiatti/fast-api-gemini-tts/audio"
	"github.com/mgiatti/fast-api-gemini-tts/config"
)

var openaiVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

const defaultOpenAIVoice = "alloy"

// OpenAISynthesizer synthesizes speech through the OpenAI speech
// endpoint. It requests raw PCM so the output shares the WAV framing
// used for Gemini audio. Multi-speaker assignment is not supported
// here; the first speaker's voice wins, names are ignored.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISynthesizer(apiKey, model, baseURL string) (*OpenAISynthesizer, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		return nil, errors.New("openai model is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAISynthesizer{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (o *OpenAISynthesizer) Synthesize(ctx context.Context, req SpeechRequest) (*Audio, error) {
	voice := defaultOpenAIVoice
	if len(req.Speakers) > 0 && req.Speakers[0].Voice != "" {
		voice = req.Speakers[0].Voice
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create speech")
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		return nil, errors.Wrap(err, "read speech response")
	}
	if len(pcm) == 0 {
		return nil, errors.New("no audio in response")
	}

	return &Audio{
		PCM:         pcm,
		SampleRate:  audio.SampleRate,
		Channels:    audio.Channels,
		SampleWidth: audio.SampleWidth,
	}, nil
}

func (o *OpenAISynthesizer) Voices() []string {
	return openaiVoices
}

func (o *OpenAISynthesizer) Name() string {
	return config.ProviderOpenAI
}

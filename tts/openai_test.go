package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mgiatti/fast-api-gemini-tts/config"
)

func TestOpenAISynthesize(t *testing.T) {
	pcm := bytes.Repeat([]byte{0x10, 0x20}, 64)
	var gotReq map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("path = %q, want /v1/audio/speech", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "audio/pcm")
		w.Write(pcm)
	}))
	defer ts.Close()

	synth, err := NewOpenAISynthesizer("test-key", "gpt-4o-mini-tts", ts.URL+"/v1")
	if err != nil {
		t.Fatalf("NewOpenAISynthesizer: %v", err)
	}

	a, err := synth.Synthesize(context.Background(), SpeechRequest{
		Text:     "hello there",
		Speakers: []SpeakerConfig{{Name: "Host", Voice: "nova"}},
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if !bytes.Equal(a.PCM, pcm) {
		t.Error("PCM does not match server payload")
	}
	if a.SampleRate != 24000 || a.Channels != 1 || a.SampleWidth != 2 {
		t.Errorf("unexpected audio format: %+v", a)
	}

	if gotReq["model"] != "gpt-4o-mini-tts" {
		t.Errorf("model = %v", gotReq["model"])
	}
	if gotReq["input"] != "hello there" {
		t.Errorf("input = %v", gotReq["input"])
	}
	if gotReq["voice"] != "nova" {
		t.Errorf("voice = %v, want first speaker's voice", gotReq["voice"])
	}
	if gotReq["response_format"] != "pcm" {
		t.Errorf("response_format = %v, want pcm", gotReq["response_format"])
	}
}

func TestOpenAISynthesizeDefaultVoice(t *testing.T) {
	var gotReq map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte{0, 0, 0, 0})
	}))
	defer ts.Close()

	synth, err := NewOpenAISynthesizer("test-key", "tts-1", ts.URL+"/v1")
	if err != nil {
		t.Fatalf("NewOpenAISynthesizer: %v", err)
	}
	if _, err := synth.Synthesize(context.Background(), SpeechRequest{Text: "hi"}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotReq["voice"] != defaultOpenAIVoice {
		t.Errorf("voice = %v, want %q", gotReq["voice"], defaultOpenAIVoice)
	}
}

func TestOpenAISynthesizeServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer ts.Close()

	synth, err := NewOpenAISynthesizer("test-key", "tts-1", ts.URL+"/v1")
	if err != nil {
		t.Fatalf("NewOpenAISynthesizer: %v", err)
	}
	if _, err := synth.Synthesize(context.Background(), SpeechRequest{Text: "hi"}); err == nil {
		t.Error("expected an error from a 500 response")
	}
}

func TestNewOpenAISynthesizerValidation(t *testing.T) {
	if _, err := NewOpenAISynthesizer("", "tts-1", ""); err == nil {
		t.Error("missing api key should fail")
	}
	if _, err := NewOpenAISynthesizer("key", "", ""); err == nil {
		t.Error("missing model should fail")
	}
}

func TestFactorySelectsProvider(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, &config.Config{Provider: "espeak"}); err == nil {
		t.Error("unknown provider should fail")
	}

	synth, err := New(ctx, &config.Config{
		Provider:     config.ProviderOpenAI,
		OpenAIAPIKey: "k",
		OpenAIModel:  "tts-1",
	})
	if err != nil {
		t.Fatalf("New(openai): %v", err)
	}
	if synth.Name() != config.ProviderOpenAI {
		t.Errorf("Name() = %q", synth.Name())
	}

	synth, err = New(ctx, &config.Config{
		Provider:     config.ProviderGemini,
		GeminiAPIKey: "k",
		GeminiModel:  "gemini-2.5-flash-preview-tts",
	})
	if err != nil {
		t.Fatalf("New(gemini): %v", err)
	}
	if synth.Name() != config.ProviderGemini {
		t.Errorf("Name() = %q", synth.Name())
	}
}

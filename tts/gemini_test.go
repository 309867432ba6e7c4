package tts

import (
	"context"
	"testing"

	"google.golang.org/genai"
)

var _ Synthesizer = (*GeminiSynthesizer)(nil)
var _ Synthesizer = (*OpenAISynthesizer)(nil)

func TestSpeechConfigEmpty(t *testing.T) {
	if speechConfig(nil) != nil {
		t.Error("speechConfig(nil) should be nil so the model default voice applies")
	}
	if speechConfig([]SpeakerConfig{}) != nil {
		t.Error("speechConfig(empty) should be nil")
	}
}

func TestSpeechConfigMapping(t *testing.T) {
	speakers := []SpeakerConfig{
		{Name: "Host", Voice: "Kore"},
		{Name: "Guest", Voice: "Puck"},
	}

	sc := speechConfig(speakers)
	if sc == nil || sc.MultiSpeakerVoiceConfig == nil {
		t.Fatal("expected multi-speaker voice config")
	}

	cfgs := sc.MultiSpeakerVoiceConfig.SpeakerVoiceConfigs
	if len(cfgs) != 2 {
		t.Fatalf("got %d speaker configs, want 2", len(cfgs))
	}
	for i, sp := range speakers {
		if cfgs[i].Speaker != sp.Name {
			t.Errorf("speaker[%d] = %q, want %q", i, cfgs[i].Speaker, sp.Name)
		}
		vc := cfgs[i].VoiceConfig
		if vc == nil || vc.PrebuiltVoiceConfig == nil {
			t.Fatalf("speaker[%d] missing prebuilt voice config", i)
		}
		if vc.PrebuiltVoiceConfig.VoiceName != sp.Voice {
			t.Errorf("voice[%d] = %q, want %q", i, vc.PrebuiltVoiceConfig.VoiceName, sp.Voice)
		}
	}
}

func TestExtractAudio(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: pcm}},
					},
				},
			},
		},
	}

	got, err := extractAudio(resp)
	if err != nil {
		t.Fatalf("extractAudio: %v", err)
	}
	if string(got) != string(pcm) {
		t.Errorf("extractAudio = %v, want %v", got, pcm)
	}
}

func TestExtractAudioErrors(t *testing.T) {
	cases := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"no content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"no parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}}},
		{
			"empty inline data",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{}}}}},
			}},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := extractAudio(tt.resp); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGeminiVoices(t *testing.T) {
	want := []string{
		"Kore", "Puck", "Charon", "Krypton", "Fenrir",
		"Aoede", "Orpheus", "Pegasus", "Sage", "Tamara",
	}
	g := &GeminiSynthesizer{}
	got := g.Voices()
	if len(got) != len(want) {
		t.Fatalf("got %d voices, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("voice[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if g.Name() != "gemini" {
		t.Errorf("Name() = %q, want gemini", g.Name())
	}
}

func TestNewGeminiSynthesizerValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := NewGeminiSynthesizer(ctx, "", "model"); err == nil {
		t.Error("missing api key should fail")
	}
	if _, err := NewGeminiSynthesizer(ctx, "key", ""); err == nil {
		t.Error("missing model should fail")
	}
}

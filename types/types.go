package types

import "github.com/mgiatti/fast-api-gemini-tts/tts"

// TTSRequest is the body of POST /tts.
type TTSRequest struct {
	Text       string              `json:"text"`
	Speakers   []tts.SpeakerConfig `json:"speakers"`
	SaveToDisk bool                `json:"save_to_disk"`
	Filename   string              `json:"filename"`
}

// StreamRequest is the body of POST /tts/stream and of a WebSocket
// synthesis request on /tts/ws.
type StreamRequest struct {
	Chunks   []string            `json:"chunks"`
	Speakers []tts.SpeakerConfig `json:"speakers"`
	Merge    bool                `json:"merge"`
}

// SavedAudio describes a WAV file written to the output directory.
type SavedAudio struct {
	Message    string `json:"message"`
	Filename   string `json:"filename"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	ID         string `json:"id"`
	DurationMS int64  `json:"duration_ms"`
}

// ChunkFile describes one synthesized chunk of a stream request.
type ChunkFile struct {
	ChunkIndex int    `json:"chunk_index"`
	Filename   string `json:"filename"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
}

// StreamResponse is the body returned by POST /tts/stream.
type StreamResponse struct {
	Message     string      `json:"message"`
	AudioFiles  []ChunkFile `json:"audio_files"`
	TotalChunks int         `json:"total_chunks"`
	Merged      *SavedAudio `json:"merged,omitempty"`
}

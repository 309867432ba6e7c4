package model

import "time"

// Clip is one synthesized WAV file tracked by the clip index.
type Clip struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	Text        string    `json:"text"`
	Voice       string    `json:"voice"`
	Model       string    `json:"model"`
	RequestHash string    `json:"request_hash"`
	ContentHash string    `json:"content_hash"`
	Size        int64     `json:"size"`
	DurationMS  int64     `json:"duration_ms"`
	SampleRate  int       `json:"sample_rate"`
	CreatedAt   time.Time `json:"created_at"`
}

package b3

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"lukechampine.com/blake3"

	"github.com/mgiatti/fast-api-gemini-tts/tts"
)

// Sum returns the hex BLAKE3-256 digest of data.
func Sum(data []byte) string {
	h := blake3.New(32, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SumReader returns the hex BLAKE3-256 digest of everything read from r.
func SumReader(r io.Reader) (string, error) {
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("calculating blake3 hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// RequestKey derives a stable cache key for a synthesis request. Speaker
// order is part of the key; it changes the synthesized output too.
func RequestKey(model, text string, speakers []tts.SpeakerConfig) string {
	var sb strings.Builder
	sb.WriteString(model)
	sb.WriteByte('\n')
	sb.WriteString(text)
	for _, sp := range speakers {
		sb.WriteByte('\n')
		sb.WriteString(sp.Name)
		sb.WriteByte('=')
		sb.WriteString(sp.Voice)
	}
	return Sum([]byte(sb.String()))
}

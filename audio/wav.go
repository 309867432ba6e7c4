package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Gemini TTS returns raw little-endian 16-bit PCM at 24 kHz mono; the
// OpenAI speech endpoint produces the same layout with response_format
// "pcm". Everything in this service is framed with these values.
const (
	SampleRate  = 24000
	Channels    = 1
	SampleWidth = 2

	BlockAlign = Channels * SampleWidth
	ByteRate   = SampleRate * BlockAlign
)

const headerSize = 44

// EncodeWAV wraps raw PCM in a canonical RIFF/WAVE container.
func EncodeWAV(pcm []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(headerSize + len(pcm))
	// bytes.Buffer writes cannot fail
	_ = WriteWAV(&buf, pcm)
	return buf.Bytes()
}

// WriteWAV writes the 44-byte WAV header followed by the PCM payload.
func WriteWAV(w io.Writer, pcm []byte) error {
	var h [headerSize]byte
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+len(pcm)))
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1) // PCM format
	binary.LittleEndian.PutUint16(h[22:24], Channels)
	binary.LittleEndian.PutUint32(h[24:28], SampleRate)
	binary.LittleEndian.PutUint32(h[28:32], ByteRate)
	binary.LittleEndian.PutUint16(h[32:34], BlockAlign)
	binary.LittleEndian.PutUint16(h[34:36], SampleWidth*8)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(len(pcm)))

	if _, err := w.Write(h[:]); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return nil
}

// PCMFromWAV returns the payload of the data chunk of a RIFF/WAVE file.
func PCMFromWAV(b []byte) ([]byte, error) {
	if len(b) < headerSize || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	offset := 12
	for offset+8 <= len(b) {
		id := string(b[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(b[offset+4 : offset+8]))
		if size < 0 || offset+8+size > len(b) {
			return nil, fmt.Errorf("truncated %q chunk", id)
		}
		if id == "data" {
			return b[offset+8 : offset+8+size], nil
		}
		offset += 8 + size
		if size%2 == 1 {
			offset++ // chunks are word-aligned
		}
	}
	return nil, fmt.Errorf("no data chunk found")
}

// DurationMS returns the playback length in milliseconds of a PCM
// payload of the given size.
func DurationMS(pcmLen int) int64 {
	if pcmLen <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(pcmLen)).
		Div(decimal.NewFromInt(ByteRate)).
		Mul(decimal.NewFromInt(1000)).
		IntPart()
}

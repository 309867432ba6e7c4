package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mgiatti/fast-api-gemini-tts/audio"
)

// FileStore writes WAV files into the audio output directory.
type FileStore struct {
	dir string
}

// NewFileStore ensures the output directory exists.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the output directory path.
func (fs *FileStore) Dir() string {
	return fs.dir
}

// SaveWAV frames the PCM payload as a WAV file and writes it under the
// output directory. It returns the full path and the file size.
func (fs *FileStore) SaveWAV(filename string, pcm []byte) (string, int64, error) {
	if filename == "" {
		return "", 0, errors.New("filename is required")
	}

	wav := audio.EncodeWAV(pcm)
	path := filepath.Join(fs.dir, filename)
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return "", 0, errors.Wrap(err, "write wav file")
	}
	return path, int64(len(wav)), nil
}

// Path returns the full path a filename resolves to inside the store.
func (fs *FileStore) Path(filename string) string {
	return filepath.Join(fs.dir, filepath.Base(filename))
}

// Remove deletes a stored file.
func (fs *FileStore) Remove(filename string) error {
	return errors.Wrap(os.Remove(fs.Path(filename)), "remove wav file")
}

// SanitizeFilename reduces a client-supplied filename to a bare .wav
// name. An empty result means the input was unusable.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == ".." {
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(name), ".wav") {
		name += ".wav"
	}
	return name
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mgiatti/fast-api-gemini-tts/audio"
	"github.com/mgiatti/fast-api-gemini-tts/b3"
	"github.com/mgiatti/fast-api-gemini-tts/model"
	"github.com/mgiatti/fast-api-gemini-tts/store"
	"github.com/mgiatti/fast-api-gemini-tts/tts"
	"github.com/mgiatti/fast-api-gemini-tts/types"
	"github.com/mgiatti/fast-api-gemini-tts/workers"
)

const timestampLayout = "20060102_150405"

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": "TTS API"})
}

func (s *Server) handleVoices(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"available_voices": s.synth.Voices()})
}

func (s *Server) handleTTS(c *fiber.Ctx) error {
	var req types.TTSRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing 'text' in request body"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), s.cfg.RequestTimeout)
	defer cancel()

	sreq := tts.SpeechRequest{Text: req.Text, Speakers: req.Speakers}
	requestHash := b3.RequestKey(s.cfg.ModelName(), req.Text, req.Speakers)

	if req.SaveToDisk && s.cfg.CacheEnabled {
		if clip, err := s.clips.FindByRequestHash(ctx, requestHash); err == nil {
			if _, statErr := os.Stat(clip.Path); statErr == nil {
				return c.JSON(savedAudio(clip))
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Printf("clip cache lookup failed: %v", err)
		}
	}

	a, err := s.synth.Synthesize(ctx, sreq)
	if err != nil {
		log.Printf("❌ TTS synthesis error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !req.SaveToDisk {
		wav := audio.EncodeWAV(a.PCM)
		c.Attachment("tts_output.wav")
		c.Set(fiber.HeaderContentType, "audio/wav")
		return c.Send(wav)
	}

	filename := req.Filename
	if filename != "" {
		filename = store.SanitizeFilename(filename)
		if filename == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid filename"})
		}
	} else {
		filename = clipFilename(time.Now())
	}

	path, size, err := s.files.SaveWAV(filename, a.PCM)
	if err != nil {
		log.Printf("❌ saving audio failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	clip := s.newClip(filename, path, size, req.Text, req.Speakers, requestHash, a.PCM)
	s.indexClip(ctx, clip)

	return c.JSON(savedAudio(clip))
}

func (s *Server) handleTTSStream(c *fiber.Ctx) error {
	var req types.StreamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if len(req.Chunks) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing 'chunks' in request body"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), s.cfg.RequestTimeout)
	defer cancel()

	pool, err := workers.NewSynthPool(ctx, s.synth, s.cfg.SynthWorkers)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	pool.Start()
	defer pool.Stop()

	for i, chunk := range req.Chunks {
		pool.Submit(workers.ChunkJob{Index: i, Text: chunk, Speakers: req.Speakers})
	}

	results := make([]workers.ChunkResult, len(req.Chunks))
	for range req.Chunks {
		select {
		case res := <-pool.Results():
			results[res.Index] = res
		case <-ctx.Done():
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ctx.Err().Error()})
		}
	}
	for _, res := range results {
		if res.Err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": res.Err.Error()})
		}
	}

	now := time.Now()
	files := make([]types.ChunkFile, 0, len(results))
	var mergedPCM []byte
	for i, res := range results {
		filename := chunkFilename(i, now)
		path, size, err := s.files.SaveWAV(filename, res.Audio.PCM)
		if err != nil {
			log.Printf("❌ saving chunk %d failed: %v", i, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		files = append(files, types.ChunkFile{
			ChunkIndex: i,
			Filename:   filename,
			Path:       path,
			Size:       size,
		})

		hash := b3.RequestKey(s.cfg.ModelName(), req.Chunks[i], req.Speakers)
		s.indexClip(ctx, s.newClip(filename, path, size, req.Chunks[i], req.Speakers, hash, res.Audio.PCM))

		if req.Merge {
			mergedPCM = append(mergedPCM, res.Audio.PCM...)
		}
	}

	resp := types.StreamResponse{
		Message:     "All chunks processed successfully",
		AudioFiles:  files,
		TotalChunks: len(req.Chunks),
	}

	if req.Merge {
		filename := mergedFilename(now)
		path, size, err := s.files.SaveWAV(filename, mergedPCM)
		if err != nil {
			log.Printf("❌ saving merged audio failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		mergedText := strings.Join(req.Chunks, " ")
		hash := b3.RequestKey(s.cfg.ModelName(), mergedText, req.Speakers)
		clip := s.newClip(filename, path, size, mergedText, req.Speakers, hash, mergedPCM)
		s.indexClip(ctx, clip)
		merged := savedAudio(clip)
		merged.Message = "Merged audio saved successfully"
		resp.Merged = &merged
	}

	return c.JSON(resp)
}

func (s *Server) handleListClips(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	clips, err := s.clips.List(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	total, err := s.clips.Count(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"clips": clips, "total": total})
}

func (s *Server) handleGetClip(c *fiber.Ctx) error {
	clip, err := s.clips.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "clip not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(clip)
}

func (s *Server) handleDownloadClip(c *fiber.Ctx) error {
	clip, err := s.clips.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "clip not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if _, err := os.Stat(clip.Path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "audio file missing"})
	}
	return c.Download(clip.Path, clip.Filename)
}

func (s *Server) handleDeleteClip(c *fiber.Ctx) error {
	clip, err := s.clips.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "clip not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.clips.Delete(c.Context(), clip.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.files.Remove(clip.Filename); err != nil {
		// row is gone; a missing file is not worth failing the request
		log.Printf("removing clip file %s: %v", clip.Filename, err)
	}

	return c.JSON(fiber.Map{"message": "Clip deleted"})
}

// newClip assembles the index record for a freshly synthesized file.
func (s *Server) newClip(filename, path string, size int64, text string, speakers []tts.SpeakerConfig, requestHash string, pcm []byte) *model.Clip {
	return &model.Clip{
		ID:          uuid.NewString(),
		Filename:    filename,
		Path:        path,
		Text:        text,
		Voice:       speakerSummary(speakers),
		Model:       s.cfg.ModelName(),
		RequestHash: requestHash,
		ContentHash: b3.Sum(pcm),
		Size:        size,
		DurationMS:  audio.DurationMS(len(pcm)),
		SampleRate:  audio.SampleRate,
		CreatedAt:   time.Now().UTC(),
	}
}

// indexClip records a clip; the audio file is already on disk, so an
// index failure is logged rather than failing the request.
func (s *Server) indexClip(ctx context.Context, clip *model.Clip) {
	if err := s.clips.Insert(ctx, clip); err != nil {
		log.Printf("clip index insert failed: %v", err)
	}
}

func savedAudio(clip *model.Clip) types.SavedAudio {
	return types.SavedAudio{
		Message:    "Audio saved successfully",
		Filename:   clip.Filename,
		Path:       clip.Path,
		Size:       clip.Size,
		ID:         clip.ID,
		DurationMS: clip.DurationMS,
	}
}

func speakerSummary(speakers []tts.SpeakerConfig) string {
	if len(speakers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(speakers))
	for _, sp := range speakers {
		parts = append(parts, sp.Name+"="+sp.Voice)
	}
	return strings.Join(parts, ",")
}

func clipFilename(now time.Time) string {
	return fmt.Sprintf("tts_%s_%s.wav", now.Format(timestampLayout), uuid.NewString()[:8])
}

func chunkFilename(index int, now time.Time) string {
	return fmt.Sprintf("tts_chunk_%d_%s.wav", index, now.Format(timestampLayout))
}

func mergedFilename(now time.Time) string {
	return fmt.Sprintf("tts_merged_%s_%s.wav", now.Format(timestampLayout), uuid.NewString()[:8])
}

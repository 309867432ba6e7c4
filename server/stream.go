package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"

	"github.com/gofiber/websocket/v2"

	"github.com/mgiatti/fast-api-gemini-tts/audio"
	"github.com/mgiatti/fast-api-gemini-tts/tts"
	"github.com/mgiatti/fast-api-gemini-tts/types"
)

// handleStreamSession synthesizes chunk batches over a WebSocket. Each
// text message is a stream request; every chunk comes back as its own
// event so the client can start playback before the batch finishes.
func (s *Server) handleStreamSession(ws *websocket.Conn) {
	defer ws.Close()
	log.Println("✅ WebSocket stream session started")

	for {
		messageType, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("WebSocket stream session closed")
			} else {
				log.Printf("❌ WebSocket read error: %v", err)
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var req types.StreamRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.writeStreamError(ws, "invalid JSON")
			continue
		}
		if len(req.Chunks) == 0 {
			s.writeStreamError(ws, "Missing 'chunks' in request body")
			continue
		}

		s.streamChunks(ws, req)
	}
}

// streamChunks synthesizes each chunk in order and pushes it to the
// client as a base64 WAV payload.
func (s *Server) streamChunks(ws *websocket.Conn, req types.StreamRequest) {
	for i, chunk := range req.Chunks {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
		a, err := s.synth.Synthesize(ctx, tts.SpeechRequest{Text: chunk, Speakers: req.Speakers})
		cancel()
		if err != nil {
			log.Printf("❌ TTS synthesis error on chunk %d: %v", i, err)
			s.writeStreamError(ws, err.Error())
			return
		}

		event := map[string]interface{}{
			"event":       "chunk",
			"index":       i,
			"audio":       base64.StdEncoding.EncodeToString(audio.EncodeWAV(a.PCM)),
			"duration_ms": audio.DurationMS(len(a.PCM)),
		}
		if err := ws.WriteJSON(event); err != nil {
			log.Printf("❌ WebSocket write error: %v", err)
			return
		}
	}

	done := map[string]interface{}{
		"event":        "done",
		"total_chunks": len(req.Chunks),
	}
	if err := ws.WriteJSON(done); err != nil {
		log.Printf("❌ WebSocket write error: %v", err)
	}
}

func (s *Server) writeStreamError(ws *websocket.Conn, msg string) {
	event := map[string]interface{}{
		"event": "error",
		"error": msg,
	}
	if err := ws.WriteJSON(event); err != nil {
		log.Printf("❌ WebSocket write error: %v", err)
	}
}

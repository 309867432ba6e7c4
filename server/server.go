package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/mgiatti/fast-api-gemini-tts/config"
	"github.com/mgiatti/fast-api-gemini-tts/ratelimit"
	"github.com/mgiatti/fast-api-gemini-tts/store"
	"github.com/mgiatti/fast-api-gemini-tts/tts"
)

// Server wires the TTS API routes onto a fiber app.
type Server struct {
	cfg     *config.Config
	synth   tts.Synthesizer
	files   *store.FileStore
	clips   *store.ClipStore
	limiter *ratelimit.Limiter
	app     *fiber.App
}

func New(cfg *config.Config, synth tts.Synthesizer, files *store.FileStore, clips *store.ClipStore) *Server {
	s := &Server{
		cfg:     cfg,
		synth:   synth,
		files:   files,
		clips:   clips,
		limiter: ratelimit.New(cfg.RateLimitRPM),
	}

	app := fiber.New()
	app.Use(logger.New())
	app.Use(recover.New())
	if cfg.AuthSecret != "" {
		app.Use(s.requireAuth)
	}
	if cfg.RateLimitRPM > 0 {
		app.Use(s.rateLimit)
	}

	app.Get("/health", s.handleHealth)
	app.Get("/voices", s.handleVoices)
	app.Post("/tts", s.handleTTS)
	app.Post("/tts/stream", s.handleTTSStream)

	// Middleware to require WebSocket upgrade on /tts/ws
	app.Use("/tts/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/tts/ws", websocket.New(s.handleStreamSession))

	app.Get("/clips", s.handleListClips)
	app.Get("/clips/:id", s.handleGetClip)
	app.Get("/clips/:id/download", s.handleDownloadClip)
	app.Delete("/clips/:id", s.handleDeleteClip)

	s.app = app
	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) ShutdownWithTimeout(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

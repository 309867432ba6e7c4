package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgiatti/fast-api-gemini-tts/config"
	"github.com/mgiatti/fast-api-gemini-tts/server"
	"github.com/mgiatti/fast-api-gemini-tts/store"
	"github.com/mgiatti/fast-api-gemini-tts/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	files, err := store.NewFileStore(cfg.AudioOutputDir)
	if err != nil {
		log.Fatalf("❌ audio output dir: %v", err)
	}

	db, err := store.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("❌ clip database: %v", err)
	}
	defer db.Close()
	clips := store.NewClipStore(db)

	synth, err := tts.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ init synthesizer: %v", err)
	}
	log.Printf("✅ %s synthesizer ready (model=%s)", synth.Name(), cfg.ModelName())

	srv := server.New(cfg, synth, files, clips)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		if err := srv.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Printf("❌ shutdown error: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("TTS API listening on %s", addr)
	if err := srv.Listen(addr); err != nil {
		log.Fatal(err)
	}
}

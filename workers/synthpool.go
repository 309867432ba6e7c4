package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mgiatti/fast-api-gemini-tts/queue"
	"github.com/mgiatti/fast-api-gemini-tts/tts"
)

// ChunkJob is one piece of a batch synthesis request.
type ChunkJob struct {
	Index    int
	Text     string
	Speakers []tts.SpeakerConfig
}

// ChunkResult carries the synthesized audio, or the error, for one chunk.
type ChunkResult struct {
	Index int
	Audio *tts.Audio
	Err   error
}

// SynthPool fans chunk jobs out across a fixed number of synthesis
// workers. Results come back in completion order; callers restore the
// request order through ChunkResult.Index.
type SynthPool struct {
	ctx     context.Context
	cancel  context.CancelFunc
	synth   tts.Synthesizer
	jobs    *queue.Queue[ChunkJob]
	results chan ChunkResult
	workers int
}

// NewSynthPool creates a pool of the given size. The pool stops when
// Stop is called or the parent context is cancelled.
func NewSynthPool(ctx context.Context, synth tts.Synthesizer, workers int) (*SynthPool, error) {
	if synth == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}
	if workers < 1 {
		return nil, fmt.Errorf("worker count must be at least 1")
	}
	ctx, cancel := context.WithCancel(ctx)
	return &SynthPool{
		ctx:     ctx,
		cancel:  cancel,
		synth:   synth,
		jobs:    queue.New[ChunkJob](),
		results: make(chan ChunkResult, workers),
		workers: workers,
	}, nil
}

// Start launches the worker goroutines.
func (p *SynthPool) Start() {
	for i := 0; i < p.workers; i++ {
		go p.process()
	}
}

// Submit enqueues a chunk for synthesis.
func (p *SynthPool) Submit(job ChunkJob) {
	p.jobs.Enqueue(job)
}

// Results returns the channel the workers deliver on. Every submitted
// job produces exactly one result.
func (p *SynthPool) Results() <-chan ChunkResult {
	return p.results
}

// Stop terminates the worker goroutines.
func (p *SynthPool) Stop() {
	p.cancel()
}

// process polls the job queue, synthesizes each chunk, and delivers the
// result. Synthesis errors are delivered, not swallowed, so the caller
// decides whether the batch fails.
func (p *SynthPool) process() {
	for {
		select {
		case <-p.ctx.Done():
			return
		default:
			job, ok := p.jobs.Dequeue()
			if !ok {
				time.Sleep(10 * time.Millisecond)
				continue
			}

			audio, err := p.synth.Synthesize(p.ctx, tts.SpeechRequest{
				Text:     job.Text,
				Speakers: job.Speakers,
			})
			if err != nil {
				log.Printf("SynthPool: chunk %d failed: %v", job.Index, err)
			}

			select {
			case p.results <- ChunkResult{Index: job.Index, Audio: audio, Err: err}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

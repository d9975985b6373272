// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     audio
// Description: Serialized synthesis and playback of speech requests
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	"github.com/msto63/lauscher/pkg/core/logging"
)

// ErrPlayback wraps every synthesis, decode or output failure
var ErrPlayback = errors.New("playback failed")

// Synthesizer renders text; satisfied by *speech.Adapter
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice speech.VoiceConfig) (speech.Audio, error)
}

// Engine speaks one request at a time. Concurrent Speak calls are served
// in the order they arrived and each returns after its own playback.
type Engine struct {
	synth  Synthesizer
	out    Output
	decode func(speech.Audio) (PCM, error)
	turn   *turnstile
	logger *logging.Logger
}

// NewEngine creates a playback engine
func NewEngine(synth Synthesizer, out Output) *Engine {
	return &Engine{
		synth:  synth,
		out:    out,
		decode: Decode,
		turn:   newTurnstile(),
		logger: logging.New("playback"),
	}
}

// Speak synthesizes, decodes and plays req. Blank text is a no-op.
func (e *Engine) Speak(ctx context.Context, req speech.Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return nil
	}

	release := e.turn.acquire()
	defer release()

	start := time.Now()
	audio, err := e.synth.Synthesize(ctx, req.Text, req.Voice)
	if err != nil {
		return e.fail(req, "synthesize", err)
	}

	pcm, err := e.decode(audio)
	if err != nil {
		return e.fail(req, "decode", err)
	}

	if err := e.out.Play(ctx, pcm); err != nil {
		return e.fail(req, "play", err)
	}

	e.logger.Debug("Speech played",
		"id", req.ID,
		"origin", req.Origin,
		"audio", pcm.Duration(),
		"took", time.Since(start))
	return nil
}

// Pending returns the number of requests holding or waiting for the output
func (e *Engine) Pending() int {
	return e.turn.pending()
}

func (e *Engine) fail(req speech.Request, stage string, err error) error {
	e.logger.Warn("Speech request failed", "id", req.ID, "stage", stage, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrPlayback, stage, err)
}

// turnstile is a FIFO lock: tickets are served strictly in issue order
type turnstile struct {
	mu      sync.Mutex
	cond    *sync.Cond
	next    uint64
	serving uint64
}

func newTurnstile() *turnstile {
	t := &turnstile{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *turnstile) acquire() (release func()) {
	t.mu.Lock()
	ticket := t.next
	t.next++
	for ticket != t.serving {
		t.cond.Wait()
	}
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			t.serving++
			t.cond.Broadcast()
			t.mu.Unlock()
		})
	}
}

func (t *turnstile) pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.next - t.serving)
}

// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     speech
// Description: Adapter bounding STT and TTS calls with timeouts
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package speech

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/msto63/lauscher/pkg/core/logging"
)

// AdapterConfig holds per-call timeouts
type AdapterConfig struct {
	TranscribeTimeout time.Duration
	SynthesizeTimeout time.Duration
}

// DefaultAdapterConfig returns default timeouts
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		TranscribeTimeout: 30 * time.Second,
		SynthesizeTimeout: 60 * time.Second,
	}
}

// Adapter wraps a Transcriber and a Synthesizer and maps every failure
// onto ErrUnintelligible or a ServiceError.
type Adapter struct {
	stt    Transcriber
	tts    Synthesizer
	cfg    AdapterConfig
	logger *logging.Logger
}

// NewAdapter creates an adapter. Either backend may be nil when unused.
func NewAdapter(cfg AdapterConfig, stt Transcriber, tts Synthesizer) *Adapter {
	return &Adapter{
		stt:    stt,
		tts:    tts,
		cfg:    cfg,
		logger: logging.New("speech"),
	}
}

// Transcribe converts seg into text. Blank results become ErrUnintelligible.
func (a *Adapter) Transcribe(ctx context.Context, seg Segment) (Result, error) {
	if a.stt == nil {
		return Result{}, &ServiceError{Backend: "stt", Op: "transcribe", Err: errors.New("no transcriber configured")}
	}
	if seg.Empty() {
		return Result{}, ErrUnintelligible
	}

	if a.cfg.TranscribeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.TranscribeTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := a.stt.Transcribe(ctx, seg)
	if err != nil {
		return Result{}, NewServiceError(a.stt.Name(), "transcribe", err)
	}

	res.Text = strings.TrimSpace(res.Text)
	if res.Text == "" {
		return Result{}, ErrUnintelligible
	}
	if res.Duration == 0 {
		res.Duration = seg.Duration()
	}

	a.logger.Debug("Transcribed segment",
		"backend", a.stt.Name(),
		"text", res.Text,
		"audio", seg.Duration(),
		"took", time.Since(start))
	return res, nil
}

// Synthesize converts text into audio
func (a *Adapter) Synthesize(ctx context.Context, text string, voice VoiceConfig) (Audio, error) {
	if a.tts == nil {
		return Audio{}, &ServiceError{Backend: "tts", Op: "synthesize", Err: errors.New("no synthesizer configured")}
	}
	if strings.TrimSpace(text) == "" {
		return Audio{}, errors.New("nothing to synthesize")
	}

	if a.cfg.SynthesizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.SynthesizeTimeout)
		defer cancel()
	}

	start := time.Now()
	audio, err := a.tts.Synthesize(ctx, text, voice)
	if err != nil {
		return Audio{}, NewServiceError(a.tts.Name(), "synthesize", err)
	}
	if len(audio.Data) == 0 {
		return Audio{}, &ServiceError{Backend: a.tts.Name(), Op: "synthesize", Err: errors.New("empty audio")}
	}

	a.logger.Debug("Synthesized speech",
		"backend", a.tts.Name(),
		"chars", len(text),
		"bytes", len(audio.Data),
		"format", audio.Format,
		"took", time.Since(start))
	return audio, nil
}

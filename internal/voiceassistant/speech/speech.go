// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     speech
// Description: Speech backend contracts shared by STT, TTS and playback
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package speech

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Segment is one captured utterance as mono float32 PCM
type Segment struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the length of the segment
func (s Segment) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.SampleRate)
}

// Empty reports whether the segment carries no audio
func (s Segment) Empty() bool {
	return len(s.Samples) == 0
}

// Result is a successful transcription
type Result struct {
	Text     string
	Language string
	Duration time.Duration
}

// VoiceConfig selects voice and rendering parameters for synthesis
type VoiceConfig struct {
	VoiceID         string
	Model           string
	OutputFormat    string
	Stability       float64
	SimilarityBoost float64
	Style           float64
	Speed           float64
}

// Audio is a synthesized buffer. Format is "mp3", "wav" or "pcm"
// (signed 16 bit little endian mono at SampleRate).
type Audio struct {
	Data       []byte
	Format     string
	SampleRate int
}

// Origin tells where a speech request came from
type Origin string

const (
	OriginListener   Origin = "listener"
	OriginForeground Origin = "foreground"
)

// Request is one unit of text queued for synthesis and playback
type Request struct {
	ID     string
	Text   string
	Voice  VoiceConfig
	Origin Origin
}

// NewRequest creates a request with a fresh id
func NewRequest(text string, voice VoiceConfig, origin Origin) Request {
	return Request{
		ID:     uuid.NewString(),
		Text:   text,
		Voice:  voice,
		Origin: origin,
	}
}

// Transcriber converts a captured segment into text
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, seg Segment) (Result, error)
}

// Synthesizer converts text into an audio buffer
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string, voice VoiceConfig) (Audio, error)
}

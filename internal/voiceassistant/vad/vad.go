// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     vad
// Description: Voice activity detection and utterance segmentation
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package vad

import (
	"math"
	"time"
)

// Detector classifies one frame of mono float32 samples
type Detector interface {
	IsSpeech(frame []float32) (bool, error)
	Close() error
}

// Config holds segmentation settings
type Config struct {
	// SampleRate is the audio sample rate (8000, 16000, 32000 or 48000)
	SampleRate int

	// Mode is the WebRTC aggressiveness (0-3, higher filters more)
	Mode int

	// SilenceDuration of trailing silence that ends an utterance
	SilenceDuration time.Duration

	// MinSpeechDuration below which an utterance is discarded as noise
	MinSpeechDuration time.Duration

	// MaxDuration caps a single utterance
	MaxDuration time.Duration

	// NoSpeechTimeout ends the capture when no speech started at all
	NoSpeechTimeout time.Duration
}

// DefaultConfig returns default segmentation configuration
func DefaultConfig() Config {
	return Config{
		SampleRate:        16000,
		Mode:              2,
		SilenceDuration:   800 * time.Millisecond,
		MinSpeechDuration: 300 * time.Millisecond,
		MaxDuration:       15 * time.Second,
		NoSpeechTimeout:   6 * time.Second,
	}
}

// Decision is the outcome of feeding one frame into a SpeechTracker
type Decision int

const (
	// Continue capturing
	Continue Decision = iota
	// Complete means an utterance ended with trailing silence or hit MaxDuration
	Complete
	// Discard means speech was too short to be an utterance
	Discard
	// NoSpeech means NoSpeechTimeout passed without any speech
	NoSpeech
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Complete:
		return "complete"
	case Discard:
		return "discard"
	case NoSpeech:
		return "no-speech"
	default:
		return "unknown"
	}
}

// SpeechTracker follows speech and silence over consecutive frames.
// Time is measured in audio duration, not wall clock.
type SpeechTracker struct {
	config  Config
	elapsed time.Duration
	speech  time.Duration
	silence time.Duration
	started bool
}

// NewSpeechTracker creates a new speech tracker
func NewSpeechTracker(cfg Config) *SpeechTracker {
	return &SpeechTracker{config: cfg}
}

// Update records one frame of length frame and returns what to do next
func (t *SpeechTracker) Update(isSpeech bool, frame time.Duration) Decision {
	t.elapsed += frame

	if isSpeech {
		t.started = true
		t.speech += frame
		t.silence = 0
	} else if t.started {
		t.silence += frame
	}

	switch {
	case !t.started:
		if t.config.NoSpeechTimeout > 0 && t.elapsed >= t.config.NoSpeechTimeout {
			return NoSpeech
		}
	case t.config.MaxDuration > 0 && t.elapsed >= t.config.MaxDuration:
		return t.finish()
	case t.silence >= t.config.SilenceDuration:
		return t.finish()
	}
	return Continue
}

func (t *SpeechTracker) finish() Decision {
	if t.speech < t.config.MinSpeechDuration {
		return Discard
	}
	return Complete
}

// Started reports whether any speech frame was seen
func (t *SpeechTracker) Started() bool {
	return t.started
}

// SpeechDuration returns the accumulated speech time
func (t *SpeechTracker) SpeechDuration() time.Duration {
	return t.speech
}

// Reset resets the tracker state
func (t *SpeechTracker) Reset() {
	t.elapsed, t.speech, t.silence = 0, 0, 0
	t.started = false
}

// Energy is a threshold detector on frame RMS, used when the WebRTC
// detector cannot be created for the configured sample rate.
type Energy struct {
	Threshold float64
}

// NewEnergy creates an energy detector with a default threshold
func NewEnergy() *Energy {
	return &Energy{Threshold: 0.02}
}

// IsSpeech reports whether the frame RMS exceeds the threshold
func (e *Energy) IsSpeech(frame []float32) (bool, error) {
	return RMS(frame) >= e.Threshold, nil
}

// Close is a no-op
func (e *Energy) Close() error {
	return nil
}

// RMS returns the root mean square level of samples
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

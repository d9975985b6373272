// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     vad
// Description: WebRTC VAD detector
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package vad

import (
	"fmt"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"
)

// WebRTC classifies frames with the WebRTC voice activity detector
type WebRTC struct {
	vad        *webrtcvad.VAD
	sampleRate int
	buf        []byte
}

// NewWebRTC creates a detector for cfg.SampleRate and cfg.Mode
func NewWebRTC(cfg Config) (*WebRTC, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create WebRTC VAD: %w", err)
	}
	if !v.ValidRateAndFrameLength(cfg.SampleRate, FrameSize(cfg.SampleRate)) {
		return nil, fmt.Errorf("invalid sample rate %d for WebRTC VAD", cfg.SampleRate)
	}

	mode := cfg.Mode
	if mode < 0 {
		mode = 0
	}
	if mode > 3 {
		mode = 3
	}
	if err := v.SetMode(mode); err != nil {
		return nil, fmt.Errorf("failed to set VAD mode: %w", err)
	}

	return &WebRTC{vad: v, sampleRate: cfg.SampleRate}, nil
}

// FrameSize returns the number of samples in a 10ms frame
func FrameSize(sampleRate int) int {
	return sampleRate / 100
}

// IsSpeech classifies exactly one 10ms frame; shorter frames are zero padded
func (w *WebRTC) IsSpeech(frame []float32) (bool, error) {
	size := FrameSize(w.sampleRate)
	if cap(w.buf) < size*2 {
		w.buf = make([]byte, size*2)
	}
	w.buf = w.buf[:size*2]

	for i := 0; i < size; i++ {
		var s float32
		if i < len(frame) {
			s = frame[i]
		}
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		w.buf[i*2] = byte(v)
		w.buf[i*2+1] = byte(v >> 8)
	}

	active, err := w.vad.Process(w.sampleRate, w.buf)
	if err != nil {
		return false, fmt.Errorf("VAD processing failed: %w", err)
	}
	return active, nil
}

// Close releases resources
func (w *WebRTC) Close() error {
	return nil
}

// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     stt
// Description: WAV encoding of captured segments for upload
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package stt

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
)

// writeWAV writes seg as 16 bit mono PCM to a new temporary file and
// returns its path. The caller removes the file.
func writeWAV(seg speech.Segment) (string, error) {
	f, err := os.CreateTemp("", "lauscher-*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()

	enc := wav.NewEncoder(f, seg.SampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: seg.SampleRate},
		SourceBitDepth: 16,
		Data:           toPCM16(seg.Samples),
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to finalize wav: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close wav: %w", err)
	}
	return path, nil
}

// toPCM16 clamps float samples to [-1, 1] and scales them to int16 range
func toPCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = int(s * 32767)
	}
	return out
}

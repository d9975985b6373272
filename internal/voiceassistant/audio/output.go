// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     audio
// Description: Speaker output using PortAudio
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package audio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Output plays decoded audio to completion
type Output interface {
	Play(ctx context.Context, pcm PCM) error
}

// SpeakerConfig holds output settings
type SpeakerConfig struct {
	DeviceName      string
	FramesPerBuffer int
}

// Speaker plays PCM on a PortAudio output device
type Speaker struct {
	deviceName      string
	framesPerBuffer int
}

// NewSpeaker creates a new speaker output
func NewSpeaker(cfg SpeakerConfig) *Speaker {
	if cfg.FramesPerBuffer == 0 {
		cfg.FramesPerBuffer = 1024
	}
	return &Speaker{deviceName: cfg.DeviceName, framesPerBuffer: cfg.FramesPerBuffer}
}

// Play writes all samples and returns once the stream drained.
// ctx is checked between buffers.
func (s *Speaker) Play(ctx context.Context, pcm PCM) error {
	if len(pcm.Samples) == 0 {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	device, err := findDevice(s.deviceName, false)
	if err != nil {
		return err
	}

	buffer := make([]float32, s.framesPerBuffer*pcm.Channels)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: pcm.Channels,
			Latency:  device.DefaultHighOutputLatency,
		},
		SampleRate:      float64(pcm.SampleRate),
		FramesPerBuffer: s.framesPerBuffer,
	}, &buffer)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	defer stream.Stop()

	for pos := 0; pos < len(pcm.Samples); pos += len(buffer) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(buffer, pcm.Samples[pos:])
		for i := n; i < len(buffer); i++ {
			buffer[i] = 0
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("failed to write to stream: %w", err)
		}
	}
	return nil
}

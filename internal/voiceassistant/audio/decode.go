// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     audio
// Description: Full-buffer decoding of synthesized speech
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/faiface/beep/mp3"
	"github.com/go-audio/wav"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
)

// PCM is decoded audio as interleaved float32 samples in [-1, 1]
type PCM struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Duration returns the playback length
func (p PCM) Duration() time.Duration {
	if p.SampleRate <= 0 || p.Channels <= 0 {
		return 0
	}
	frames := len(p.Samples) / p.Channels
	return time.Duration(frames) * time.Second / time.Duration(p.SampleRate)
}

// Decode converts a synthesized buffer into PCM
func Decode(a speech.Audio) (PCM, error) {
	switch a.Format {
	case "mp3":
		return decodeMP3(a.Data)
	case "wav":
		return decodeWAV(a.Data)
	case "pcm":
		return decodePCM16(a.Data, a.SampleRate)
	default:
		return PCM{}, fmt.Errorf("unsupported audio format: %q", a.Format)
	}
}

func decodeMP3(data []byte) (PCM, error) {
	stream, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return PCM{}, fmt.Errorf("failed to decode mp3: %w", err)
	}
	defer stream.Close()

	channels := format.NumChannels
	if channels < 1 || channels > 2 {
		channels = 2
	}

	out := PCM{SampleRate: int(format.SampleRate), Channels: channels}
	buf := make([][2]float64, 4096)
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			out.Samples = append(out.Samples, float32(buf[i][0]))
			if channels == 2 {
				out.Samples = append(out.Samples, float32(buf[i][1]))
			}
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return PCM{}, fmt.Errorf("failed to decode mp3: %w", err)
	}
	return out, nil
}

func decodeWAV(data []byte) (PCM, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return PCM{}, fmt.Errorf("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return PCM{}, fmt.Errorf("failed to decode wav: %w", err)
	}

	depth := int(dec.BitDepth)
	if depth < 16 || depth > 32 {
		return PCM{}, fmt.Errorf("unsupported WAV bit depth: %d", depth)
	}
	scale := float32(int64(1) << (depth - 1))

	out := PCM{
		Samples:    make([]float32, len(buf.Data)),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}
	for i, v := range buf.Data {
		out.Samples[i] = float32(v) / scale
	}
	return out, nil
}

func decodePCM16(data []byte, sampleRate int) (PCM, error) {
	if sampleRate <= 0 {
		return PCM{}, fmt.Errorf("raw pcm needs a sample rate")
	}
	n := len(data) / 2
	out := PCM{Samples: make([]float32, n), SampleRate: sampleRate, Channels: 1}
	for i := 0; i < n; i++ {
		out.Samples[i] = float32(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768
	}
	return out, nil
}

// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     audio
// Description: Microphone capture of single utterances
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	"github.com/msto63/lauscher/internal/voiceassistant/vad"
	"github.com/msto63/lauscher/pkg/core/logging"
)

// ErrNoSpeech is returned when a capture ended without a usable utterance
var ErrNoSpeech = errors.New("no speech captured")

// DefaultPreRoll is the audio kept from before the first speech frame
const DefaultPreRoll = 300 * time.Millisecond

// FrameSource delivers consecutive 10ms frames of mono samples
type FrameSource interface {
	Read() ([]float32, error)
	Close() error
}

// CaptureConfig holds microphone settings
type CaptureConfig struct {
	SampleRate int
	DeviceName string
}

type microphone struct {
	stream *portaudio.Stream
	buffer []float32
}

// OpenMicrophone opens an input stream delivering 10ms frames
func OpenMicrophone(cfg CaptureConfig) (FrameSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	device, err := findDevice(cfg.DeviceName, true)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	buffer := make([]float32, vad.FrameSize(cfg.SampleRate))
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(cfg.SampleRate),
		FramesPerBuffer: len(buffer),
	}, buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}

	return &microphone{stream: stream, buffer: buffer}, nil
}

func (m *microphone) Read() ([]float32, error) {
	if err := m.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return nil, err
	}
	frame := make([]float32, len(m.buffer))
	copy(frame, m.buffer)
	return frame, nil
}

func (m *microphone) Close() error {
	m.stream.Stop()
	err := m.stream.Close()
	portaudio.Terminate()
	return err
}

// Recorder captures one utterance per call, segmented by a VAD
type Recorder struct {
	open     func() (FrameSource, error)
	detector vad.Detector
	cfg      vad.Config
	preRoll  time.Duration
	logger   *logging.Logger
}

// NewRecorder creates a recorder reading from the microphone
func NewRecorder(capture CaptureConfig, seg vad.Config, detector vad.Detector) *Recorder {
	return NewRecorderWithSource(func() (FrameSource, error) {
		return OpenMicrophone(capture)
	}, seg, detector)
}

// NewRecorderWithSource creates a recorder on an arbitrary frame source
func NewRecorderWithSource(open func() (FrameSource, error), seg vad.Config, detector vad.Detector) *Recorder {
	return &Recorder{
		open:     open,
		detector: detector,
		cfg:      seg,
		preRoll:  DefaultPreRoll,
		logger:   logging.New("recorder"),
	}
}

// Capture blocks until one utterance has been recorded. It returns
// ErrNoSpeech when the no-speech timeout passed or the speech was too short.
// The input stream is open only for the duration of the call.
func (r *Recorder) Capture(ctx context.Context) (speech.Segment, error) {
	src, err := r.open()
	if err != nil {
		return speech.Segment{}, err
	}
	defer src.Close()

	tracker := vad.NewSpeechTracker(r.cfg)
	var pre [][]float32
	var preLen time.Duration
	var samples []float32

	for {
		if err := ctx.Err(); err != nil {
			return speech.Segment{}, err
		}

		frame, err := src.Read()
		if err != nil {
			return speech.Segment{}, fmt.Errorf("failed to read audio: %w", err)
		}
		frameDur := time.Duration(len(frame)) * time.Second / time.Duration(r.cfg.SampleRate)

		isSpeech, err := r.detector.IsSpeech(frame)
		if err != nil {
			r.logger.Debug("VAD failed on frame", "error", err)
			isSpeech = false
		}

		wasStarted := tracker.Started()
		decision := tracker.Update(isSpeech, frameDur)

		if tracker.Started() {
			if !wasStarted {
				for _, p := range pre {
					samples = append(samples, p...)
				}
				pre = nil
			}
			samples = append(samples, frame...)
		} else {
			pre = append(pre, frame)
			preLen += frameDur
			for preLen > r.preRoll && len(pre) > 0 {
				preLen -= time.Duration(len(pre[0])) * time.Second / time.Duration(r.cfg.SampleRate)
				pre = pre[1:]
			}
		}

		switch decision {
		case vad.Complete:
			seg := speech.Segment{Samples: samples, SampleRate: r.cfg.SampleRate}
			r.logger.Debug("Utterance captured", "duration", seg.Duration(), "speech", tracker.SpeechDuration())
			return seg, nil
		case vad.Discard, vad.NoSpeech:
			return speech.Segment{}, ErrNoSpeech
		}
	}
}

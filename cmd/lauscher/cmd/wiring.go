// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     cmd
// Description: Builds backends and the assistant from configuration
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/msto63/lauscher/internal/voiceassistant"
	"github.com/msto63/lauscher/internal/voiceassistant/audio"
	"github.com/msto63/lauscher/internal/voiceassistant/client"
	"github.com/msto63/lauscher/internal/voiceassistant/session"
	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	"github.com/msto63/lauscher/internal/voiceassistant/stt"
	"github.com/msto63/lauscher/internal/voiceassistant/tts"
	"github.com/msto63/lauscher/internal/voiceassistant/vad"
	"github.com/msto63/lauscher/pkg/core/cache"
	"github.com/msto63/lauscher/pkg/core/config"
	"github.com/msto63/lauscher/pkg/core/logging"
)

// Session modes
const (
	sessionHeadless = "headless"
	sessionRemote   = "remote"
)

func buildLLM(cfg *config.Config) (client.LLM, error) {
	var llm client.LLM
	switch cfg.LLM.Provider {
	case "openai":
		llm = client.NewOpenAIClient(client.OpenAIConfig{
			APIKey:  cfg.Credentials.OpenAIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	case "ollama":
		llm = client.NewOllamaClient(client.OllamaConfig{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout.Duration,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
	return client.Timeout(llm, cfg.LLM.Timeout.Duration), nil
}

func buildTranscriber(cfg *config.Config) (*stt.OpenAITranscriber, error) {
	if cfg.STT.Provider != "openai" {
		return nil, fmt.Errorf("unknown stt provider %q", cfg.STT.Provider)
	}
	return stt.NewOpenAITranscriber(stt.Config{
		APIKey:   cfg.Credentials.OpenAIKey,
		BaseURL:  cfg.STT.BaseURL,
		Model:    cfg.STT.Model,
		Language: cfg.STT.Language,
	}), nil
}

func buildSynthesizer(cfg *config.Config) (speech.Synthesizer, error) {
	switch cfg.TTS.Provider {
	case "elevenlabs":
		return tts.NewElevenLabs(tts.ElevenLabsConfig{
			APIKey:  cfg.Credentials.ElevenLabsKey,
			BaseURL: cfg.TTS.BaseURL,
			Timeout: cfg.TTS.Timeout.Duration,
		}), nil
	case "openai":
		return tts.NewOpenAI(tts.OpenAIConfig{
			APIKey:  cfg.Credentials.OpenAIKey,
			BaseURL: cfg.TTS.BaseURL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown tts provider %q", cfg.TTS.Provider)
	}
}

func voiceConfig(cfg *config.Config) speech.VoiceConfig {
	return speech.VoiceConfig{
		VoiceID:         cfg.TTS.VoiceID,
		Model:           cfg.TTS.ModelID,
		OutputFormat:    cfg.TTS.OutputFormat,
		Stability:       cfg.TTS.Stability,
		SimilarityBoost: cfg.TTS.SimilarityBoost,
		Style:           cfg.TTS.Style,
		Speed:           cfg.TTS.Speed,
	}
}

func segmentConfig(cfg *config.Config) vad.Config {
	return vad.Config{
		SampleRate:        cfg.Audio.SampleRate,
		Mode:              cfg.Audio.VADMode,
		SilenceDuration:   cfg.Audio.Silence.Duration,
		MinSpeechDuration: cfg.Audio.MinSpeech.Duration,
		MaxDuration:       cfg.Audio.MaxUtterance.Duration,
		NoSpeechTimeout:   cfg.Audio.NoSpeechTimeout.Duration,
	}
}

// buildRecorder prefers the WebRTC detector and falls back to the energy
// detector when the sample rate is not supported.
func buildRecorder(cfg *config.Config) *audio.Recorder {
	seg := segmentConfig(cfg)

	var detector vad.Detector
	webrtc, err := vad.NewWebRTC(seg)
	if err != nil {
		logging.New("wiring").Warn("WebRTC VAD unavailable, using energy detector", "error", err)
		detector = vad.NewEnergy()
	} else {
		detector = webrtc
	}

	return audio.NewRecorder(audio.CaptureConfig{
		SampleRate: cfg.Audio.SampleRate,
		DeviceName: cfg.Audio.InputDevice,
	}, seg, detector)
}

// pageSession is a session that reports page changes
type pageSession interface {
	session.Session
	OnChange(session.Observer)
}

func buildSession(ctx context.Context, cfg *config.Config, mode string) (pageSession, error) {
	switch mode {
	case sessionHeadless:
		return session.NewHeadless(session.HeadlessConfig{
			UserAgent: cfg.Session.UserAgent,
			Timeout:   cfg.Session.Timeout.Duration,
		}), nil
	case sessionRemote:
		r, err := session.DialRemote(ctx, session.RemoteConfig{
			URL:     cfg.Session.RemoteURL,
			Timeout: cfg.Session.Timeout.Duration,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown session mode %q", mode)
	}
}

func controllerConfig(cfg *config.Config) voiceassistant.Config {
	c := voiceassistant.DefaultConfig()
	c.Listener.WakeWords = cfg.Assistant.WakeWords
	c.Listener.Acknowledgement = cfg.Assistant.Acknowledgement
	c.Dispatcher.ContentLimit = cfg.Assistant.ContentLimit
	c.Voice = voiceConfig(cfg)
	return c
}

// backends bundles what every assistant needs besides the foreground
type backends struct {
	adapter *speech.Adapter
	engine  *audio.Engine
	llm     client.LLM
}

func buildBackends(cfg *config.Config, withSTT bool) (*backends, error) {
	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}
	synth, err := buildSynthesizer(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.TTS.CachePhrases > 0 {
		synth = speech.NewCachingSynthesizer(synth, cache.Config{
			MaxItems: cfg.TTS.CachePhrases,
			TTL:      time.Hour,
		})
	}

	var transcriber speech.Transcriber
	if withSTT {
		t, err := buildTranscriber(cfg)
		if err != nil {
			return nil, err
		}
		transcriber = t
	}

	adapter := speech.NewAdapter(speech.AdapterConfig{
		TranscribeTimeout: cfg.STT.Timeout.Duration,
		SynthesizeTimeout: cfg.TTS.Timeout.Duration,
	}, transcriber, synth)

	engine := audio.NewEngine(adapter, audio.NewSpeaker(audio.SpeakerConfig{
		DeviceName: cfg.Audio.OutputDevice,
	}))

	return &backends{adapter: adapter, engine: engine, llm: llm}, nil
}

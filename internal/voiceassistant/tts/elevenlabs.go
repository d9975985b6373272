// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     tts
// Description: ElevenLabs text-to-speech client
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	"github.com/msto63/lauscher/pkg/core/logging"
)

const (
	// ElevenLabsAPIEndpoint is the public API base URL
	ElevenLabsAPIEndpoint = "https://api.elevenlabs.io/v1"

	// ElevenLabsDefaultVoice is "Bella"
	ElevenLabsDefaultVoice = "EXAVITQu4vr4xnSDxMaL"
)

// ElevenLabsConfig holds ElevenLabs client configuration
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string

	// StreamingLatency is sent as optimize_streaming_latency (0-4)
	StreamingLatency int

	Timeout time.Duration
}

// DefaultElevenLabsConfig returns default client configuration
func DefaultElevenLabsConfig() ElevenLabsConfig {
	return ElevenLabsConfig{
		BaseURL: ElevenLabsAPIEndpoint,
		Timeout: 60 * time.Second,
	}
}

// ElevenLabs implements speech.Synthesizer against the ElevenLabs REST API
type ElevenLabs struct {
	apiKey  string
	baseURL string
	latency int
	client  *http.Client
	logger  *logging.Logger
}

// NewElevenLabs creates a new ElevenLabs synthesizer
func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = ElevenLabsAPIEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &ElevenLabs{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		latency: cfg.StreamingLatency,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logging.New("elevenlabs-tts"),
	}
}

// Name returns the backend name
func (e *ElevenLabs) Name() string {
	return "elevenlabs"
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id,omitempty"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}

// Synthesize renders text with the voice settings of voice
func (e *ElevenLabs) Synthesize(ctx context.Context, text string, voice speech.VoiceConfig) (speech.Audio, error) {
	if e.apiKey == "" {
		return speech.Audio{}, &speech.ServiceError{Backend: e.Name(), Op: "synthesize", Err: errors.New("API key not set")}
	}

	voiceID := voice.VoiceID
	if voiceID == "" {
		voiceID = ElevenLabsDefaultVoice
	}
	format := voice.OutputFormat
	if format == "" {
		format = "mp3_44100_128"
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: voice.Model,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       voice.Stability,
			SimilarityBoost: voice.SimilarityBoost,
			Style:           voice.Style,
		},
	})
	if err != nil {
		return speech.Audio{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	query := url.Values{}
	query.Set("output_format", format)
	query.Set("optimize_streaming_latency", strconv.Itoa(e.latency))
	endpoint := fmt.Sprintf("%s/text-to-speech/%s?%s", e.baseURL, url.PathEscape(voiceID), query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return speech.Audio{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", e.apiKey)
	httpReq.Header.Set("Accept", acceptHeader(format))

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return speech.Audio{}, &speech.ServiceError{Backend: e.Name(), Op: "synthesize", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return speech.Audio{}, &speech.ServiceError{
			Backend:    e.Name(),
			Op:         "synthesize",
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(respBody))),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return speech.Audio{}, &speech.ServiceError{Backend: e.Name(), Op: "synthesize", Err: fmt.Errorf("failed to read audio: %w", err)}
	}

	container, rate := ParseOutputFormat(format)
	e.logger.Debug("ElevenLabs synthesis complete",
		"voice", voiceID,
		"bytes", len(data),
		"took", time.Since(start))

	return speech.Audio{Data: data, Format: container, SampleRate: rate}, nil
}

// UserURL is the endpoint used for credential checks
func (e *ElevenLabs) UserURL() string {
	return e.baseURL + "/user"
}

// APIKeyHeader returns the auth header for health probes
func (e *ElevenLabs) APIKeyHeader() http.Header {
	return http.Header{"Xi-Api-Key": []string{e.apiKey}}
}

// ParseOutputFormat splits an ElevenLabs output format such as
// "mp3_44100_128" or "pcm_16000" into container and sample rate.
func ParseOutputFormat(format string) (string, int) {
	parts := strings.Split(format, "_")
	container := parts[0]
	rate := 0
	if len(parts) > 1 {
		rate, _ = strconv.Atoi(parts[1])
	}
	return container, rate
}

func acceptHeader(format string) string {
	container, _ := ParseOutputFormat(format)
	switch container {
	case "pcm":
		return "audio/pcm"
	case "wav":
		return "audio/wav"
	default:
		return "audio/mpeg"
	}
}

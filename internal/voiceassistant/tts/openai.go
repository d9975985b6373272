// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     tts
// Description: OpenAI speech synthesis
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package tts

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	"github.com/msto63/lauscher/pkg/core/logging"
)

// OpenAIConfig holds OpenAI speech settings
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// OpenAI implements speech.Synthesizer using CreateSpeech
type OpenAI struct {
	client *openai.Client
	logger *logging.Logger
}

// NewOpenAI creates a new OpenAI synthesizer
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		logger: logging.New("openai-tts"),
	}
}

// Name returns the backend name
func (o *OpenAI) Name() string {
	return "openai-tts"
}

// Synthesize renders text as mp3 (or wav when requested by OutputFormat)
func (o *OpenAI) Synthesize(ctx context.Context, text string, voice speech.VoiceConfig) (speech.Audio, error) {
	model := voice.Model
	if model == "" {
		model = string(openai.TTSModel1)
	}
	voiceID := voice.VoiceID
	if voiceID == "" {
		voiceID = string(openai.VoiceAlloy)
	}
	format := openai.SpeechResponseFormatMp3
	container, _ := ParseOutputFormat(voice.OutputFormat)
	if container == "wav" {
		format = openai.SpeechResponseFormatWav
	}
	speed := voice.Speed
	if speed == 0 {
		speed = 1.0
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(model),
		Input:          text,
		Voice:          openai.SpeechVoice(voiceID),
		ResponseFormat: format,
		Speed:          speed,
	})
	if err != nil {
		se := &speech.ServiceError{Backend: o.Name(), Op: "synthesize", Err: err}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			se.StatusCode = apiErr.HTTPStatusCode
		}
		return speech.Audio{}, se
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return speech.Audio{}, &speech.ServiceError{Backend: o.Name(), Op: "synthesize", Err: fmt.Errorf("failed to read audio: %w", err)}
	}

	o.logger.Debug("OpenAI synthesis complete", "model", model, "voice", voiceID, "bytes", len(data))
	return speech.Audio{Data: data, Format: string(format)}, nil
}

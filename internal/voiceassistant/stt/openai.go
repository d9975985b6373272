// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     stt
// Description: Whisper transcription via the OpenAI audio API
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package stt

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	"github.com/msto63/lauscher/pkg/core/logging"
)

// Config holds transcription backend settings
type Config struct {
	// APIKey for the OpenAI API (may be empty for local compatible servers)
	APIKey string

	// BaseURL overrides the API endpoint, e.g. a vLLM server running Voxtral
	// ("http://localhost:8100/v1"). Empty means api.openai.com.
	BaseURL string

	// Model is the transcription model (default: whisper-1)
	Model string

	// Language is the spoken language hint ("en", "de", ...)
	Language string
}

// DefaultConfig returns default transcription settings
func DefaultConfig() Config {
	return Config{
		Model:    openai.Whisper1,
		Language: "en",
	}
}

// OpenAITranscriber implements speech.Transcriber using CreateTranscription
type OpenAITranscriber struct {
	client   *openai.Client
	model    string
	language string
	logger   *logging.Logger
}

// NewOpenAITranscriber creates a new transcriber
func NewOpenAITranscriber(cfg Config) *OpenAITranscriber {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAITranscriber{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		language: cfg.Language,
		logger:   logging.New("openai-stt"),
	}
}

// Name returns the backend name
func (t *OpenAITranscriber) Name() string {
	return "openai-stt"
}

// Transcribe uploads seg as WAV and returns the recognized text
func (t *OpenAITranscriber) Transcribe(ctx context.Context, seg speech.Segment) (speech.Result, error) {
	if seg.Empty() {
		return speech.Result{}, speech.ErrUnintelligible
	}

	path, err := writeWAV(seg)
	if err != nil {
		return speech.Result{}, err
	}
	defer os.Remove(path)

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: path,
		Language: t.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return speech.Result{}, serviceError(err)
	}

	t.logger.Debug("Transcription received", "model", t.model, "text", resp.Text)

	if resp.Text == "" {
		return speech.Result{}, speech.ErrUnintelligible
	}
	return speech.Result{
		Text:     resp.Text,
		Language: t.language,
		Duration: seg.Duration(),
	}, nil
}

// Ping lists models to verify credentials and reachability
func (t *OpenAITranscriber) Ping(ctx context.Context) error {
	if _, err := t.client.ListModels(ctx); err != nil {
		return serviceError(err)
	}
	return nil
}

func serviceError(err error) error {
	se := &speech.ServiceError{Backend: "openai-stt", Op: "transcribe", Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		se.StatusCode = apiErr.HTTPStatusCode
		se.Err = fmt.Errorf("%s", apiErr.Message)
	case errors.As(err, &reqErr):
		se.StatusCode = reqErr.HTTPStatusCode
	}
	return se
}

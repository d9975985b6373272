// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     client
// Description: OpenAI chat completion client
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds OpenAI client configuration
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// DefaultOpenAIConfig returns default OpenAI configuration
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model: openai.GPT3Dot5Turbo,
	}
}

// OpenAIClient talks to the chat completions endpoint
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIConfig().Model
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Complete sends messages and returns the first choice
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	if err != nil {
		se := &speech.ServiceError{Backend: "openai", Op: "complete", Err: err}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			se.StatusCode = apiErr.HTTPStatusCode
			se.Err = errors.New(apiErr.Message)
		}
		return "", se
	}

	if len(resp.Choices) == 0 {
		return "", speech.NewServiceError("openai", "complete", errors.New("no choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

// HealthCheck lists models to verify credentials and reachability
func (c *OpenAIClient) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Model returns the configured model
func (c *OpenAIClient) Model() string {
	return c.model
}

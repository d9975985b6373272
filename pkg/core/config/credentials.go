// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     config
// Description: Backend credentials from .env and the environment
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables holding backend credentials
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvElevenLabsKey = "ELEVEN_API_KEY"
)

// ErrMissingCredential is returned when a selected backend has no API key.
// It is the only error that aborts startup.
var ErrMissingCredential = errors.New("missing credential")

// Credentials holds API keys for the remote backends
type Credentials struct {
	OpenAIKey     string
	ElevenLabsKey string
}

// LoadCredentials reads .env files (if present) and then the environment.
// Variables already set in the environment win over .env entries.
func LoadCredentials(envFiles ...string) (Credentials, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Credentials{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	return Credentials{
		OpenAIKey:     os.Getenv(EnvOpenAIKey),
		ElevenLabsKey: os.Getenv(EnvElevenLabsKey),
	}, nil
}

// RequireCredentials checks that every configured provider has its key
func (c *Config) RequireCredentials() error {
	needOpenAI := c.STT.Provider == "openai" || c.LLM.Provider == "openai" || c.TTS.Provider == "openai"
	if needOpenAI && c.Credentials.OpenAIKey == "" {
		return fmt.Errorf("%w: %s is not set", ErrMissingCredential, EnvOpenAIKey)
	}
	if c.TTS.Provider == "elevenlabs" && c.Credentials.ElevenLabsKey == "" {
		return fmt.Errorf("%w: %s is not set", ErrMissingCredential, EnvElevenLabsKey)
	}
	return nil
}

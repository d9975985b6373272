// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     client
// Description: Language model clients
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package client

import (
	"context"
	"time"
)

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLM answers a conversation with one completion
type LLM interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	HealthCheck(ctx context.Context) error
	Model() string
}

// Timeout wraps an LLM so each call is bounded by d
func Timeout(llm LLM, d time.Duration) LLM {
	if d <= 0 {
		return llm
	}
	return &timeoutLLM{LLM: llm, timeout: d}
}

type timeoutLLM struct {
	LLM
	timeout time.Duration
}

func (t *timeoutLLM) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.LLM.Complete(ctx, messages)
}

// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     browser
// Description: Status line and answer pane
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package browser

import "github.com/msto63/lauscher/internal/voiceassistant"

// Panel is the Display rendered by the model. Only touched from Update.
type Panel struct {
	status string
	answer string
}

// NewPanel creates a panel showing the ready status
func NewPanel() *Panel {
	return &Panel{status: voiceassistant.StatusReady}
}

// SetStatus sets the status line
func (p *Panel) SetStatus(status string) { p.status = status }

// ShowAnswer replaces the answer pane text
func (p *Panel) ShowAnswer(text string) { p.answer = text }

// Answer returns the answer pane text
func (p *Panel) Answer() string { return p.answer }

// Status returns the status line
func (p *Panel) Status() string { return p.status }
